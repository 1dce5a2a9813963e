// Package scrape implements the File Scraper (spec.md §4.2): on a fixed
// interval it enumerates configured counter directories, reads counter
// files, tags them with labels, and emits CollectorMetrics samples.
package scrape

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/neox5/cnmetrics/internal/counter"
	"github.com/neox5/cnmetrics/internal/rate"
	"github.com/neox5/cnmetrics/internal/wire"
)

// Counter is one configured counter spec: a set of directories to read, an
// optional set of per-spec labels, and an optional set of rate keys.
type Counter struct {
	Paths    []string
	Labels   map[string]string
	RateKeys []string
}

// Sink receives each CollectorMetrics emitted by a tick.
type Sink interface {
	Send(ctx context.Context, m *wire.CollectorMetrics) error
}

// Scraper owns the tick loop and the rate state for every configured
// counter's rate keys.
type Scraper struct {
	globalLabels map[string]string
	namespace    string
	counters     []Counter
	sink         Sink
	interval     time.Duration

	rateKeyTrackers map[int]*rate.Tracker // one tracker per counter spec index
}

// New creates a Scraper. interval is the tick period; namespace may be
// empty.
func New(globalLabels map[string]string, counters []Counter, sink Sink, interval time.Duration, namespace string) *Scraper {
	trackers := make(map[int]*rate.Tracker, len(counters))
	for i := range counters {
		trackers[i] = rate.New()
	}

	return &Scraper{
		globalLabels:    globalLabels,
		namespace:       namespace,
		counters:        counters,
		sink:            sink,
		interval:        interval,
		rateKeyTrackers: trackers,
	}
}

// Run ticks every s.interval until ctx is cancelled, emitting one
// CollectorMetrics per counter spec per tick.
func (s *Scraper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("starting scraper", "interval_ms", s.interval.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scraper) tick(ctx context.Context) {
	for i, spec := range s.counters {
		m := s.scrapeOne(spec, s.rateKeyTrackers[i])
		if err := s.sink.Send(ctx, m); err != nil {
			slog.Error("failed to send scraped metrics", "error", err)
		}
	}
}

func (s *Scraper) scrapeOne(spec Counter, tracker *rate.Tracker) *wire.CollectorMetrics {
	labels := make(map[string]string, len(spec.Labels)+len(s.globalLabels))
	for k, v := range spec.Labels {
		labels[k] = v
	}
	// Global labels are merged in last, so a colliding key is won by the
	// global label set — preserving the source's insert-then-extend order.
	for k, v := range s.globalLabels {
		labels[k] = v
	}

	isRateKey := make(map[string]bool, len(spec.RateKeys))
	for _, k := range spec.RateKeys {
		isRateKey[k] = true
	}

	metrics := make(map[string]uint64)
	now := uint64(time.Now().UnixMilli())

	for _, dir := range spec.Paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue // directory absent is not an error
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			name := entry.Name()
			value := counter.Read(filepath.Join(dir, name))
			metrics[name] = value

			if isRateKey[name] {
				metrics[name+"_rate"] = tracker.Delta(name, value, now)
			}
		}
	}

	return &wire.CollectorMetrics{
		Namespace: s.namespace,
		Labels:    labels,
		Metrics:   metrics,
	}
}
