package scrape

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/neox5/cnmetrics/internal/wire"
)

type recordingSink struct {
	sent []*wire.CollectorMetrics
}

func (r *recordingSink) Send(_ context.Context, m *wire.CollectorMetrics) error {
	r.sent = append(r.sent, m)
	return nil
}

func writeCounter(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

// TestScraper_S1 reproduces spec.md scenario S1: three ticks of a single
// counter spec, validating raw value, _rate, and the first-observation /
// reset boundary behaviors.
func TestScraper_S1(t *testing.T) {
	dir := t.TempDir()
	writeCounter(t, dir, "a", "5\n")
	writeCounter(t, dir, "b", "abc")

	sink := &recordingSink{}
	counters := []Counter{
		{Paths: []string{dir}, RateKeys: []string{"a"}},
	}
	s := New(map[string]string{"host": "h"}, counters, sink, 0, "")

	s.tick(context.Background())
	got := sink.sent[0]
	assertMetrics(t, got, map[string]uint64{"a": 5, "a_rate": 5, "b": 0})
	assertLabels(t, got, map[string]string{"host": "h"})

	writeCounter(t, dir, "a", "8")
	s.tick(context.Background())
	assertMetrics(t, sink.sent[1], map[string]uint64{"a": 8, "a_rate": 3, "b": 0})

	writeCounter(t, dir, "a", "2")
	s.tick(context.Background())
	assertMetrics(t, sink.sent[2], map[string]uint64{"a": 2, "a_rate": 2, "b": 0})
}

func TestScraper_MissingDirectoryIsSkipped(t *testing.T) {
	sink := &recordingSink{}
	counters := []Counter{
		{Paths: []string{"/does/not/exist"}},
	}
	s := New(nil, counters, sink, 0, "")
	s.tick(context.Background())

	if len(sink.sent[0].Metrics) != 0 {
		t.Errorf("expected no metrics for missing directory, got %v", sink.sent[0].Metrics)
	}
}

func TestScraper_GlobalLabelsWinOnCollision(t *testing.T) {
	dir := t.TempDir()
	sink := &recordingSink{}
	counters := []Counter{
		{Paths: []string{dir}, Labels: map[string]string{"host": "spec-local"}},
	}
	s := New(map[string]string{"host": "global"}, counters, sink, 0, "")
	s.tick(context.Background())

	if sink.sent[0].Labels["host"] != "global" {
		t.Errorf("host label = %q, want %q (global wins)", sink.sent[0].Labels["host"], "global")
	}
}

func assertMetrics(t *testing.T, m *wire.CollectorMetrics, want map[string]uint64) {
	t.Helper()
	if len(m.Metrics) != len(want) {
		t.Fatalf("metrics = %v, want %v", m.Metrics, want)
	}
	for k, v := range want {
		if m.Metrics[k] != v {
			t.Errorf("metrics[%q] = %d, want %d", k, m.Metrics[k], v)
		}
	}
}

func assertLabels(t *testing.T, m *wire.CollectorMetrics, want map[string]string) {
	t.Helper()
	for k, v := range want {
		if m.Labels[k] != v {
			t.Errorf("labels[%q] = %q, want %q", k, m.Labels[k], v)
		}
	}
}
