// Package gauge implements the Gauge Manager (spec.md §4.6): a
// single-goroutine actor that owns the Prometheus registry and the
// metric_name → GaugeVec map, reacting to Register/SendMetrics commands
// delivered over a bounded channel; starting and stopping follow the
// lifetime of Run's context. Command order is preserved;
// a Register issued while handling SendMetrics is observed strictly after
// the triggering send, because both run on the same goroutine.
package gauge

import (
	"context"
	"log/slog"
	"strings"

	"github.com/neox5/cnmetrics/internal/wire"
	"github.com/prometheus/client_golang/prometheus"
)

// commandKind distinguishes the two actor commands (spec.md §4.6); Start
// and Stop are covered by Run's context instead of a command.
type commandKind int

const (
	cmdRegister commandKind = iota
	cmdSendMetrics
)

type command struct {
	kind commandKind
	msg  *wire.CollectorMetrics
	done chan struct{}
}

// Manager is the Gauge Manager actor. Exposed methods enqueue a command and
// block until it has been applied, keeping callers simple while preserving
// single-goroutine ownership of the registry and gauge map.
type Manager struct {
	commands chan command

	registry *prometheus.Registry
	gauges   map[string]*prometheus.GaugeVec
	shapes   map[string]wire.Shape

	onSwap func(*prometheus.Registry)
}

// New creates a Manager with an empty registry. onSwap is invoked with the
// freshly rebuilt registry whenever a genuinely new GaugeVec is added — the
// HTTP Exposer wires this to its own hot-swap.
func New(onSwap func(*prometheus.Registry)) *Manager {
	return &Manager{
		commands: make(chan command, 256),
		registry: prometheus.NewRegistry(),
		gauges:   make(map[string]*prometheus.GaugeVec),
		shapes:   make(map[string]wire.Shape),
		onSwap:   onSwap,
	}
}

// Run drives the command loop until ctx is cancelled (the Start/Stop pair
// from spec.md §4.6 collapses to ctx lifetime here, since Go's goroutine
// model makes an explicit Stop command redundant with cancellation).
func (m *Manager) Run(ctx context.Context) {
	slog.Info("gauge manager started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("gauge manager stopped")
			return
		case cmd := <-m.commands:
			m.handle(cmd)
			if cmd.done != nil {
				close(cmd.done)
			}
		}
	}
}

func (m *Manager) handle(cmd command) {
	switch cmd.kind {
	case cmdRegister:
		m.register(cmd.msg)
	case cmdSendMetrics:
		m.send(cmd.msg)
	}
}

// Registry returns the currently installed registry. Intended for tests
// and for wiring a fresh Exposer at startup; callers must not mutate it.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Register submits m's shape for registration and blocks until applied.
func (m *Manager) Register(ctx context.Context, msg *wire.CollectorMetrics) {
	m.enqueue(ctx, command{kind: cmdRegister, msg: msg})
}

// SendMetrics submits m's sample values and blocks until applied.
func (m *Manager) SendMetrics(ctx context.Context, msg *wire.CollectorMetrics) {
	m.enqueue(ctx, command{kind: cmdSendMetrics, msg: msg})
}

func (m *Manager) enqueue(ctx context.Context, cmd command) {
	cmd.done = make(chan struct{})
	select {
	case m.commands <- cmd:
	case <-ctx.Done():
		return
	}
	select {
	case <-cmd.done:
	case <-ctx.Done():
	}
}

// register implements spec.md §4.6 "Register semantics". It builds one
// GaugeVec per metric name in msg using the sorted label-key tuple, skips
// names already registered under an identical shape, and otherwise
// attempts registration — ignoring the "duplicate metrics collector
// registration" error, which occurs if the same collector instance was
// already added under a different bookkeeping path. A name whose shape
// changed since its last registration is not registered against the
// current registry, since client_golang keeps a name's label dimensions
// even after Unregister and rejects a new descriptor with a different
// label set; its new GaugeVec replaces the stale one in the gauge map and
// reaches a registry through the rebuild. A rebuild+hot-swap happens only
// if at least one GaugeVec was genuinely new or replaced.
func (m *Manager) register(msg *wire.CollectorMetrics) {
	shape := wire.ShapeOf(msg)
	labelNames := wire.SortedLabelNames(msg)

	added := false
	for name := range msg.Metrics {
		existingShape, known := m.shapes[name]
		if known && existingShape == shape {
			continue
		}

		gv := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: msg.Namespace,
			Name:      name,
			Help:      "collected via cnmetrics agent uplink",
		}, labelNames)

		if !known {
			if err := m.registry.Register(gv); err != nil {
				if strings.Contains(err.Error(), "duplicate metrics collector registration") {
					continue
				}
				slog.Warn("gauge registration failed", "metric", name, "error", err)
				continue
			}
		}

		m.gauges[name] = gv
		m.shapes[name] = shape
		added = true

		slog.Info("registered gauge", "metric", name, "namespace", msg.Namespace, "labels", labelNames)
	}

	if added {
		m.rebuild()
	}
}

// rebuild clones the gauge map into a fresh registry and installs it,
// notifying the HTTP Exposer — the middleware captures the registry at
// construction time so a live registry cannot gain collectors in place
// once an exposer handler has already been built against it.
func (m *Manager) rebuild() {
	fresh := prometheus.NewRegistry()
	for name, gv := range m.gauges {
		if err := fresh.Register(gv); err != nil {
			slog.Warn("rebuild: re-registering gauge failed", "metric", name, "error", err)
		}
	}
	m.registry = fresh

	if m.onSwap != nil {
		m.onSwap(m.registry)
	}
}

// send implements spec.md §4.6 "Send semantics". Message labels are
// sorted by key and projected to the value slice aligned with the
// registered GaugeVec's label-name order. A metric name that is either
// unregistered or registered under a different shape (its label set
// evolved since Register) triggers a deferred Register of the original
// message so the next cycle surfaces it, rather than failing the send or
// calling WithLabelValues with a stale label-value count.
func (m *Manager) send(msg *wire.CollectorMetrics) {
	shape := wire.ShapeOf(msg)
	labelValues := wire.LabelValues(msg)

	var deferredRegister bool
	for name, value := range msg.Metrics {
		existing, ok := m.shapes[name]
		if !ok || existing != shape {
			deferredRegister = true
			continue
		}
		gv := m.gauges[name]
		gv.WithLabelValues(labelValues...).Set(float64(value))
	}

	if deferredRegister {
		slog.Debug("unknown or reshaped metric in send, deferring registration", "namespace", msg.Namespace)
		m.register(msg)
	}
}
