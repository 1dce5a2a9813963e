package gauge

import (
	"context"
	"testing"

	"github.com/neox5/cnmetrics/internal/wire"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func runManager(t *testing.T) (*Manager, context.Context, func()) {
	t.Helper()
	m := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)
	t.Cleanup(cancel)
	return m, ctx, cancel
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string, labels prometheus.Labels) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if labelsMatch(metric, labels) {
				return metric.GetGauge().GetValue()
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(m *dto.Metric, want prometheus.Labels) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

// TestManager_RegisterThenSend checks that registering a shape then
// sending a sample makes the value observable on the registry.
func TestManager_RegisterThenSend(t *testing.T) {
	m, ctx, _ := runManager(t)

	msg := &wire.CollectorMetrics{
		Namespace: "agent1",
		Labels:    map[string]string{"host": "h1"},
		Metrics:   map[string]uint64{"pkts": 10},
	}

	m.Register(ctx, msg)
	m.SendMetrics(ctx, msg)

	got := gaugeValue(t, m.registry, "pkts", prometheus.Labels{"host": "h1"})
	if got != 10 {
		t.Errorf("pkts = %v, want 10", got)
	}
}

// TestManager_DuplicateRegistrationIgnored ensures re-registering the same
// shape does not trigger an error or a spurious rebuild.
func TestManager_DuplicateRegistrationIgnored(t *testing.T) {
	m, ctx, _ := runManager(t)

	msg := &wire.CollectorMetrics{
		Namespace: "agent1",
		Labels:    map[string]string{"host": "h1"},
		Metrics:   map[string]uint64{"pkts": 1},
	}

	m.Register(ctx, msg)
	registryBefore := m.registry
	m.Register(ctx, msg)

	if m.registry != registryBefore {
		t.Error("duplicate registration triggered an unnecessary rebuild")
	}
}

// TestManager_SendUnknownMetricDefersRegister reproduces the "unknown
// metric in SendMetrics" edge case (spec.md §7): an unregistered name in a
// Send command causes a deferred Register of the original message.
func TestManager_SendUnknownMetricDefersRegister(t *testing.T) {
	m, ctx, _ := runManager(t)

	msg := &wire.CollectorMetrics{
		Namespace: "agent1",
		Labels:    map[string]string{"host": "h1"},
		Metrics:   map[string]uint64{"new_metric": 5},
	}

	m.SendMetrics(ctx, msg)

	if _, ok := m.gauges["new_metric"]; !ok {
		t.Fatal("expected deferred registration to add new_metric to the gauge map")
	}
}

// TestManager_SendWithChangedShapeReregisters reproduces scenario S4's
// reshape case: a metric name sent again with a different label set must
// not panic on WithLabelValues cardinality, and the new shape must be
// observable afterward. The first reshaped send only registers the new
// shape; the next send of the same message sets its values.
func TestManager_SendWithChangedShapeReregisters(t *testing.T) {
	m, ctx, _ := runManager(t)

	first := &wire.CollectorMetrics{
		Namespace: "agent1",
		Labels:    map[string]string{"a": "1", "b": "2"},
		Metrics:   map[string]uint64{"m": 1},
	}
	m.Register(ctx, first)
	m.SendMetrics(ctx, first)

	second := &wire.CollectorMetrics{
		Namespace: "agent1",
		Labels:    map[string]string{"a": "1", "b": "2", "c": "3"},
		Metrics:   map[string]uint64{"m": 7, "n": 9},
	}
	m.SendMetrics(ctx, second)
	m.SendMetrics(ctx, second)

	got := gaugeValue(t, m.registry, "m", prometheus.Labels{"a": "1", "b": "2", "c": "3"})
	if got != 7 {
		t.Errorf("m = %v, want 7", got)
	}
	got = gaugeValue(t, m.registry, "n", prometheus.Labels{"a": "1", "b": "2", "c": "3"})
	if got != 9 {
		t.Errorf("n = %v, want 9", got)
	}
}

// TestManager_ShapeEvolutionTriggersRebuild reproduces scenario S4: a
// second message adding a new metric name rebuilds the registry so both
// old and new gauges remain reachable.
func TestManager_ShapeEvolutionTriggersRebuild(t *testing.T) {
	m, ctx, _ := runManager(t)

	first := &wire.CollectorMetrics{
		Namespace: "agent1",
		Labels:    map[string]string{"host": "h1"},
		Metrics:   map[string]uint64{"pkts": 1},
	}
	second := &wire.CollectorMetrics{
		Namespace: "agent1",
		Labels:    map[string]string{"host": "h1"},
		Metrics:   map[string]uint64{"errors": 2},
	}

	m.Register(ctx, first)
	m.Register(ctx, second)

	if _, ok := m.gauges["pkts"]; !ok {
		t.Error("pkts gauge lost after rebuild")
	}
	if _, ok := m.gauges["errors"]; !ok {
		t.Error("errors gauge missing after rebuild")
	}
}
