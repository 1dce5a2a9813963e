// Package openconfig implements the OpenConfig Transformer (spec.md §4.3):
// it consumes an ordered stream of OpenConfigData telemetry emissions,
// extracts __prefix__ and bracketed [k=v] label syntax, groups counters by
// composite key within each emission, and computes per-second rates across
// emissions of the same subscription.
package openconfig

import (
	"strings"

	"github.com/neox5/cnmetrics/internal/label"
	"github.com/neox5/cnmetrics/internal/wire"
)

// KV is one key/value entry in an OpenConfigData message. Exactly one of
// String or Value is meaningful: string-bearing entries (such as
// "__prefix__") set String; numeric counter entries set Value.
type KV struct {
	Key    string
	String string
	Value  Value
}

// OpenConfigData is one subscription emission from the telemetry device.
// Timestamp is the message's own wall-clock field as delivered by the
// device; per spec.md §4.3 "Tie-breaks and edge cases", rate computation
// is driven off a "__timestamp__" kv entry when present, not this field —
// a missing "__timestamp__" kv means ts=0 for that emission regardless of
// Timestamp.
type OpenConfigData struct {
	Path      string
	Timestamp uint64
	SystemID  string
	KV        []KV
}

// counterGroup is one counter_key's worth of data within an aggregate.
type counterGroup struct {
	data   map[string]uint64
	labels map[string]string // counter_{k} = v, non-empty captures only
}

// aggregate is one OpenConfigMetrics snapshot: all counters seen under one
// __prefix__ within one message, further split into counterGroups by
// counter_key.
type aggregate struct {
	systemID     string
	prefix       string
	prefixLabels []label.Pair // ordered; Key already has "prefix_" applied
	ts           uint64
	groups       map[string]*counterGroup
	groupOrder   []string
}

// key is the aggregate identity used to look up the previous snapshot for
// rate computation: system_id + "_" + join(prefix label values).
func (a *aggregate) key() string {
	values := make([]string, len(a.prefixLabels))
	for i, p := range a.prefixLabels {
		values[i] = p.Value
	}
	return a.systemID + "_" + strings.Join(values, "_")
}

// Transformer consumes an ordered stream of OpenConfigData messages for a
// fixed set of configured subscription paths and emits CollectorMetrics,
// keeping the previous emission per aggregate key so rates can be computed
// across emissions. It is owned by a single goroutine; no locking is used
// (spec.md §5 "Shared resources").
type Transformer struct {
	namespace string
	paths     map[string]bool
	previous  map[string]*aggregate
}

// New creates a Transformer. subscriptionPaths are the second
// colon-separated segment of a message's Path that this transformer should
// process (e.g. a message with Path "sensor:interfaces:..." matches
// subscriptionPaths containing "interfaces").
func New(namespace string, subscriptionPaths []string) *Transformer {
	paths := make(map[string]bool, len(subscriptionPaths))
	for _, p := range subscriptionPaths {
		paths[p] = true
	}
	return &Transformer{
		namespace: namespace,
		paths:     paths,
		previous:  make(map[string]*aggregate),
	}
}

// Process handles one message and returns zero or more CollectorMetrics —
// one per aggregate per counter_key produced by this emission.
func (t *Transformer) Process(msg OpenConfigData) []*wire.CollectorMetrics {
	segments := strings.Split(msg.Path, ":")
	if len(segments) < 2 || !t.paths[segments[1]] {
		return nil
	}

	ts := uint64(0)
	for _, kv := range msg.KV {
		if kv.Key == "__timestamp__" {
			ts = kv.Value.ToUint64()
			break
		}
	}

	var aggregates []*aggregate
	var current *aggregate

	for _, kv := range msg.KV {
		switch kv.Key {
		case "index", "__timestamp__":
			continue
		case "__prefix__":
			current = t.startAggregate(msg.SystemID, ts, kv.String)
			aggregates = append(aggregates, current)
		default:
			if current == nil {
				continue // a counter without a preceding __prefix__ has nowhere to attach
			}
			t.processCounter(current, kv)
		}
	}

	var out []*wire.CollectorMetrics
	for _, agg := range aggregates {
		for _, groupKey := range agg.groupOrder {
			out = append(out, t.emit(agg, agg.groups[groupKey]))
		}
		t.previous[agg.key()] = agg
	}

	return out
}

func (t *Transformer) startAggregate(systemID string, ts uint64, prefixRaw string) *aggregate {
	var prefixLabels []label.Pair
	for _, p := range label.ExtractBrackets(prefixRaw) {
		if p.Value == "" {
			continue // empty label values are dropped, not stored
		}
		prefixLabels = append(prefixLabels, label.Pair{Key: "prefix_" + p.Key, Value: p.Value})
	}

	return &aggregate{
		systemID:     systemID,
		prefix:       label.Sanitize(label.StripBrackets(prefixRaw)),
		prefixLabels: prefixLabels,
		ts:           ts,
		groups:       make(map[string]*counterGroup),
	}
}

func (t *Transformer) processCounter(agg *aggregate, kv KV) {
	shortName := label.Sanitize(label.StripBrackets(kv.Key))

	var counterLabels []label.Pair
	var keyValues []string
	for _, p := range label.ExtractBrackets(kv.Key) {
		if p.Value == "" {
			continue
		}
		counterLabels = append(counterLabels, label.Pair{Key: "counter_" + p.Key, Value: p.Value})
		keyValues = append(keyValues, p.Value)
	}

	counterKey := strings.Join(keyValues, "_")
	if counterKey == "" {
		counterKey = agg.key()
	}

	group, ok := agg.groups[counterKey]
	if !ok {
		group = &counterGroup{data: make(map[string]uint64), labels: make(map[string]string)}
		agg.groups[counterKey] = group
		agg.groupOrder = append(agg.groupOrder, counterKey)
	}
	for _, p := range counterLabels {
		group.labels[p.Key] = p.Value
	}

	value := kv.Value.ToUint64()
	group.data[shortName] = value
	group.data[shortName+"_per_sec"] = t.computeRate(agg, counterKey, shortName, value)
}

// computeRate implements spec.md §4.3 Step B's rate rule: look up the
// previous aggregate by this aggregate's key, then the same counter_key's
// group within it, then the counter's previous value by name. A reset
// (value < previous) or a non-positive elapsed interval both report 0.
func (t *Transformer) computeRate(agg *aggregate, counterKey, name string, value uint64) uint64 {
	prevAgg, ok := t.previous[agg.key()]
	if !ok {
		return 0
	}
	prevGroup, ok := prevAgg.groups[counterKey]
	if !ok {
		return 0
	}
	prevValue, ok := prevGroup.data[name]
	if !ok {
		return 0
	}
	if value < prevValue || agg.ts <= prevAgg.ts {
		return 0
	}

	deltaMs := agg.ts - prevAgg.ts
	return (value - prevValue) * 1000 / deltaMs
}

func (t *Transformer) emit(agg *aggregate, group *counterGroup) *wire.CollectorMetrics {
	labels := make(map[string]string, len(agg.prefixLabels)+len(group.labels)+2)
	for _, p := range agg.prefixLabels {
		labels[p.Key] = p.Value
	}
	for k, v := range group.labels {
		labels[k] = v
	}
	labels["namespace"] = t.namespace
	labels["system_id"] = agg.systemID

	metrics := make(map[string]uint64, len(group.data))
	for k, v := range group.data {
		metrics[k] = v
	}

	return &wire.CollectorMetrics{
		Namespace: t.namespace,
		Labels:    labels,
		Metrics:   metrics,
	}
}
