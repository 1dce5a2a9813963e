// Package rate computes deltas over a monotonic counter series, keyed by an
// arbitrary composite key.
//
// This tracker backs the file scraper's `_rate` computation (§4.2): first
// observation and counter resets both report the raw value, as if the
// previous value were zero. The telemetry transformer's rate computation
// (§4.3) has different reset semantics and is driven off its own aggregate
// snapshots rather than this tracker — see spec.md §9 "Rate map ownership"
// and internal/openconfig, which keeps its own map deliberately separate.
package rate

type observation struct {
	value uint64
	tsMs  uint64
}

// Tracker holds the last observed (value, timestamp) pair per key.
type Tracker struct {
	last map[string]observation
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{last: make(map[string]observation)}
}

// Delta records a new (value, tsMs) observation for key and returns
// max(0, value - previous), or value itself on first observation or on a
// reset (value < previous value).
func (t *Tracker) Delta(key string, value, tsMs uint64) uint64 {
	prev, ok := t.last[key]
	t.last[key] = observation{value: value, tsMs: tsMs}

	if !ok || value < prev.value {
		return value
	}

	return value - prev.value
}

// Peek returns the last recorded value for key without recording a new
// observation, and whether one exists.
func (t *Tracker) Peek(key string) (value uint64, ok bool) {
	obs, ok := t.last[key]
	return obs.value, ok
}
