package wire

import "sort"

// Shape is the identity of a registered Prometheus metric family: the
// sorted label-name tuple, the set of metric names, and the namespace. Two
// CollectorMetrics messages have the same Shape iff all three match.
type Shape struct {
	Namespace  string
	LabelNames string // sorted label names, joined by "\x00" for comparability
	Metrics    string // sorted metric names, joined by "\x00"
}

// SortedLabelNames returns m's label keys sorted lexicographically.
func SortedLabelNames(m *CollectorMetrics) []string {
	names := make([]string, 0, len(m.Labels))
	for k := range m.Labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SortedMetricNames returns m's metric keys sorted lexicographically.
func SortedMetricNames(m *CollectorMetrics) []string {
	names := make([]string, 0, len(m.Metrics))
	for k := range m.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ShapeOf derives the Shape of a CollectorMetrics message.
func ShapeOf(m *CollectorMetrics) Shape {
	return Shape{
		Namespace:  m.Namespace,
		LabelNames: joinNUL(SortedLabelNames(m)),
		Metrics:    joinNUL(SortedMetricNames(m)),
	}
}

func joinNUL(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += "\x00"
		}
		out += s
	}
	return out
}

// LabelValues projects m's label values into a slice aligned with
// SortedLabelNames(m) (i.e. sorted-by-key order).
func LabelValues(m *CollectorMetrics) []string {
	names := SortedLabelNames(m)
	vals := make([]string, len(names))
	for i, n := range names {
		vals[i] = m.Labels[n]
	}
	return vals
}
