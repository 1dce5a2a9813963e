package openconfig

// ValueKind tags the dynamic type carried by a telemetry key/value entry.
type ValueKind int

const (
	KindOther ValueKind = iota
	KindDouble
	KindFloat
	KindUint
	KindInt
)

// Value is the tagged union of the scalar types an OpenConfig kv entry can
// carry. Exactly one of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind   ValueKind
	Double float64
	Float  float32
	Uint   uint64
	Int    int64
}

// ToUint64 converts v to u64 via truncating cast, per spec.md §4.3: double
// and float truncate toward zero, uint passes through, int is reinterpreted
// as u64 two's-complement (matching the source's `as u64` cast — a negative
// int wraps rather than clamping to 0), anything else is 0.
func (v Value) ToUint64() uint64 {
	switch v.Kind {
	case KindDouble:
		return uint64(v.Double)
	case KindFloat:
		return uint64(v.Float)
	case KindUint:
		return v.Uint
	case KindInt:
		return uint64(v.Int)
	default:
		return 0
	}
}
