// Package wire defines the CollectorMetrics wire message and the gRPC
// service shape the agent and collector speak over (RegisterMetrics unary,
// SendMetrics client-streaming), plus the shape-derivation used by the
// Gauge Manager to detect when a new Prometheus family must be registered.
//
// Code generation via protoc is out of scope (spec.md §1 treats the raw
// protobuf/gRPC transport as an assumed collaborator); this package hand-
// builds the same grpc.ServiceDesc shape protoc-gen-go-grpc would emit, but
// carries plain JSON-tagged Go structs instead of generated proto messages
// (see codec.go). The real google.golang.org/grpc transport, framing and
// streaming semantics are unchanged.
package wire

// CollectorMetrics is the wire unit exchanged between agent and collector.
type CollectorMetrics struct {
	Namespace string            `json:"namespace,omitempty"`
	Labels    map[string]string `json:"labels"`
	Metrics   map[string]uint64 `json:"metrics"`
}

// Reply is the empty acknowledgement both RPCs return.
type Reply struct{}
