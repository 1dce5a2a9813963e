package wire

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the gRPC content-subtype this package's messages are framed
// with. It must not collide with the default "proto" subtype so that this
// codec coexists with any other proto-based service registered on the same
// process, per grpc-go's per-subtype codec registry.
const codecName = "cnmjson"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals wire messages as JSON instead of protobuf. It lets this
// package use plain Go structs (CollectorMetrics, Reply) as gRPC messages
// without running protoc, while keeping the real grpc transport and
// streaming semantics.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}
