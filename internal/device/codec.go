package device

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is this package's gRPC content-subtype, distinct from the
// internal/wire package's "cnmjson" so both codecs can be registered in the
// same process without colliding.
const codecName = "cnmdevicejson"

func init() {
	encoding.RegisterCodec(deviceJSONCodec{})
}

type deviceJSONCodec struct{}

func (deviceJSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (deviceJSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (deviceJSONCodec) Name() string {
	return codecName
}
