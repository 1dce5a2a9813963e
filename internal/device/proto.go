// Hand-written stand-ins for what protoc-gen-go-grpc would generate from
// the device's authentication.proto and telemetry.proto (spec.md §6 "Wire
// protocol (agent↔device)"). The real schemas belong to the telemetry
// device vendor and are out of scope here; only the shapes this agent
// actually reads or writes are modeled.
package device

import (
	"context"

	"google.golang.org/grpc"
)

// loginRequest mirrors junos_auth.LoginRequest (original_source
// jtimon-rs/src/grpc/grpc.rs).
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	GroupID  string `json:"group_id"`
	ClientID string `json:"client_id"`
}

type loginResponse struct {
	Result string `json:"result"`
}

const authServiceName = "authentication.Login"

func authLogin(ctx context.Context, cc grpc.ClientConnInterface, req *loginRequest, opts ...grpc.CallOption) (*loginResponse, error) {
	out := new(loginResponse)
	opts = append(opts, grpc.CallContentSubtype(codecName))
	if err := cc.Invoke(ctx, "/"+authServiceName+"/LoginCheck", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// subscriptionAdditionalConfig mirrors SubscriptionAdditionalConfig.
type subscriptionAdditionalConfig struct {
	Mode    string `json:"mode"` // "LongLived"
	NeedEOS bool   `json:"need_eos"`
}

// subscriptionPath mirrors telemetry.Path.
type subscriptionPath struct {
	Path           string `json:"path"`
	SampleFrequency uint32 `json:"sample_frequency"`
}

// subscriptionRequest mirrors telemetry.SubscriptionRequest.
type subscriptionRequest struct {
	AdditionalConfig subscriptionAdditionalConfig `json:"additional_config"`
	PathList         []subscriptionPath           `json:"path_list"`
}

// rawKV mirrors one telemetry.KeyValue entry on the wire.
type rawKV struct {
	Key            string   `json:"key"`
	StrValue       *string  `json:"str_value,omitempty"`
	DoubleValue    *float64 `json:"double_value,omitempty"`
	FloatValue     *float32 `json:"float_value,omitempty"`
	UintValue      *uint64  `json:"uint_value,omitempty"`
	IntValue       *int64   `json:"int_value,omitempty"`
}

// rawOpenConfigData mirrors telemetry.OpenConfigData, the device's native
// wire shape (original_source jtimon-rs/src/telemetry).
type rawOpenConfigData struct {
	Path      string  `json:"path"`
	Timestamp uint64  `json:"timestamp"`
	SystemID  string  `json:"system_id"`
	KV        []rawKV `json:"kv"`
}

const telemetryServiceName = "telemetry.OpenConfigTelemetry"

type openConfigTelemetrySubscribeClient interface {
	Recv() (*rawOpenConfigData, error)
	grpc.ClientStream
}

type openConfigTelemetrySubscribeClientImpl struct {
	grpc.ClientStream
}

func (x *openConfigTelemetrySubscribeClientImpl) Recv() (*rawOpenConfigData, error) {
	m := new(rawOpenConfigData)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

var telemetrySubscribeStreamDesc = grpc.StreamDesc{
	StreamName:    "telemetrySubscribe",
	ServerStreams: true,
}

func telemetrySubscribe(ctx context.Context, cc grpc.ClientConnInterface, req *subscriptionRequest, opts ...grpc.CallOption) (openConfigTelemetrySubscribeClient, error) {
	opts = append(opts, grpc.CallContentSubtype(codecName))
	stream, err := cc.NewStream(ctx, &telemetrySubscribeStreamDesc, "/"+telemetryServiceName+"/telemetrySubscribe", opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &openConfigTelemetrySubscribeClientImpl{stream}, nil
}
