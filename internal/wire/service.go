package wire

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name, matching the
// original collector.proto's "collector.CollectorServer".
const ServiceName = "collector.CollectorServer"

// CollectorServerServer is the server-side interface, named to match the
// service protoc-gen-go-grpc would have produced from collector.proto.
type CollectorServerServer interface {
	RegisterMetrics(context.Context, *CollectorMetrics) (*Reply, error)
	SendMetrics(CollectorServer_SendMetricsServer) error
}

// CollectorServer_SendMetricsServer is the server-side stream handle for
// the client-streaming SendMetrics RPC.
type CollectorServer_SendMetricsServer interface {
	SendAndClose(*Reply) error
	Recv() (*CollectorMetrics, error)
	grpc.ServerStream
}

type collectorServerSendMetricsServer struct {
	grpc.ServerStream
}

func (x *collectorServerSendMetricsServer) SendAndClose(m *Reply) error {
	return x.ServerStream.SendMsg(m)
}

func (x *collectorServerSendMetricsServer) Recv() (*CollectorMetrics, error) {
	m := new(CollectorMetrics)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func registerMetricsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CollectorMetrics)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CollectorServerServer).RegisterMetrics(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/RegisterMetrics"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CollectorServerServer).RegisterMetrics(ctx, req.(*CollectorMetrics))
	}
	return interceptor(ctx, in, info, handler)
}

func sendMetricsHandler(srv any, stream grpc.ServerStream) error {
	return srv.(CollectorServerServer).SendMetrics(&collectorServerSendMetricsServer{stream})
}

// ServiceDesc is the hand-built equivalent of what protoc-gen-go-grpc would
// generate for collector.proto's CollectorServer service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CollectorServerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterMetrics", Handler: registerMetricsHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "SendMetrics", Handler: sendMetricsHandler, ClientStreams: true},
	},
	Metadata: "collector.proto",
}

// RegisterCollectorServerServer registers srv with s under ServiceDesc.
func RegisterCollectorServerServer(s grpc.ServiceRegistrar, srv CollectorServerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// CollectorServerClient is the client-side interface.
type CollectorServerClient interface {
	RegisterMetrics(ctx context.Context, in *CollectorMetrics, opts ...grpc.CallOption) (*Reply, error)
	SendMetrics(ctx context.Context, opts ...grpc.CallOption) (CollectorServer_SendMetricsClient, error)
}

type collectorServerClient struct {
	cc grpc.ClientConnInterface
}

// NewCollectorServerClient wraps a dialed connection as a CollectorServerClient.
func NewCollectorServerClient(cc grpc.ClientConnInterface) CollectorServerClient {
	return &collectorServerClient{cc: cc}
}

func (c *collectorServerClient) RegisterMetrics(ctx context.Context, in *CollectorMetrics, opts ...grpc.CallOption) (*Reply, error) {
	out := new(Reply)
	opts = append(opts, grpc.CallContentSubtype(codecName))
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/RegisterMetrics", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CollectorServer_SendMetricsClient is the client-side stream handle for
// the client-streaming SendMetrics RPC.
type CollectorServer_SendMetricsClient interface {
	Send(*CollectorMetrics) error
	CloseAndRecv() (*Reply, error)
	grpc.ClientStream
}

func (c *collectorServerClient) SendMetrics(ctx context.Context, opts ...grpc.CallOption) (CollectorServer_SendMetricsClient, error) {
	opts = append(opts, grpc.CallContentSubtype(codecName))
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], "/"+ServiceName+"/SendMetrics", opts...)
	if err != nil {
		return nil, err
	}
	return &collectorServerSendMetricsClient{stream}, nil
}

type collectorServerSendMetricsClient struct {
	grpc.ClientStream
}

func (x *collectorServerSendMetricsClient) Send(m *CollectorMetrics) error {
	return x.ClientStream.SendMsg(m)
}

func (x *collectorServerSendMetricsClient) CloseAndRecv() (*Reply, error) {
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	m := new(Reply)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
