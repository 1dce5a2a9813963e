// Package ingress implements the Collector Ingress (spec.md §4.6): the
// gRPC-facing half of the collector, translating RegisterMetrics/SendMetrics
// RPC calls into Gauge Manager commands.
package ingress

import (
	"context"
	"io"
	"log/slog"

	"github.com/neox5/cnmetrics/internal/gauge"
	"github.com/neox5/cnmetrics/internal/wire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server implements wire.CollectorServerServer, forwarding every received
// message to the Gauge Manager's command channel.
type Server struct {
	manager *gauge.Manager
}

// New creates a Server bound to manager.
func New(manager *gauge.Manager) *Server {
	return &Server{manager: manager}
}

// RegisterMetrics declares a metric shape (spec.md §4.6).
func (s *Server) RegisterMetrics(ctx context.Context, m *wire.CollectorMetrics) (*wire.Reply, error) {
	if m == nil {
		return nil, status.Error(codes.InvalidArgument, "nil CollectorMetrics")
	}
	s.manager.Register(ctx, m)
	return &wire.Reply{}, nil
}

// SendMetrics ingests samples from the client until it closes the stream,
// forwarding every received element to the Gauge Manager.
func (s *Server) SendMetrics(stream wire.CollectorServer_SendMetricsServer) error {
	ctx := stream.Context()
	for {
		m, err := stream.Recv()
		if err == io.EOF {
			return stream.SendAndClose(&wire.Reply{})
		}
		if err != nil {
			slog.Warn("send-metrics stream read failed", "error", err)
			return status.Errorf(codes.Internal, "recv: %v", err)
		}
		s.manager.SendMetrics(ctx, m)
	}
}
