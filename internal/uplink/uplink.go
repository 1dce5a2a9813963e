// Package uplink implements the Agent Uplink (spec.md §4.5): a bounded FIFO
// queue of CollectorMetrics drained by a single long-running goroutine into
// a streaming RPC to the collector. Send blocks only when the queue is
// full, which is how backpressure propagates to the scraper/transformer.
//
// There is no in-process reconnect: a stream failure returns an error from
// Run and the process is expected to exit, relying on an operator-level
// supervisor to restart it (spec.md §9 open question 4).
package uplink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/neox5/cnmetrics/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QueueCapacity is the bounded send queue's capacity (spec.md §4.5).
const QueueCapacity = 10_000

// Uplink owns the bounded queue and the dialed connection to the collector.
type Uplink struct {
	address string
	queue   chan *wire.CollectorMetrics
	connID  string
}

// New creates an Uplink that will dial address when Run is called.
func New(address string) *Uplink {
	return newWithCapacity(address, QueueCapacity)
}

func newWithCapacity(address string, capacity int) *Uplink {
	return &Uplink{
		address: address,
		queue:   make(chan *wire.CollectorMetrics, capacity),
		connID:  uuid.NewString(),
	}
}

// Send enqueues m, blocking only if the queue is full. ctx cancellation
// unblocks a pending send with ctx.Err().
func (u *Uplink) Send(ctx context.Context, m *wire.CollectorMetrics) error {
	select {
	case u.queue <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RegisterMetrics makes a unary RegisterMetrics call, dialing a short-lived
// connection for it — mirroring the agent's pre-stream registration pass
// (spec.md SPEC_FULL.md §11.2).
func (u *Uplink) RegisterMetrics(ctx context.Context, m *wire.CollectorMetrics) error {
	conn, err := grpc.NewClient(u.address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial collector: %w", err)
	}
	defer conn.Close()

	client := wire.NewCollectorServerClient(conn)
	if _, err := client.RegisterMetrics(ctx, m); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	return nil
}

// Run dials the collector, opens the long-lived SendMetrics stream, and
// drains the queue into it until ctx is cancelled or the stream fails. A
// stream failure is returned to the caller, which per spec.md §7 should
// exit the process rather than retry.
func (u *Uplink) Run(ctx context.Context) error {
	conn, err := grpc.NewClient(u.address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial collector: %w", err)
	}
	defer conn.Close()

	client := wire.NewCollectorServerClient(conn)
	stream, err := client.SendMetrics(ctx)
	if err != nil {
		return fmt.Errorf("open send-metrics stream: %w", err)
	}

	slog.Info("uplink connected to collector", "address", u.address, "conn_id", u.connID)

	for {
		select {
		case <-ctx.Done():
			_, err := stream.CloseAndRecv()
			return err
		case m := <-u.queue:
			if err := stream.Send(m); err != nil {
				return fmt.Errorf("send metrics: %w", err)
			}
		}
	}
}
