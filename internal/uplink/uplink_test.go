package uplink

import (
	"context"
	"testing"
	"time"

	"github.com/neox5/cnmetrics/internal/wire"
)

// TestUplink_SendBlocksWhenQueueFull reproduces scenario S6: filling the
// queue to capacity makes a further Send block until an element drains.
func TestUplink_SendBlocksWhenQueueFull(t *testing.T) {
	u := newWithCapacity("unused:0", 1)

	ctx := context.Background()
	m := &wire.CollectorMetrics{Namespace: "ns", Metrics: map[string]uint64{"x": 1}}

	if err := u.Send(ctx, m); err != nil {
		t.Fatalf("first send: %v", err)
	}

	blocked := make(chan struct{})
	go func() {
		_ = u.Send(ctx, m)
		close(blocked)
	}()

	select {
	case <-blocked:
		t.Fatal("second send returned before the queue drained")
	case <-time.After(50 * time.Millisecond):
	}

	<-u.queue // drain one element, as the streaming goroutine would

	select {
	case <-blocked:
	case <-time.After(time.Second):
		t.Fatal("second send never unblocked after drain")
	}
}

func TestUplink_SendRespectsContextCancellation(t *testing.T) {
	u := newWithCapacity("unused:0", 1)
	m := &wire.CollectorMetrics{Namespace: "ns"}

	if err := u.Send(context.Background(), m); err != nil {
		t.Fatalf("first send: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := u.Send(ctx, m); err == nil {
		t.Fatal("expected cancellation error on blocked send")
	}
}
