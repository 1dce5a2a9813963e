// Package httpexposer implements the HTTP Exposer (spec.md §4.7): a single
// /metrics endpoint serving the Prometheus text exposition format for the
// currently-installed registry, with a liveness string at /.
package httpexposer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// shutdownDeadline bounds graceful shutdown so a hot-swap restart can
// rebind the listener quickly (spec.md §4.7).
const shutdownDeadline = time.Second

// Exposer serves the current registry over HTTP. Swap installs a new
// registry without requiring the HTTP server itself to restart — the
// handler dereferences the atomic pointer on every request.
type Exposer struct {
	addr    string
	server  *http.Server
	current atomic.Pointer[prometheus.Registry]
}

// New creates an Exposer bound to addr, initially serving reg.
func New(addr string, reg *prometheus.Registry) *Exposer {
	e := &Exposer{addr: addr}
	e.current.Store(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Hello, World!")
	})
	mux.Handle("/metrics", http.HandlerFunc(e.serveMetrics))

	e.server = &http.Server{Addr: addr, Handler: mux}
	return e
}

func (e *Exposer) serveMetrics(w http.ResponseWriter, r *http.Request) {
	reg := e.current.Load()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}).ServeHTTP(w, r)
}

// Swap installs reg as the registry served by subsequent /metrics
// requests. It is the Gauge Manager's onSwap callback.
func (e *Exposer) Swap(reg *prometheus.Registry) {
	e.current.Store(reg)
	slog.Debug("http exposer swapped registry", "addr", e.addr)
}

// Run starts serving and blocks until ctx is cancelled or the server
// fails to bind.
func (e *Exposer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http exposer listening", "addr", e.addr)
		if err := e.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http exposer: %w", err)
	case <-ctx.Done():
		return e.Stop()
	}
}

// Stop gracefully shuts the server down within shutdownDeadline.
func (e *Exposer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer cancel()
	slog.Info("http exposer shutting down", "addr", e.addr)
	return e.server.Shutdown(ctx)
}
