package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neox5/cnmetrics/internal/gauge"
	"github.com/neox5/cnmetrics/internal/httpexposer"
	"github.com/neox5/cnmetrics/internal/ingress"
	"github.com/neox5/cnmetrics/internal/monitor"
	"github.com/neox5/cnmetrics/internal/version"
	"github.com/neox5/cnmetrics/internal/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"google.golang.org/grpc"
)

func main() {
	cmd := &cli.Command{
		Name:    "cnm-collector",
		Usage:   "Collects CollectorMetrics streams and exposes them as Prometheus gauges",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "grpc-address",
				Value: "0.0.0.0:50055",
				Usage: "address to bind the gRPC ingress server",
			},
			&cli.StringFlag{
				Name:  "prometheus-address",
				Value: "0.0.0.0:50056",
				Usage: "address to bind the HTTP exposer",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	grpcAddr := cmd.String("grpc-address")
	promAddr := cmd.String("prometheus-address")
	debug := cmd.Bool("debug")

	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("starting cnm-collector", "version", version.String(), "grpc_address", grpcAddr, "prometheus_address", promAddr)

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(5*time.Second, logger)
	mon.Run(shutdownCtx)
	defer mon.Wait()

	exposer := httpexposer.New(promAddr, prometheus.NewRegistry())
	manager := gauge.New(exposer.Swap)
	go manager.Run(shutdownCtx)

	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("bind grpc address %s: %w", grpcAddr, err)
	}

	grpcServer := grpc.NewServer()
	wire.RegisterCollectorServerServer(grpcServer, ingress.New(manager))

	errCh := make(chan error, 2)
	go func() {
		slog.Info("grpc ingress listening", "address", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc ingress: %w", err)
		}
	}()
	go func() {
		if err := exposer.Run(shutdownCtx); err != nil {
			errCh <- fmt.Errorf("http exposer: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		slog.Error("collector failed", "error", err)
		stop()
		grpcServer.GracefulStop()
		return err
	case <-shutdownCtx.Done():
		grpcServer.GracefulStop()
	}

	slog.Info("shutdown complete")
	return nil
}
