package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/neox5/cnmetrics/internal/config"
	"github.com/neox5/cnmetrics/internal/device"
	"github.com/neox5/cnmetrics/internal/monitor"
	"github.com/neox5/cnmetrics/internal/openconfig"
	"github.com/neox5/cnmetrics/internal/uplink"
	"github.com/neox5/cnmetrics/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "cnm-telemetry-agent",
		Usage:   "OpenConfig telemetry agent that uplinks device subscriptions to a cnmetrics collector",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to configuration file",
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
	configPath := cmd.String("config")
	debug := cmd.Bool("debug")

	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("starting cnm-telemetry-agent", "version", version.String(), "config", configPath)

	cfg, err := config.LoadTelemetry(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(5*time.Second, logger)
	mon.Run(shutdownCtx)
	defer mon.Wait()

	up := uplink.New(cfg.Collector.Address)

	errCh := make(chan error, len(cfg.Devices)+1)
	go func() {
		if err := up.Run(shutdownCtx); err != nil {
			errCh <- fmt.Errorf("uplink: %w", err)
		}
	}()

	var wg sync.WaitGroup
	for _, dc := range cfg.Devices {
		dc := dc
		wg.Go(func() {
			if err := runDevice(shutdownCtx, dc, up); err != nil {
				errCh <- fmt.Errorf("device %s: %w", dc.Address, err)
			}
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errCh:
		slog.Error("telemetry-agent failed", "error", err)
		stop()
		<-done
		return err
	case <-done:
	case <-shutdownCtx.Done():
		<-done
	}

	slog.Info("shutdown complete")
	return nil
}

func runDevice(ctx context.Context, dc config.DeviceConfig, up *uplink.Uplink) error {
	paths := make([]device.Path, len(dc.Paths))
	subscriptionPaths := make([]string, len(dc.Paths))
	for i, p := range dc.Paths {
		paths[i] = device.Path{Path: p.Path, Freq: p.Freq}
		subscriptionPaths[i] = p.Path
	}

	dialCfg := device.Config{
		Address:  dc.Address,
		Username: dc.User,
		Password: dc.Password,
		TLS: device.TLSConfig{
			CertFile:   dc.TLS.CertFile,
			KeyFile:    dc.TLS.KeyFile,
			CAFile:     dc.TLS.CAFile,
			ServerName: dc.TLS.ServerName,
		},
		Paths:     paths,
		Namespace: dc.Namespace,
	}

	dev, err := device.Dial(ctx, dialCfg)
	if err != nil {
		return err
	}
	defer dev.Close()

	transformer := openconfig.New(dc.Namespace, subscriptionPaths)

	raw := make(chan openconfig.OpenConfigData, 256)
	subErr := make(chan error, 1)
	go func() {
		subErr <- dev.Subscribe(ctx, raw)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-subErr:
			return err
		case msg := <-raw:
			for _, m := range transformer.Process(msg) {
				if err := up.Send(ctx, m); err != nil {
					return fmt.Errorf("uplink send: %w", err)
				}
			}
		}
	}
}
