package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neox5/cnmetrics/internal/config"
	"github.com/neox5/cnmetrics/internal/monitor"
	"github.com/neox5/cnmetrics/internal/scrape"
	"github.com/neox5/cnmetrics/internal/uplink"
	"github.com/neox5/cnmetrics/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "cnm-agent",
		Usage:   "File-based counter scraper that uplinks to a cnmetrics collector",
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

	slog.Info("starting cnm-agent", "version", version.String(), "config", configPath)

	cfg, err := config.LoadAgent(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	up := uplink.New(cfg.Address)

	counters := make([]scrape.Counter, len(cfg.Counters))
	for i, c := range cfg.Counters {
		counters[i] = scrape.Counter{Paths: c.Paths, Labels: c.Labels, RateKeys: c.RateKeys}
	}

	registerCtx, cancelRegister := context.WithTimeout(ctx, 10*time.Second)
	for _, c := range counters {
		shape := scrape.RegistrationShape(c, cfg.Labels, cfg.Namespace)
		if err := up.RegisterMetrics(registerCtx, shape); err != nil {
			cancelRegister()
			return fmt.Errorf("register metrics: %w", err)
		}
	}
	cancelRegister()

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(5*time.Second, logger)
	mon.Run(shutdownCtx)
	defer mon.Wait()

	scraper := scrape.New(cfg.Labels, counters, up, time.Duration(cfg.Interval)*time.Millisecond, cfg.Namespace)

	errCh := make(chan error, 2)
	go func() {
		if err := up.Run(shutdownCtx); err != nil {
			errCh <- fmt.Errorf("uplink: %w", err)
		}
	}()
	go func() {
		if err := scraper.Run(shutdownCtx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("scraper: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		slog.Error("agent failed", "error", err)
		stop()
		return err
	case <-shutdownCtx.Done():
	}

	slog.Info("shutdown complete")
	return nil
}
