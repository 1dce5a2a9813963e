package config

import (
	"fmt"
	"os"
	"strings"
)

// validateAgent checks configuration consistency and applies the host
// label default (spec.md §6: "If labels does not contain host, the agent
// populates it from the system hostname with - → _").
func validateAgent(cfg *AgentConfig) error {
	if cfg.Address == "" {
		return fmt.Errorf("address must not be empty")
	}
	if cfg.Interval == 0 {
		return fmt.Errorf("interval must be greater than zero")
	}
	for i, c := range cfg.Counters {
		if len(c.Paths) == 0 {
			return fmt.Errorf("counter at index %d: paths must not be empty", i)
		}
	}

	if cfg.Labels == nil {
		cfg.Labels = make(map[string]string)
	}
	if _, ok := cfg.Labels["host"]; !ok {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("resolve hostname for default host label: %w", err)
		}
		cfg.Labels["host"] = strings.ReplaceAll(hostname, "-", "_")
	}

	return nil
}

// validateTelemetry checks configuration consistency for the
// telemetry-agent.
func validateTelemetry(cfg *TelemetryConfig) error {
	if cfg.Collector.Address == "" {
		return fmt.Errorf("collector.address must not be empty")
	}
	if len(cfg.Devices) == 0 {
		return fmt.Errorf("at least one device must be defined")
	}
	for i, d := range cfg.Devices {
		if d.Address == "" {
			return fmt.Errorf("device at index %d: address must not be empty", i)
		}
		if d.TLS.CertFile == "" || d.TLS.KeyFile == "" || d.TLS.CAFile == "" {
			return fmt.Errorf("device %q: tls cert_file, key_file and ca_file must all be set", d.Address)
		}
		if len(d.Paths) == 0 {
			return fmt.Errorf("device %q: at least one path must be defined", d.Address)
		}
	}
	return nil
}
