package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAgent_DefaultsHostLabel(t *testing.T) {
	path := writeTempConfig(t, `
address: "collector:50055"
interval: 1000
counters:
  - paths: ["/sys/class/net/eth0/statistics"]
`)

	cfg, err := LoadAgent(path)
	if err != nil {
		t.Fatalf("LoadAgent: %v", err)
	}
	if _, ok := cfg.Labels["host"]; !ok {
		t.Error("expected host label to be defaulted from hostname")
	}
}

func TestLoadAgent_ExplicitHostLabelKept(t *testing.T) {
	path := writeTempConfig(t, `
address: "collector:50055"
interval: 1000
labels:
  host: my_custom_host
counters:
  - paths: ["/sys/class/net/eth0/statistics"]
`)

	cfg, err := LoadAgent(path)
	if err != nil {
		t.Fatalf("LoadAgent: %v", err)
	}
	if cfg.Labels["host"] != "my_custom_host" {
		t.Errorf("host = %q, want my_custom_host", cfg.Labels["host"])
	}
}

func TestLoadAgent_MissingIntervalRejected(t *testing.T) {
	path := writeTempConfig(t, `
address: "collector:50055"
counters:
  - paths: ["/sys/class/net/eth0/statistics"]
`)

	if _, err := LoadAgent(path); err == nil {
		t.Fatal("expected error for missing interval")
	}
}

func TestLoadTelemetry_ValidConfig(t *testing.T) {
	path := writeTempConfig(t, `
collector:
  address: "collector:50055"
devices:
  - address: "device1:50051"
    user: admin
    password: secret
    tls:
      cert_file: /etc/cnm/client.crt
      key_file: /etc/cnm/client.key
      ca_file: /etc/cnm/ca.crt
      server_name: device1
    paths:
      - path: /cos
        freq: 1000
    namespace: cos
`)

	cfg, err := LoadTelemetry(path)
	if err != nil {
		t.Fatalf("LoadTelemetry: %v", err)
	}
	if len(cfg.Devices) != 1 || cfg.Devices[0].Address != "device1:50051" {
		t.Errorf("devices = %+v", cfg.Devices)
	}
}

func TestLoadTelemetry_MissingTLSRejected(t *testing.T) {
	path := writeTempConfig(t, `
collector:
  address: "collector:50055"
devices:
  - address: "device1:50051"
    paths:
      - path: /cos
        freq: 1000
`)

	if _, err := LoadTelemetry(path); err == nil {
		t.Fatal("expected error for missing tls material")
	}
}
