package config

// TelemetryConfig is the telemetry-agent's YAML configuration (spec.md §6
// "Telemetry-agent config (YAML)").
type TelemetryConfig struct {
	Devices   []DeviceConfig  `yaml:"devices"`
	Collector CollectorConfig `yaml:"collector"`
}

// DeviceConfig describes one telemetry-capable device to subscribe to.
type DeviceConfig struct {
	Address   string       `yaml:"address"`
	User      string       `yaml:"user"`
	Password  string       `yaml:"password"`
	TLS       TLSConfig    `yaml:"tls"`
	Paths     []PathConfig `yaml:"paths"`
	Namespace string       `yaml:"namespace"`
}

// TLSConfig names the mutual-TLS material used to dial a device.
type TLSConfig struct {
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	CAFile     string `yaml:"ca_file"`
	ServerName string `yaml:"server_name"`
}

// PathConfig is one subscription path and its sample frequency.
type PathConfig struct {
	Path string `yaml:"path"`
	Freq uint32 `yaml:"freq"`
}

// CollectorConfig is the upstream cnmetrics collector this telemetry-agent
// forwards samples to.
type CollectorConfig struct {
	Address string `yaml:"address"`
}
