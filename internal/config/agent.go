package config

// AgentConfig is the file-scraper agent's YAML configuration (spec.md §6
// "Agent config (YAML)").
type AgentConfig struct {
	Address   string            `yaml:"address"`
	Namespace string            `yaml:"namespace"`
	Labels    map[string]string `yaml:"labels"`
	Interval  uint64            `yaml:"interval"`
	Counters  []CounterConfig   `yaml:"counters"`
}

// CounterConfig is one entry of AgentConfig.Counters.
type CounterConfig struct {
	Paths    []string          `yaml:"paths"`
	Labels   map[string]string `yaml:"labels"`
	RateKeys []string          `yaml:"rate_keys"`
}
