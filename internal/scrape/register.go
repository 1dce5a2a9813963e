package scrape

import (
	"os"

	"github.com/neox5/cnmetrics/internal/wire"
)

// RegistrationShape walks spec's directories once, without reading any
// counter values, and builds the zero-valued CollectorMetrics the agent
// registers before its scrape loop starts (spec.md SPEC_FULL.md §11.2):
// every counter file name becomes a metric set to zero, and every declared
// rate key additionally gets a "<name>_rate" entry set to zero.
func RegistrationShape(spec Counter, globalLabels map[string]string, namespace string) *wire.CollectorMetrics {
	labels := make(map[string]string, len(spec.Labels)+len(globalLabels))
	for k, v := range spec.Labels {
		labels[k] = v
	}
	for k, v := range globalLabels {
		labels[k] = v
	}

	isRateKey := make(map[string]bool, len(spec.RateKeys))
	for _, k := range spec.RateKeys {
		isRateKey[k] = true
	}

	metrics := make(map[string]uint64)
	for _, dir := range spec.Paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			metrics[name] = 0
			if isRateKey[name] {
				metrics[name+"_rate"] = 0
			}
		}
	}

	return &wire.CollectorMetrics{
		Namespace: namespace,
		Labels:    labels,
		Metrics:   metrics,
	}
}
