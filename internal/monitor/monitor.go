package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Monitor periodically logs the running process's own resource usage. All
// three binaries (agent, telemetry-agent, collector) run one; the log
// messages name the process "collector" regardless of which binary emits
// them.
type Monitor struct {
	interval time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
	proc     *process.Process
}

// New creates a monitor sampling the current process at interval.
func New(interval time.Duration, logger *slog.Logger) *Monitor {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Error("monitor: failed to get process handle", "error", err)
		return nil
	}

	return &Monitor{
		interval: interval,
		logger:   logger,
		proc:     proc,
	}
}

// Run starts the sampling loop in a background goroutine. It returns
// immediately; call Wait to block until ctx is cancelled and the goroutine
// has exited.
func (mon *Monitor) Run(ctx context.Context) {
	mon.wg.Go(func() {
		ticker := time.NewTicker(mon.interval)
		defer ticker.Stop()

		mon.sample()

		for {
			select {
			case <-ctx.Done():
				mon.logger.Info("monitor stopped")
				return
			case <-ticker.C:
				mon.sample()
			}
		}
	})
}

// Wait blocks until the sampling goroutine exits.
func (mon *Monitor) Wait() {
	mon.wg.Wait()
}

// sample reads current process/runtime metrics and logs a resource-usage
// summary, warning if CPU utilization looks saturated.
func (mon *Monitor) sample() {
	cpuPercent, err := mon.proc.CPUPercent()
	if err != nil {
		mon.logger.Warn("monitor: failed to read cpu percent", "error", err)
		cpuPercent = 0
	}

	cores := runtime.GOMAXPROCS(-1)
	maxCPU := float64(cores * 100)

	utilization := 0.0
	if maxCPU > 0 {
		utilization = cpuPercent / maxCPU
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	goroutines := runtime.NumGoroutine()

	saturation := "normal"
	switch {
	case utilization > 0.95:
		saturation = "saturated"
	case utilization > 0.80:
		saturation = "high"
	}

	mb := func(b uint64) float64 { return float64(b) / (1024 * 1024) }
	kb := func(b uint64) float64 { return float64(b) / 1024 }

	mon.logger.LogAttrs(
		context.Background(),
		slog.LevelInfo,
		"collector resource usage",
		slog.String("cpu_percent", fmt.Sprintf("%.4f", cpuPercent)),
		slog.String("utilization_percent", fmt.Sprintf("%.4f", utilization*100)),
		slog.Int("cpu_cores", cores),
		slog.Int("goroutines", goroutines),
		slog.String("heap_alloc_mb", fmt.Sprintf("%.2f", mb(ms.HeapAlloc))),
		slog.String("heap_sys_mb", fmt.Sprintf("%.2f", mb(ms.HeapSys))),
		slog.String("stack_inuse_kb", fmt.Sprintf("%.0f", kb(ms.StackInuse))),
		slog.Uint64("gc_count", uint64(ms.NumGC)),
		slog.String("gc_cpu_fraction", fmt.Sprintf("%.3f", ms.GCCPUFraction)),
		slog.String("saturation", saturation),
	)

	if saturation == "saturated" {
		mon.logger.Warn(
			"collector cpu saturation detected",
			"cpu_percent", cpuPercent,
			"utilization_percent", utilization*100,
			"action", "reduce agent fan-in or increase GOMAXPROCS",
		)
	}
}
