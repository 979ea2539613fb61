// Package monitor tracks process performance: CPU and memory usage, goroutine
// count, and uptime. Samples accumulate in a bounded history and feed a
// threshold-based health check. When process metrics are unavailable (minimal
// containers, exotic platforms), the monitor degrades to uptime-only instead
// of failing.
package monitor

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/process"
)

// maxHistory bounds the retained sample count.
const maxHistory = 1000

// Metrics is one performance sample.
type Metrics struct {
	Timestamp     time.Time     `json:"timestamp"`
	CPUPercent    float64       `json:"cpu_percent"`
	MemoryPercent float64       `json:"memory_percent"`
	Goroutines    int           `json:"goroutines"`
	Uptime        time.Duration `json:"uptime"`
}

// Thresholds define when a sample counts as a warning.
type Thresholds struct {
	CPUPercent    float64
	MemoryPercent float64
	Goroutines    int
}

// Health is the outcome of a threshold check.
type Health struct {
	Status    string    `json:"status"` // "healthy" or "warning"
	Warnings  []string  `json:"warnings,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Averages summarizes the retained history.
type Averages struct {
	AvgCPU        float64 `json:"avg_cpu"`
	AvgMemory     float64 `json:"avg_memory"`
	AvgGoroutines float64 `json:"avg_goroutines"`
	Samples       int     `json:"samples_count"`
}

// Monitor collects process metrics. Safe for concurrent use.
type Monitor struct {
	start      time.Time
	proc       *process.Process // nil when process metrics are unavailable
	thresholds Thresholds

	mu      sync.Mutex
	history []Metrics
}

// New builds a Monitor with default thresholds. Failure to attach to the
// process is tolerated: samples then carry uptime and goroutine count only.
func New() *Monitor {
	m := &Monitor{
		start: time.Now(),
		thresholds: Thresholds{
			CPUPercent:    80,
			MemoryPercent: 75,
			Goroutines:    500,
		},
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		m.proc = p
	}
	return m
}

// Collect takes one sample, appends it to the bounded history, and returns it.
func (m *Monitor) Collect() Metrics {
	sample := Metrics{
		Timestamp:  time.Now(),
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(m.start),
	}
	if m.proc != nil {
		if cpu, err := m.proc.CPUPercent(); err == nil {
			sample.CPUPercent = cpu
		}
		if mem, err := m.proc.MemoryPercent(); err == nil {
			sample.MemoryPercent = float64(mem)
		}
	}

	m.mu.Lock()
	m.history = append(m.history, sample)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.mu.Unlock()

	return sample
}

// CheckHealth collects a sample and evaluates it against the thresholds.
// CPU and memory checks are skipped when process metrics are unavailable.
func (m *Monitor) CheckHealth() Health {
	sample := m.Collect()
	h := Health{Status: "healthy", Timestamp: sample.Timestamp}

	if m.proc != nil {
		if sample.CPUPercent > m.thresholds.CPUPercent {
			h.Warnings = append(h.Warnings, fmt.Sprintf("High CPU usage: %.1f%%", sample.CPUPercent))
		}
		if sample.MemoryPercent > m.thresholds.MemoryPercent {
			h.Warnings = append(h.Warnings, fmt.Sprintf("High memory usage: %.1f%%", sample.MemoryPercent))
		}
	}
	if sample.Goroutines > m.thresholds.Goroutines {
		h.Warnings = append(h.Warnings, fmt.Sprintf("High goroutine count: %d", sample.Goroutines))
	}
	if len(h.Warnings) > 0 {
		h.Status = "warning"
	}
	return h
}

// AverageMetrics computes averages over the retained history. The second
// return value is false when no samples exist yet.
func (m *Monitor) AverageMetrics() (Averages, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.history)
	if n == 0 {
		return Averages{}, false
	}
	var avg Averages
	for _, s := range m.history {
		avg.AvgCPU += s.CPUPercent
		avg.AvgMemory += s.MemoryPercent
		avg.AvgGoroutines += float64(s.Goroutines)
	}
	avg.AvgCPU /= float64(n)
	avg.AvgMemory /= float64(n)
	avg.AvgGoroutines /= float64(n)
	avg.Samples = n
	return avg, true
}

// LogMetrics writes the current sample, plus any threshold warnings, to lg.
func (m *Monitor) LogMetrics(lg zerolog.Logger) {
	sample := m.Collect()
	lg.Info().
		Float64("cpu_percent", sample.CPUPercent).
		Float64("memory_percent", sample.MemoryPercent).
		Int("goroutines", sample.Goroutines).
		Dur("uptime", sample.Uptime).
		Msg("performance metrics")

	h := m.CheckHealth()
	for _, w := range h.Warnings {
		lg.Warn().Str("warning", w).Msg("performance warning")
	}
}
