package qkern

import (
	"sync"
	"time"
)

// Metrics accumulates run accounting for a backend.
type Metrics struct {
	mu           sync.RWMutex
	Runs         int64
	TotalShots   int64
	TotalRunTime time.Duration
	LastRun      time.Time
}

func newMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordRun(shots int, start time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Runs++
	m.TotalShots += int64(shots)
	m.TotalRunTime += time.Since(start)
	m.LastRun = time.Now()
}

// ExportMetrics returns a snapshot of the accumulated counters.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avg := time.Duration(0)
	if m.Runs > 0 {
		avg = m.TotalRunTime / time.Duration(m.Runs)
	}
	return map[string]interface{}{
		"runs":         m.Runs,
		"total_shots":  m.TotalShots,
		"avg_run_time": avg.Milliseconds(),
	}
}
