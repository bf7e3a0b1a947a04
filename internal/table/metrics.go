package table

import (
	"sync"
	"time"
)

// RunMetrics describes one generation run as a whole.
type RunMetrics struct {
	Model       string
	Mode        string
	Workers     int
	StartedAt   time.Time
	CompletedAt time.Time
}

// PhaseMetrics describes the outcome of building one phase table.
type PhaseMetrics struct {
	Phase       string
	Depths      int
	Distances   int
	Cells       int
	Missing     int
	StartedAt   time.Time
	CompletedAt time.Time
	OutputFile  string
	Skipped     bool
	Error       string
}

// Metrics collects per-run and per-phase measurements. Safe for concurrent
// use; phases may be recorded from multiple goroutines.
type Metrics struct {
	mu     sync.Mutex
	run    RunMetrics
	phases []PhaseMetrics
}

// NewMetrics starts a metrics collection for a run.
func NewMetrics(modelName, mode string, workers int) *Metrics {
	return &Metrics{
		run: RunMetrics{
			Model:     modelName,
			Mode:      mode,
			Workers:   workers,
			StartedAt: time.Now(),
		},
	}
}

// RecordPhase appends one phase outcome.
func (m *Metrics) RecordPhase(pm PhaseMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phases = append(m.phases, pm)
}

// Finish stamps the run completion time.
func (m *Metrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run.CompletedAt = time.Now()
}

// Snapshot returns copies of the run and phase records.
func (m *Metrics) Snapshot() (RunMetrics, []PhaseMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	phases := make([]PhaseMetrics, len(m.phases))
	copy(phases, m.phases)
	return m.run, phases
}
