package table

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const metricsFileName = "metrics.toml"

// maxHistoryEntries is the maximum number of historical run summaries kept.
const maxHistoryEntries = 10

// metricsFile is the TOML-serializable representation of the metrics file:
// the most recent run plus a capped history of previous runs.
type metricsFile struct {
	Current runRecord    `toml:"current"`
	History []runSummary `toml:"history"`
}

// runRecord is the TOML-serializable form of a single run's metrics.
// time.Duration values are stored as nanosecond int64 since the TOML library
// does not natively support Go durations.
type runRecord struct {
	Model       string        `toml:"model"`
	Mode        string        `toml:"mode"`
	Workers     int           `toml:"workers"`
	StartedAt   time.Time     `toml:"started_at"`
	CompletedAt time.Time     `toml:"completed_at"`
	DurationNs  int64         `toml:"duration_ns"`
	Phases      []phaseRecord `toml:"phases"`
}

// phaseRecord is the TOML-serializable form of PhaseMetrics.
type phaseRecord struct {
	Phase      string `toml:"phase"`
	Depths     int    `toml:"depths"`
	Distances  int    `toml:"distances"`
	Cells      int    `toml:"cells"`
	Missing    int    `toml:"missing"`
	DurationNs int64  `toml:"duration_ns"`
	OutputFile string `toml:"output_file,omitempty"`
	Skipped    bool   `toml:"skipped,omitempty"`
	Error      string `toml:"error,omitempty"`
}

// runSummary captures a condensed record of a previous run.
type runSummary struct {
	Model       string    `toml:"model"`
	Mode        string    `toml:"mode"`
	StartedAt   time.Time `toml:"started_at"`
	CompletedAt time.Time `toml:"completed_at"`
	DurationNs  int64     `toml:"duration_ns"`
	TotalPhases int       `toml:"total_phases"`
}

// SaveMetrics writes the run metrics snapshot to the output directory.
// If a previous metrics file exists, its current section is rotated into the
// history array (capped at the most recent entries).
func SaveMetrics(dir string, m *Metrics) error {
	run, phases := m.Snapshot()

	existing, err := loadMetricsFile(dir)
	if err != nil {
		return fmt.Errorf("loading existing metrics: %w", err)
	}

	record := runRecord{
		Model:       run.Model,
		Mode:        run.Mode,
		Workers:     run.Workers,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		DurationNs:  run.CompletedAt.Sub(run.StartedAt).Nanoseconds(),
	}
	for _, p := range phases {
		record.Phases = append(record.Phases, phaseRecord{
			Phase:      p.Phase,
			Depths:     p.Depths,
			Distances:  p.Distances,
			Cells:      p.Cells,
			Missing:    p.Missing,
			DurationNs: p.CompletedAt.Sub(p.StartedAt).Nanoseconds(),
			OutputFile: p.OutputFile,
			Skipped:    p.Skipped,
			Error:      p.Error,
		})
	}

	var history []runSummary
	if existing != nil {
		history = append(existing.History, runSummary{
			Model:       existing.Current.Model,
			Mode:        existing.Current.Mode,
			StartedAt:   existing.Current.StartedAt,
			CompletedAt: existing.Current.CompletedAt,
			DurationNs:  existing.Current.DurationNs,
			TotalPhases: len(existing.Current.Phases),
		})
	}
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}

	data, err := toml.Marshal(metricsFile{Current: record, History: history})
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}

	path := filepath.Join(dir, metricsFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp metrics file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming metrics file: %w", err)
	}
	return nil
}

// loadMetricsFile reads the metrics file from dir, returning nil when none
// exists yet (first run).
func loadMetricsFile(dir string) (*metricsFile, error) {
	data, err := os.ReadFile(filepath.Join(dir, metricsFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var file metricsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", metricsFileName, err)
	}
	return &file, nil
}
