package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seismotools/ttgen/internal/phase"
	"github.com/seismotools/ttgen/internal/table"
	"github.com/seismotools/ttgen/internal/telemetry"
	"github.com/seismotools/ttgen/internal/ui"
	"github.com/seismotools/ttgen/internal/watch"
)

// signalContext returns a context cancelled on SIGINT or SIGTERM so a run
// can be interrupted between phases without leaving half-written tables.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openTelemetry opens the JSONL emitter when a path is configured. A nil
// emitter is a valid no-op, so callers emit unconditionally.
func openTelemetry(path string) (*telemetry.Emitter, error) {
	if path == "" {
		return nil, nil
	}
	return telemetry.NewEmitter(path)
}

// buildAll runs the per-phase build/write loop shared by the generation
// commands. Unknown phases are skipped with a warning; any other error
// aborts the run.
func buildAll(ctx context.Context, b *table.Builder, phases []string, dir, prefix string, opts table.RenderOptions, m *table.Metrics, printer *ui.Printer) error {
	for i, name := range phases {
		printer.PhaseStart(name, i+1, len(phases))
		started := time.Now().UTC()

		t, err := b.Build(ctx, name)
		if errors.Is(err, phase.ErrUnknownPhase) {
			printer.PhaseSkipped(name, err)
			b.Telemetry.Emit(telemetry.Event{
				Kind:  telemetry.KindPhaseSkipped,
				Phase: name,
				Data:  err.Error(),
			})
			m.RecordPhase(table.PhaseMetrics{
				Phase:       name,
				StartedAt:   started,
				CompletedAt: time.Now().UTC(),
				Skipped:     true,
				Error:       err.Error(),
			})
			continue
		}
		if err != nil {
			return fmt.Errorf("build %s: %w", name, err)
		}

		path, err := table.Write(dir, prefix, t, opts)
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		b.Telemetry.Emit(telemetry.Event{
			Kind:  telemetry.KindTableWritten,
			Phase: name,
			Data:  path,
		})
		m.RecordPhase(table.PhaseMetrics{
			Phase:       name,
			Depths:      len(t.Depths),
			Distances:   len(t.Distances),
			Cells:       len(t.Cells),
			Missing:     t.Missing(),
			StartedAt:   started,
			CompletedAt: time.Now().UTC(),
			OutputFile:  path,
		})
		printer.PhaseDone(name, path, t.Missing())
	}
	return nil
}

// finishRun persists metrics and closes out telemetry for a completed run.
func finishRun(dir string, m *table.Metrics, emitter *telemetry.Emitter, printer *ui.Printer) {
	m.Finish()
	if err := table.SaveMetrics(dir, m); err != nil {
		printer.Error(fmt.Sprintf("save metrics: %v", err))
	}
	run, _ := m.Snapshot()
	emitter.Emit(telemetry.Event{
		Kind: telemetry.KindRunDone,
		Data: map[string]any{
			"model":   run.Model,
			"elapsed": run.CompletedAt.Sub(run.StartedAt).Seconds(),
		},
	})
}

// watchLoop blocks, regenerating the tables whenever the model file changes,
// until the context is cancelled. A failed regeneration is reported and the
// loop keeps watching; the previous tables on disk stay intact.
func watchLoop(ctx context.Context, path string, emitter *telemetry.Emitter, printer *ui.Printer, regen func(context.Context) error) error {
	w, err := watch.New(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Stop()

	printer.Watching(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changes:
			printer.Reloading(path)
			emitter.Emit(telemetry.Event{Kind: telemetry.KindWatchReload, Data: path})
			if err := regen(ctx); err != nil {
				printer.Error(fmt.Sprintf("regenerate: %v", err))
			}
		}
	}
}
