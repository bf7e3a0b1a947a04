package cmd

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seismotools/ttgen/internal/config"
	"github.com/seismotools/ttgen/internal/model"
	"github.com/seismotools/ttgen/internal/oracle"
	"github.com/seismotools/ttgen/internal/phase"
	"github.com/seismotools/ttgen/internal/resolver"
	"github.com/seismotools/ttgen/internal/table"
	"github.com/seismotools/ttgen/internal/telemetry"
	"github.com/seismotools/ttgen/internal/ui"
)

var localCmd = &cobra.Command{
	Use:   "local <model-file>",
	Short: "Generate regional tables from a local layered velocity model",
	Long: "local computes straight-line travel times through a plain layered\n" +
		"velocity model on a regional grid. Depths below the model fall back to\n" +
		"the external oracle with the chosen reference Earth model.",
	Args: cobra.ExactArgs(1),
	RunE: runLocal,
}

func init() {
	rootCmd.AddCommand(localCmd)

	f := localCmd.Flags()
	f.String("reference", "ak135", "reference model for depths below the local model")
	f.String("oracle", "", "travel-time tool binary for the deep fallback")
	f.StringP("output-dir", "o", "", "directory for generated tables")
	f.String("prefix", "", "filename prefix (default: model file stem)")
	f.Int("workers", 0, "concurrent depth rows (0 = NumCPU)")
	f.String("telemetry", "", "JSONL telemetry output file")
	f.Bool("watch", false, "keep running and regenerate when the model file changes")
}

func runLocal(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	f := cmd.Flags()
	if f.Changed("output-dir") {
		cfg.OutputDir, _ = f.GetString("output-dir")
	}
	if f.Changed("oracle") {
		cfg.OraclePath, _ = f.GetString("oracle")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("telemetry") {
		cfg.TelemetryPath, _ = f.GetString("telemetry")
	}
	if v, _ := cmd.Root().PersistentFlags().GetBool("verbose"); v {
		cfg.Verbose = true
	}

	modelPath := args[0]
	reference, _ := f.GetString("reference")
	prefix, _ := f.GetString("prefix")
	if prefix == "" {
		prefix = strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath))
	}
	// Table names carry the fallback model so iasp91- and ak135-backed runs
	// of the same local model do not overwrite each other.
	prefix = prefix + "_" + reference

	ctx, cancel := signalContext()
	defer cancel()

	emitter, err := openTelemetry(cfg.TelemetryPath)
	if err != nil {
		return err
	}
	defer emitter.Close()

	printer := ui.New()

	// The deep fallback is optional: without the tool, cells below the local
	// model resolve to absent instead of failing the run.
	var orc oracle.Oracle
	tool := &oracle.ExecOracle{Path: cfg.OraclePath, Model: reference, Verbose: cfg.Verbose}
	if err := tool.Validate(); err != nil {
		printer.Error("no deep fallback: " + err.Error())
	} else {
		orc = tool
	}

	regen := func(ctx context.Context) error {
		return generateLocal(ctx, cfg, modelPath, prefix, reference, orc, emitter, printer)
	}
	if err := regen(ctx); err != nil {
		return err
	}

	if watchFlag, _ := f.GetBool("watch"); watchFlag {
		return watchLoop(ctx, modelPath, emitter, printer, regen)
	}
	return nil
}

// generateLocal loads the model file and builds the full local phase set.
// It is re-entrant so the watch loop can call it on every change.
func generateLocal(ctx context.Context, cfg config.Config, modelPath, prefix, reference string, orc oracle.Oracle, emitter *telemetry.Emitter, printer *ui.Printer) error {
	m, err := model.Load(modelPath, os.Stderr)
	if err != nil {
		return err
	}
	printer.ModelLoaded(m.Name, len(m.Layers()), m.MaxDepth())
	emitter.Emit(telemetry.Event{
		Kind: telemetry.KindModelLoaded,
		Data: map[string]any{"model": m.Name, "layers": len(m.Layers()), "max_depth": m.MaxDepth()},
	})

	depths := phase.Arange(0, math.Min(m.MaxDepth()+5, 800), 5)
	distances := phase.Arange(0, 20.1, 0.2)

	specs := make([]phase.Spec, 0, len(phase.LocalPhases()))
	for _, name := range phase.LocalPhases() {
		win, maxDepth, err := phase.LocalDomain(name)
		if err != nil {
			return err
		}
		specs = append(specs, phase.Spec{
			Name:        name,
			Depths:      depths,
			Distances:   distances,
			MinDistance: win.Min,
			MaxDistance: win.Max,
			MaxDepth:    maxDepth,
		})
	}
	source := phase.NewStatic(specs...)

	builder := &table.Builder{
		Source: source,
		Resolver: &resolver.Resolver{
			Source:        source,
			Oracle:        orc,
			Model:         m,
			ModelDegreeKm: resolver.LocalDegreeKm,
		},
		Workers:   cfg.Workers,
		Telemetry: emitter,
	}

	phases := phase.LocalPhases()
	printer.RunStart(m.Name, "local-model", cfg.OutputDir, len(phases))
	metrics := table.NewMetrics(m.Name, "local-model", cfg.Workers)
	emitter.Emit(telemetry.Event{
		Kind: telemetry.KindRunStart,
		Data: map[string]any{"model": m.Name, "reference": reference, "phases": phases},
	})

	if err := buildAll(ctx, builder, phases, cfg.OutputDir, prefix, table.RenderOptions{}, metrics, printer); err != nil {
		return err
	}
	finishRun(cfg.OutputDir, metrics, emitter, printer)
	return nil
}
