package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seismotools/ttgen/internal/config"
	"github.com/seismotools/ttgen/internal/model"
	"github.com/seismotools/ttgen/internal/phase"
	"github.com/seismotools/ttgen/internal/resolver"
	"github.com/seismotools/ttgen/internal/table"
	"github.com/seismotools/ttgen/internal/telemetry"
	"github.com/seismotools/ttgen/internal/ui"
)

var tvelCmd = &cobra.Command{
	Use:   "tvel <file.tvel>",
	Short: "Generate tables from a TVEL velocity model",
	Long: "tvel computes straight-line travel times through a TVEL-format model\n" +
		"using piecewise-linear interpolation between layer boundaries. Depths the\n" +
		"model does not cover resolve to the absent sentinel.",
	Args: cobra.ExactArgs(1),
	RunE: runTvel,
}

func init() {
	rootCmd.AddCommand(tvelCmd)

	f := tvelCmd.Flags()
	f.String("phases", "P,S,Pg,Sg", "comma-separated phase names")
	f.String("depth-samples", "0,5,15,30,40,50,75,100,150,200,300,400,500,600,800",
		"comma-separated depth samples in km")
	f.String("distance-range", "0,180,1", "distance grid as start,end,step in degrees")
	f.StringP("output-dir", "o", "", "directory for generated tables")
	f.String("prefix", "", "filename prefix (default: model file stem)")
	f.Int("workers", 0, "concurrent depth rows (0 = NumCPU)")
	f.String("telemetry", "", "JSONL telemetry output file")
	f.Bool("watch", false, "keep running and regenerate when the model file changes")
}

func parseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseDistanceRange expands "start,end,step" into inclusive samples.
func parseDistanceRange(s string) ([]float64, error) {
	vals, err := parseFloatList(s)
	if err != nil {
		return nil, err
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("distance range needs start,end,step, got %q", s)
	}
	start, end, step := vals[0], vals[1], vals[2]
	if step <= 0 || end < start {
		return nil, fmt.Errorf("invalid distance range %q", s)
	}
	return phase.Arange(start, end+step/2, step), nil
}

func runTvel(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	f := cmd.Flags()
	if f.Changed("output-dir") {
		cfg.OutputDir, _ = f.GetString("output-dir")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("telemetry") {
		cfg.TelemetryPath, _ = f.GetString("telemetry")
	}

	modelPath := args[0]
	prefix, _ := f.GetString("prefix")
	if prefix == "" {
		prefix = strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath))
	}

	phasesArg, _ := f.GetString("phases")
	phases := strings.Split(phasesArg, ",")
	for i := range phases {
		phases[i] = strings.TrimSpace(phases[i])
	}

	depthsArg, _ := f.GetString("depth-samples")
	depths, err := parseFloatList(depthsArg)
	if err != nil {
		return fmt.Errorf("depth samples: %w", err)
	}
	rangeArg, _ := f.GetString("distance-range")
	distances, err := parseDistanceRange(rangeArg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	emitter, err := openTelemetry(cfg.TelemetryPath)
	if err != nil {
		return err
	}
	defer emitter.Close()
	printer := ui.New()

	regen := func(ctx context.Context) error {
		return generateTvel(ctx, cfg, modelPath, prefix, phases, depths, distances, emitter, printer)
	}
	if err := regen(ctx); err != nil {
		return err
	}

	if watchFlag, _ := f.GetBool("watch"); watchFlag {
		return watchLoop(ctx, modelPath, emitter, printer, regen)
	}
	return nil
}

func generateTvel(ctx context.Context, cfg config.Config, modelPath, prefix string, phases []string, depths, distances []float64, emitter *telemetry.Emitter, printer *ui.Printer) error {
	m, err := model.LoadTVEL(modelPath, os.Stderr)
	if err != nil {
		return err
	}
	printer.ModelLoaded(m.Name, len(m.Layers()), m.MaxDepth())
	emitter.Emit(telemetry.Event{
		Kind: telemetry.KindModelLoaded,
		Data: map[string]any{"model": m.Name, "layers": len(m.Layers()), "max_depth": m.MaxDepth()},
	})

	specs := make([]phase.Spec, 0, len(phases))
	for _, name := range phases {
		specs = append(specs, phase.Spec{
			Name:      name,
			Depths:    depths,
			Distances: distances,
		})
	}
	source := phase.NewStatic(specs...)

	builder := &table.Builder{
		Source: source,
		Resolver: &resolver.Resolver{
			Source:        source,
			Model:         m,
			ModelDegreeKm: resolver.DegreeKm,
		},
		Workers:   cfg.Workers,
		Telemetry: emitter,
	}

	printer.RunStart(m.Name, "tvel", cfg.OutputDir, len(phases))
	metrics := table.NewMetrics(m.Name, "tvel", cfg.Workers)
	emitter.Emit(telemetry.Event{
		Kind: telemetry.KindRunStart,
		Data: map[string]any{"model": m.Name, "phases": phases},
	})

	if err := buildAll(ctx, builder, phases, cfg.OutputDir, prefix, table.RenderOptions{}, metrics, printer); err != nil {
		return err
	}
	finishRun(cfg.OutputDir, metrics, emitter, printer)
	return nil
}
