package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seismotools/ttgen/internal/config"
	"github.com/seismotools/ttgen/internal/oracle"
	"github.com/seismotools/ttgen/internal/phase"
	"github.com/seismotools/ttgen/internal/resolver"
	"github.com/seismotools/ttgen/internal/table"
	"github.com/seismotools/ttgen/internal/telemetry"
	"github.com/seismotools/ttgen/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate [phase...]",
	Short: "Generate travel-time tables from the external oracle",
	Long: "generate builds one LocSAT table per phase by querying the external\n" +
		"travel-time tool over the phase's depth/distance grid. Without arguments\n" +
		"it builds the default phase set for the selected mode.",
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.String("model", "", "reference Earth model (iasp91, ak135)")
	f.String("mode", "", "grid regime: default, local, regional or custom")
	f.StringP("output-dir", "o", "", "directory for generated tables")
	f.String("prefix", "", "table filename prefix (default: model name)")
	f.String("oracle", "", "travel-time tool binary")
	f.Int("workers", 0, "concurrent depth rows (0 = NumCPU)")
	f.String("cache", "", "sqlite cache file for oracle queries")
	f.String("telemetry", "", "JSONL telemetry output file")
	f.Bool("comment-header", false, "write a comment header instead of the bare phase name")
	f.Bool("extended", false, "append slowness columns and matched labels (not LocSAT compatible)")

	f.Float64("max-depth", 0, "custom mode: deepest depth sample in km")
	f.Float64("depth-step", 0, "custom mode: shallow depth spacing in km")
	f.Float64("deep-depth-step", 0, "custom mode: deep depth spacing in km")
	f.Float64("deep-depth-start", 0, "custom mode: depth where coarse spacing takes over")
	f.Float64("max-distance", 0, "custom mode: farthest distance sample in degrees")
	f.Float64("distance-step", 0, "custom mode: teleseismic distance spacing in degrees")
	f.Float64("regional-distance-step", 0, "custom mode: fine spacing for crustal phases")
}

func applyGenerateOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("model") {
		cfg.Model, _ = f.GetString("model")
	}
	if f.Changed("mode") {
		cfg.Mode, _ = f.GetString("mode")
	}
	if f.Changed("output-dir") {
		cfg.OutputDir, _ = f.GetString("output-dir")
	}
	if f.Changed("prefix") {
		cfg.Prefix, _ = f.GetString("prefix")
	}
	if f.Changed("oracle") {
		cfg.OraclePath, _ = f.GetString("oracle")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("cache") {
		cfg.CachePath, _ = f.GetString("cache")
	}
	if f.Changed("telemetry") {
		cfg.TelemetryPath, _ = f.GetString("telemetry")
	}
	if v, _ := cmd.Root().PersistentFlags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
	if f.Changed("max-depth") {
		cfg.Grid.MaxDepth, _ = f.GetFloat64("max-depth")
	}
	if f.Changed("depth-step") {
		cfg.Grid.DepthStep, _ = f.GetFloat64("depth-step")
	}
	if f.Changed("deep-depth-step") {
		cfg.Grid.DeepDepthStep, _ = f.GetFloat64("deep-depth-step")
	}
	if f.Changed("deep-depth-start") {
		cfg.Grid.DeepDepthStart, _ = f.GetFloat64("deep-depth-start")
	}
	if f.Changed("max-distance") {
		cfg.Grid.MaxDistance, _ = f.GetFloat64("max-distance")
	}
	if f.Changed("distance-step") {
		cfg.Grid.DistanceStep, _ = f.GetFloat64("distance-step")
	}
	if f.Changed("regional-distance-step") {
		cfg.Grid.RegionalDistanceStep, _ = f.GetFloat64("regional-distance-step")
	}
}

func gridParams(g config.GridConfig) phase.GridParams {
	return phase.GridParams{
		MaxDepth:             g.MaxDepth,
		DepthStep:            g.DepthStep,
		DeepDepthStep:        g.DeepDepthStep,
		DeepDepthStart:       g.DeepDepthStart,
		MaxDistance:          g.MaxDistance,
		DistanceStep:         g.DistanceStep,
		RegionalDistanceStep: g.RegionalDistanceStep,
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyGenerateOverrides(cmd, &cfg)

	mode, err := phase.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	catalog, err := phase.NewCatalog(mode, gridParams(cfg.Grid))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	tool := &oracle.ExecOracle{Path: cfg.OraclePath, Model: cfg.Model, Verbose: cfg.Verbose}
	if err := tool.Validate(); err != nil {
		return err
	}
	var orc oracle.Oracle = tool
	if cfg.CachePath != "" {
		cache, err := oracle.OpenCache(ctx, cfg.CachePath, cfg.Model, tool)
		if err != nil {
			return fmt.Errorf("open oracle cache: %w", err)
		}
		defer cache.Close()
		orc = cache
	}

	emitter, err := openTelemetry(cfg.TelemetryPath)
	if err != nil {
		return err
	}
	defer emitter.Close()

	builder := &table.Builder{
		Source:    catalog,
		Resolver:  &resolver.Resolver{Source: catalog, Oracle: orc},
		Workers:   cfg.Workers,
		Telemetry: emitter,
	}

	phases := args
	if len(phases) == 0 {
		phases = phase.DefaultPhases(mode)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = cfg.Model
	}
	commentHeader, _ := cmd.Flags().GetBool("comment-header")
	extended, _ := cmd.Flags().GetBool("extended")
	opts := table.RenderOptions{CommentHeader: commentHeader, Extended: extended}

	printer := ui.New()
	printer.RunStart(cfg.Model, string(mode), cfg.OutputDir, len(phases))
	metrics := table.NewMetrics(cfg.Model, string(mode), cfg.Workers)
	emitter.Emit(telemetry.Event{
		Kind: telemetry.KindRunStart,
		Data: map[string]any{"model": cfg.Model, "mode": string(mode), "phases": phases},
	})

	if err := buildAll(ctx, builder, phases, cfg.OutputDir, prefix, opts, metrics, printer); err != nil {
		return err
	}

	finishRun(cfg.OutputDir, metrics, emitter, printer)
	return nil
}
