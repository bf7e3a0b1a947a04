package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seismotools/ttgen/internal/config"
	"github.com/seismotools/ttgen/internal/phase"
)

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "List the phase catalog for a mode",
	RunE:  runPhases,
}

func init() {
	rootCmd.AddCommand(phasesCmd)
	phasesCmd.Flags().String("mode", "", "grid regime: default, local, regional or custom")
}

func runPhases(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if cmd.Flags().Changed("mode") {
		cfg.Mode, _ = cmd.Flags().GetString("mode")
	}

	mode, err := phase.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	catalog, err := phase.NewCatalog(mode, gridParams(cfg.Grid))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tDISTANCES\tDEPTHS\tACCEPTS")
	for _, name := range catalog.Phases() {
		sp, err := catalog.SpecFor(name)
		if err != nil {
			continue
		}
		accepts := name
		if len(sp.Combine) > 0 {
			accepts = strings.Join(sp.Combine, " ")
		}
		fmt.Fprintf(tw, "%s\t%g..%g deg (%d)\t%g..%g km (%d)\t%s\n",
			name,
			sp.Distances[0], sp.Distances[len(sp.Distances)-1], len(sp.Distances),
			sp.Depths[0], sp.Depths[len(sp.Depths)-1], len(sp.Depths),
			accepts)
	}
	return tw.Flush()
}
