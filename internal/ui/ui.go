package ui

import (
	"fmt"
	"os"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	yellow = "\033[33m"
	green  = "\033[32m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

// Printer writes operator-facing progress to stderr, keeping stdout clean
// for anything scripted around the tool.
type Printer struct{}

func New() *Printer {
	return &Printer{}
}

func (p *Printer) RunStart(modelName, mode, outputDir string, phases int) {
	fmt.Fprintf(os.Stderr, bold+cyan+"ttgen"+reset+" model=%s mode=%s output=%s phases=%d\n",
		modelName, mode, outputDir, phases)
}

func (p *Printer) PhaseStart(phaseName string, index, total int) {
	fmt.Fprintf(os.Stderr, dim+"[%d/%d]"+reset+" building "+bold+"%s"+reset+"\n", index, total, phaseName)
}

func (p *Printer) PhaseDone(phaseName, path string, missing int) {
	if missing > 0 {
		fmt.Fprintf(os.Stderr, green+"✓"+reset+" %s → %s "+dim+"(%d absent cells)"+reset+"\n", phaseName, path, missing)
		return
	}
	fmt.Fprintf(os.Stderr, green+"✓"+reset+" %s → %s\n", phaseName, path)
}

func (p *Printer) PhaseSkipped(phaseName string, err error) {
	fmt.Fprintf(os.Stderr, yellow+"⚠ skipping %s"+reset+": %v\n", phaseName, err)
}

func (p *Printer) ModelLoaded(name string, layers int, maxDepth float64) {
	fmt.Fprintf(os.Stderr, "loaded velocity model "+bold+"%s"+reset+" (%d layers, max depth %g km)\n",
		name, layers, maxDepth)
}

func (p *Printer) Watching(path string) {
	fmt.Fprintf(os.Stderr, cyan+"watching"+reset+" %s for changes (ctrl-c to stop)\n", path)
}

func (p *Printer) Reloading(path string) {
	fmt.Fprintf(os.Stderr, cyan+"model changed"+reset+", regenerating tables from %s\n", path)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"error: "+reset+"%s\n", msg)
}
