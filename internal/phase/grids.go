package phase

import (
	"math"
	"sort"
)

// gridEps is the tolerance used when comparing grid sample values. Samples
// are rendered at two decimals, so anything closer than this is the same point.
const gridEps = 1e-6

// Arange returns start, start+step, ... up to but excluding stop, matching the
// half-open interval convention of the sampling grids the downstream location
// software was calibrated against.
func Arange(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	n := int(math.Ceil((stop-start)/step - gridEps))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start+float64(i)*step)
	}
	return out
}

// mergeGrid concatenates sample sequences, sorts ascending, and drops
// duplicate points. Grid regimes are built from a fine prefix plus one or
// more coarser extensions whose ranges overlap.
func mergeGrid(parts ...[]float64) []float64 {
	var all []float64
	for _, p := range parts {
		all = append(all, p...)
	}
	sort.Float64s(all)
	out := all[:0]
	for _, v := range all {
		if len(out) == 0 || v-out[len(out)-1] > gridEps {
			out = append(out, v)
		}
	}
	return out
}

// regionalPrefix is the fine distance sampling used as a prefix for all
// default-mode distance grids. The spacing widens with distance because
// regional travel-time curves flatten out beyond a few degrees.
var regionalPrefix = []float64{
	0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.8, 1.0, 1.2, 1.4, 1.6,
	1.8, 2.0, 2.5, 3.0, 3.5, 4.0, 4.5,
}

// gridMax returns the last sample of a grid, or 0 for an empty grid.
func gridMax(g []float64) float64 {
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1]
}
