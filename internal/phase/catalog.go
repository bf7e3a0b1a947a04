package phase

import (
	"fmt"
	"math"
	"sort"
)

// Mode selects the grid regime the catalog is built for.
type Mode string

const (
	// ModeDefault covers the full teleseismic distance and depth range.
	ModeDefault Mode = "default"
	// ModeLocal is tuned for local earthquakes (0-5 degrees, 0-35 km).
	ModeLocal Mode = "local"
	// ModeRegional is tuned for regional earthquakes (0-20 degrees, 0-100 km).
	ModeRegional Mode = "regional"
	// ModeCustom is the default regime with caller-supplied grid parameters.
	ModeCustom Mode = "custom"
)

// ParseMode validates a mode string from config or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDefault, ModeLocal, ModeRegional, ModeCustom:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unrecognized mode %q", ErrInvalidGrid, s)
}

// GridParams are the tunable grid dimensions for default/custom mode.
type GridParams struct {
	MaxDepth       float64 // km
	DepthStep      float64 // km, shallow sampling
	DeepDepthStep  float64 // km, sampling below DeepDepthStart
	DeepDepthStart float64 // km, where the coarse depth step takes over

	MaxDistance          float64 // degrees
	DistanceStep         float64 // degrees, teleseismic sampling
	RegionalDistanceStep float64 // degrees, fine sampling for Pg/Sg
}

// DefaultGridParams returns the standard LocSAT table dimensions.
func DefaultGridParams() GridParams {
	return GridParams{
		MaxDepth:             800.0,
		DepthStep:            5.0,
		DeepDepthStep:        50.0,
		DeepDepthStart:       100.0,
		MaxDistance:          180.0,
		DistanceStep:         1.0,
		RegionalDistanceStep: 0.2,
	}
}

// Validate checks that all grid dimensions are positive.
func (p GridParams) Validate() error {
	switch {
	case p.MaxDepth <= 0 || p.DepthStep <= 0 || p.DeepDepthStep <= 0 || p.DeepDepthStart <= 0:
		return fmt.Errorf("%w: depth values must be positive", ErrInvalidGrid)
	case p.MaxDistance <= 0 || p.DistanceStep <= 0 || p.RegionalDistanceStep <= 0:
		return fmt.Errorf("%w: distance values must be positive", ErrInvalidGrid)
	}
	return nil
}

// Catalog holds the validated phase specs for one grid regime. It is built
// once at startup and immutable afterwards.
type Catalog struct {
	mode   Mode
	specs  map[string]Spec
	order  []string
	limits map[string]Window
}

// crustalPhases use the short fine depth grid; their energy never leaves the crust.
var crustalPhases = []string{"Pg", "Pb", "Sb", "Sg"}

// mantlePhases (Pn, Sn) extend the crustal grid down to 400 km.
const mantleMaxDepth = 400.0

// telePhases are only present in the default/custom regimes.
var telePhases = []string{
	"PP", "SS", "PcP", "ScS", "ScP",
	"PKP", "PKPdf", "PKPab", "PKPbc", "SKPdf",
	"pPKPdf", "pPKPab", "pPKPbc", "sPKPdf", "sPKPab", "sPKPbc",
}

// NewCatalog builds the phase catalog for a grid regime, reproducing the
// canned local, regional and teleseismic sampling grids exactly.
func NewCatalog(mode Mode, p GridParams) (*Catalog, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var (
		prefix   []float64
		maxDist  float64
		distStep float64
	)
	switch mode {
	case ModeLocal:
		prefix = Arange(0, 5.1, 0.1)
		maxDist, distStep = 5.0, 0.1
	case ModeRegional:
		prefix = Arange(0, 20.1, 0.2)
		maxDist, distStep = 20.0, 0.2
	case ModeDefault, ModeCustom:
		prefix = regionalPrefix
		maxDist, distStep = p.MaxDistance, p.DistanceStep
	default:
		return nil, fmt.Errorf("%w: unrecognized mode %q", ErrInvalidGrid, mode)
	}

	distances := map[string][]float64{
		"P":  mergeGrid(prefix, Arange(5.0, maxDist+distStep, distStep)),
		"Pg": mergeGrid(prefix, Arange(0, math.Min(10.2, maxDist), p.RegionalDistanceStep)),
		"Pb": mergeGrid(prefix, Arange(0, math.Min(9.5, maxDist), 0.5)),
		"Pn": mergeGrid(prefix, Arange(0, math.Min(20.5, maxDist), 0.5)),
		"S":  mergeGrid(prefix, Arange(5.0, math.Min(116.0, maxDist), distStep)),
		"Sb": mergeGrid(prefix, Arange(0, math.Min(9.5, maxDist), 0.5)),
		"Sg": mergeGrid(prefix, Arange(0, math.Min(10.2, maxDist), p.RegionalDistanceStep)),
		"Sn": mergeGrid(prefix, Arange(0, math.Min(20.5, maxDist), 0.5)),
	}

	teleRegime := mode == ModeDefault || mode == ModeCustom
	if teleRegime {
		for _, ph := range []string{"pP", "sP", "sS"} {
			distances[ph] = Arange(20, math.Min(105, maxDist), distStep)
		}
		for _, ph := range []string{"PP", "SS"} {
			distances[ph] = Arange(30, maxDist+distStep, distStep)
		}
		for _, ph := range []string{"PcP", "ScS", "ScP"} {
			distances[ph] = Arange(25, math.Min(61, maxDist), distStep)
		}
		for _, ph := range []string{"PKP", "PKPdf", "SKPdf", "pPKPdf", "sPKPdf"} {
			distances[ph] = Arange(90, maxDist+distStep, distStep)
		}
		for _, ph := range []string{"PKPab", "pPKPab", "sPKPab"} {
			distances[ph] = Arange(140, maxDist+distStep, distStep)
		}
		for _, ph := range []string{"PKPbc", "pPKPbc", "sPKPbc"} {
			distances[ph] = Arange(140, math.Min(161, maxDist), distStep)
		}
	}

	var crustal []float64
	var maxDepth float64
	switch mode {
	case ModeLocal:
		crustal = Arange(0, 35+p.DepthStep, p.DepthStep)
		maxDepth = 35
	case ModeRegional:
		crustal = Arange(0, 60+p.DepthStep, p.DepthStep)
		maxDepth = 100
	default:
		crustal = Arange(0, 35+p.DepthStep, p.DepthStep)
		maxDepth = p.MaxDepth
	}

	shallow := Arange(0, math.Min(p.DeepDepthStart, maxDepth), p.DepthStep)
	deep := Arange(p.DeepDepthStart, maxDepth+p.DeepDepthStep, p.DeepDepthStep)
	tele := mergeGrid(shallow, deep)

	var mantle []float64
	for _, d := range tele {
		if d <= mantleMaxDepth {
			mantle = append(mantle, d)
		}
	}
	mantle = mergeGrid(crustal, mantle)

	depths := map[string][]float64{
		"P": tele, "pP": tele, "sP": tele,
		"S": tele, "sS": tele,
		"Pn": mantle, "Sn": mantle,
	}
	for _, ph := range crustalPhases {
		depths[ph] = crustal
	}
	if teleRegime {
		for _, ph := range telePhases {
			depths[ph] = tele
		}
	}

	c := &Catalog{
		mode:  mode,
		specs: make(map[string]Spec, len(distances)),
		limits: map[string]Window{
			"Pdiff": {Min: 0, Max: math.Min(116, maxDist)},
			"PKPdf": {Min: 118, Max: maxDist},
			"Sdiff": {Min: 0, Max: math.Min(116, maxDist)},
			"SKSdf": {Min: 118, Max: maxDist},
		},
	}
	for name, dist := range distances {
		dep, ok := depths[name]
		if !ok || len(dep) == 0 || len(dist) == 0 {
			continue
		}
		spec := Spec{
			Name:        name,
			Depths:      dep,
			Distances:   dist,
			MinDistance: dist[0],
			MaxDistance: gridMax(dist),
			MaxDepth:    gridMax(dep),
			Combine:     CombineSet(name),
		}
		if o, ok := OverrideFor(name); ok {
			ov := o
			spec.Override = &ov
		}
		c.specs[name] = spec
		c.order = append(c.order, name)
	}
	sort.Strings(c.order)
	return c, nil
}

// Mode returns the grid regime the catalog was built for.
func (c *Catalog) Mode() Mode { return c.mode }

// SpecFor returns the spec for a phase name or ErrUnknownPhase. There is no
// fallback to generic P-wave ranges for unrecognized names.
func (c *Catalog) SpecFor(name string) (Spec, error) {
	s, ok := c.specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownPhase, name)
	}
	return s, nil
}

// DistanceLimit returns the validity window for an oracle arrival label,
// independent of the requested phase's own domain. Diffracted and core
// phases are excluded outside their physically sensible distance range.
func (c *Catalog) DistanceLimit(label string) (Window, bool) {
	w, ok := c.limits[label]
	return w, ok
}

// Phases returns all catalog phase names in sorted order.
func (c *Catalog) Phases() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// DefaultPhases returns the phase set generated when none are requested
// explicitly.
func DefaultPhases(mode Mode) []string {
	switch mode {
	case ModeLocal:
		return []string{"P", "Pg", "Pb", "Pn", "S", "Sg", "Sb", "Sn"}
	case ModeRegional:
		return []string{"P", "Pg", "Pb", "Pn", "S", "Sg", "Sb", "Sn", "pP", "sP", "PP", "SS"}
	default:
		return []string{
			"P", "Pg", "Pb", "Pn", "S", "Sg", "Sb", "Sn",
			"PP", "SS",
			"pP", "sP", "sS",
			"PKP", "PKPab", "PKPbc", "PKPdf",
			"pPKPab", "pPKPbc", "pPKPdf",
			"sPKPab", "sPKPbc", "sPKPdf", "SKPdf",
			"PcP", "ScS", "ScP",
		}
	}
}
