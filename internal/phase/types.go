package phase

import "strings"

// Wave identifies the body-wave type a phase propagates as.
type Wave string

const (
	WaveP Wave = "P"
	WaveS Wave = "S"
)

// WaveTypeOf derives the wave type from a phase name. The first letter names
// the leg leaving the source, which is the one that matters for a velocity
// lookup at source depth, so sP counts as S and pP as P. Names starting with
// neither letter carry no model velocity and report ok=false.
func WaveTypeOf(name string) (Wave, bool) {
	if name == "" {
		return "", false
	}
	switch strings.ToUpper(name[:1]) {
	case "P":
		return WaveP, true
	case "S":
		return WaveS, true
	}
	return "", false
}

// Window is an inclusive distance validity range in degrees.
type Window struct {
	Min float64
	Max float64
}

// Contains reports whether the distance lies inside the window.
func (w Window) Contains(distanceDeg float64) bool {
	return distanceDeg >= w.Min && distanceDeg <= w.Max
}

// Spec describes one logical phase: the sampling grids its table is evaluated
// on, the geometry for which it is considered valid, and the matching rules
// applied to oracle arrivals.
type Spec struct {
	Name      string
	Depths    []float64 // km, ascending
	Distances []float64 // degrees, ascending

	// Validity domain. Arrivals outside are absent (-1 in the table).
	MinDistance float64 // degrees
	MaxDistance float64 // degrees
	MaxDepth    float64 // km

	// Combine is the set of oracle labels that satisfy this logical phase.
	// Empty means only an exact name match is accepted.
	Combine []string

	// Override, when set, replaces oracle and model lookup entirely.
	Override *Override
}

// Accepts reports whether an oracle arrival label satisfies the logical phase
// identified by the effective lookup name. Phases with a combine set accept
// any member label; everything else requires an exact match. The combine set
// is keyed by the effective name because depth phases are matched under their
// parent phase at zero source depth.
func Accepts(effectiveName, label string) bool {
	combine := combinations[effectiveName]
	if len(combine) == 0 {
		return label == effectiveName
	}
	for _, c := range combine {
		if c == label {
			return true
		}
	}
	return false
}

// Source resolves phase names to specs. The catalog is the canonical
// implementation; commands with caller-supplied grids use a Static source.
type Source interface {
	SpecFor(name string) (Spec, error)
	DistanceLimit(label string) (Window, bool)
}
