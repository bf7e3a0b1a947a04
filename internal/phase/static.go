package phase

import "fmt"

// Static is a Source over caller-supplied specs, used when grids come from
// flags or a model file rather than a canned regime. Combine sets and
// analytic overrides are filled in from domain knowledge unless already set.
type Static struct {
	specs  map[string]Spec
	limits map[string]Window
}

// NewStatic builds a Static source from explicit specs.
func NewStatic(specs ...Spec) *Static {
	s := &Static{
		specs:  make(map[string]Spec, len(specs)),
		limits: map[string]Window{},
	}
	for _, sp := range specs {
		if sp.Combine == nil {
			sp.Combine = CombineSet(sp.Name)
		}
		if sp.Override == nil {
			if o, ok := OverrideFor(sp.Name); ok {
				ov := o
				sp.Override = &ov
			}
		}
		if sp.MaxDistance == 0 {
			sp.MaxDistance = gridMax(sp.Distances)
		}
		if sp.MaxDepth == 0 {
			sp.MaxDepth = gridMax(sp.Depths)
		}
		s.specs[sp.Name] = sp
	}
	return s
}

// SpecFor returns the spec for a phase name or ErrUnknownPhase.
func (s *Static) SpecFor(name string) (Spec, error) {
	sp, ok := s.specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownPhase, name)
	}
	return sp, nil
}

// DistanceLimit reports no per-label windows; static grids carry their whole
// domain in the spec itself.
func (s *Static) DistanceLimit(string) (Window, bool) {
	return Window{}, false
}
