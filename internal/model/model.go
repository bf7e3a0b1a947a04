// Package model represents a layered Earth velocity model and answers
// velocity-at-depth queries for P and S waves.
package model

import (
	"errors"
	"sort"

	"github.com/seismotools/ttgen/internal/phase"
)

// ErrEmptyModel indicates a model file yielded no usable layers. There is
// nothing to interpolate over, so construction fails.
var ErrEmptyModel = errors.New("velocity model contains no layers")

// Interpolation selects how velocities between layer depths are derived.
type Interpolation int

const (
	// InterpStep returns the velocity of the deepest layer at or above the
	// query depth (step function). Used for plain layered model files.
	InterpStep Interpolation = iota
	// InterpLinear interpolates linearly between adjacent samples. Used for
	// TVEL files, which sample a continuous profile.
	InterpLinear
)

// Layer is one depth sample of the model. Density is carried through for
// completeness but not used by travel-time computation.
type Layer struct {
	Depth   float64 // km
	Vp      float64 // km/s
	Vs      float64 // km/s
	Density float64 // g/cm3, optional
}

// Model is an immutable layered velocity model. Layers are held sorted by
// ascending depth; duplicate depths at discontinuities are tolerated.
type Model struct {
	Name   string
	layers []Layer
	interp Interpolation
}

// New builds a model from layers, sorting them by depth. At least one layer
// is required.
func New(name string, layers []Layer, interp Interpolation) (*Model, error) {
	if len(layers) == 0 {
		return nil, ErrEmptyModel
	}
	sorted := make([]Layer, len(layers))
	copy(sorted, layers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Depth < sorted[j].Depth })
	return &Model{Name: name, layers: sorted, interp: interp}, nil
}

// MaxDepth returns the deepest layer depth in km.
func (m *Model) MaxDepth() float64 {
	return m.layers[len(m.layers)-1].Depth
}

// Layers returns a copy of the layer stack.
func (m *Model) Layers() []Layer {
	out := make([]Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// velocity extracts the requested wave velocity from a layer.
func velocity(l Layer, w phase.Wave) float64 {
	if w == phase.WaveS {
		return l.Vs
	}
	return l.Vp
}

// VelocityAt returns the wave velocity at the given depth, or ok=false when
// the depth lies below the model or the model carries the zero sentinel at
// the clamped end.
func (m *Model) VelocityAt(depthKm float64, w phase.Wave) (float64, bool) {
	if depthKm > m.MaxDepth() {
		return 0, false
	}
	if m.interp == InterpStep {
		return m.stepVelocity(depthKm, w), true
	}
	return m.linearVelocity(depthKm, w)
}

// stepVelocity returns the velocity of the deepest layer whose depth does not
// exceed the query depth, clamping above the shallowest layer.
func (m *Model) stepVelocity(depthKm float64, w phase.Wave) float64 {
	idx := sort.Search(len(m.layers), func(i int) bool {
		return m.layers[i].Depth > depthKm
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return velocity(m.layers[idx], w)
}

// linearVelocity interpolates between the two samples bracketing the query
// depth. At or beyond the ends the boundary sample is returned, with a zero
// velocity there treated as absent (zero rows mark malformed or fluid data).
func (m *Model) linearVelocity(depthKm float64, w phase.Wave) (float64, bool) {
	idx := sort.Search(len(m.layers), func(i int) bool {
		return m.layers[i].Depth >= depthKm
	})
	switch idx {
	case 0:
		v := velocity(m.layers[0], w)
		return v, v != 0
	case len(m.layers):
		v := velocity(m.layers[len(m.layers)-1], w)
		return v, v != 0
	}
	lo, hi := m.layers[idx-1], m.layers[idx]
	v0, v1 := velocity(lo, w), velocity(hi, w)
	if hi.Depth == lo.Depth {
		// Discontinuity: two samples at the same depth.
		return v1, true
	}
	return v0 + (v1-v0)*(depthKm-lo.Depth)/(hi.Depth-lo.Depth), true
}
