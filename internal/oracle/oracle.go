// Package oracle abstracts the external travel-time computation behind a
// narrow interface so the resolution engine is testable with deterministic
// stubs, independent of the real physics library.
package oracle

import "context"

// Arrival is one candidate result from the travel-time oracle: a phase label
// with its travel time and optional ray-parameter derivatives. Values are
// passed through unchanged; nothing here computes them.
type Arrival struct {
	Phase string  // oracle's own phase label
	Time  float64 // travel time, seconds
	Dtdd  float64 // dt/ddelta, s/deg (optional)
	Dtdh  float64 // dt/dh, s/km (optional)
}

// Oracle computes candidate arrivals for a source depth and epicentral
// distance. Result order is oracle-defined and treated as priority order by
// the resolver. Implementations must be safe for concurrent use.
type Oracle interface {
	Compute(ctx context.Context, depthKm, distanceDeg float64) ([]Arrival, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, depthKm, distanceDeg float64) ([]Arrival, error)

// Compute calls f.
func (f Func) Compute(ctx context.Context, depthKm, distanceDeg float64) ([]Arrival, error) {
	return f(ctx, depthKm, distanceDeg)
}
