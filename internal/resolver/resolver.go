// Package resolver decides a single authoritative travel time for a
// (phase, depth, distance) triple, reconciling phase combination rules,
// validity windows, depth-phase naming at zero depth, and analytic crustal
// overrides.
package resolver

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/seismotools/ttgen/internal/model"
	"github.com/seismotools/ttgen/internal/oracle"
	"github.com/seismotools/ttgen/internal/phase"
)

// Degree-to-km conversion constants. The two generator lineages used
// slightly different values; both are preserved because downstream location
// software compares tables bit-for-bit.
const (
	// DegreeKm is used by the analytic-override and TVEL straight-line paths.
	DegreeKm = 111.195
	// LocalDegreeKm is the historical constant of the local-model path.
	LocalDegreeKm = 111.19
)

// Resolver answers travel-time queries against an immutable phase source and
// either an oracle, a local velocity model, or both (model primary, oracle as
// the deep fallback). It holds no per-call state and is safe for concurrent
// use.
type Resolver struct {
	Source phase.Source
	Oracle oracle.Oracle // nil = no oracle path
	Model  *model.Model  // nil = oracle-only resolution

	// ModelDegreeKm converts degrees to km on the model path.
	// Zero selects LocalDegreeKm.
	ModelDegreeKm float64

	Logger io.Writer // optional; nil = os.Stderr
}

func (r *Resolver) logger() io.Writer {
	if r.Logger != nil {
		return r.Logger
	}
	return os.Stderr
}

func (r *Resolver) modelDegreeKm() float64 {
	if r.ModelDegreeKm != 0 {
		return r.ModelDegreeKm
	}
	return LocalDegreeKm
}

// Resolve returns the travel time in seconds for the phase at the given
// source depth and epicentral distance, or ok=false when no arrival exists
// at that geometry. The only error is an unknown phase name; oracle failures
// degrade to an absent cell.
func (r *Resolver) Resolve(ctx context.Context, name string, depthKm, distanceDeg float64) (float64, bool, error) {
	arr, ok, err := r.ResolveArrival(ctx, name, depthKm, distanceDeg)
	return arr.Time, ok, err
}

// ResolveArrival is Resolve with the full arrival record, carrying the
// matched oracle label and ray-parameter derivatives for the extended table
// format. Derivatives are -1 on the analytic path and 0 on the model path.
func (r *Resolver) ResolveArrival(ctx context.Context, name string, depthKm, distanceDeg float64) (oracle.Arrival, bool, error) {
	spec, err := r.Source.SpecFor(name)
	if err != nil {
		return oracle.Arrival{}, false, err
	}
	if distanceDeg < spec.MinDistance || distanceDeg > spec.MaxDistance {
		return oracle.Arrival{}, false, nil
	}
	if depthKm > spec.MaxDepth {
		return oracle.Arrival{}, false, nil
	}

	// Analytic crustal override: never consults the oracle or the model.
	if spec.Override != nil {
		v := spec.Override.Velocity(depthKm)
		t := math.Hypot(distanceDeg*DegreeKm, depthKm) / v
		return clamp(oracle.Arrival{Phase: name, Time: t, Dtdd: -1, Dtdh: -1}, depthKm, distanceDeg), true, nil
	}

	if r.Model != nil {
		if depthKm > r.Model.MaxDepth() {
			// Below the local model: fall through to the reference oracle.
			if r.Oracle == nil {
				return oracle.Arrival{}, false, nil
			}
			return r.fromOracle(ctx, name, depthKm, distanceDeg)
		}
		w, known := phase.WaveTypeOf(name)
		if !known {
			return oracle.Arrival{}, false, nil
		}
		v, have := r.Model.VelocityAt(depthKm, w)
		if !have || v <= 0 {
			return oracle.Arrival{}, false, nil
		}
		t := math.Hypot(distanceDeg*r.modelDegreeKm(), depthKm) / v
		return clamp(oracle.Arrival{Phase: name, Time: t}, depthKm, distanceDeg), true, nil
	}

	if r.Oracle == nil {
		return oracle.Arrival{}, false, nil
	}
	return r.fromOracle(ctx, name, depthKm, distanceDeg)
}

// fromOracle consults the oracle and accepts the first arrival satisfying the
// effective phase, honoring per-label distance windows. Oracle result order
// is authoritative; there is no preference scoring among tied labels.
func (r *Resolver) fromOracle(ctx context.Context, name string, depthKm, distanceDeg float64) (oracle.Arrival, bool, error) {
	eff := phase.EffectiveName(name, depthKm)

	arrivals, err := r.Oracle.Compute(ctx, depthKm, distanceDeg)
	if err != nil {
		fmt.Fprintf(r.logger(), "warning: oracle failed for depth=%g distance=%g: %v\n", depthKm, distanceDeg, err)
		return oracle.Arrival{}, false, nil
	}

	for _, a := range arrivals {
		if w, limited := r.Source.DistanceLimit(a.Phase); limited && !w.Contains(distanceDeg) {
			continue
		}
		if phase.Accepts(eff, a.Phase) {
			return clamp(a, depthKm, distanceDeg), true, nil
		}
	}
	return oracle.Arrival{}, false, nil
}

// clamp pins the degenerate co-located source/receiver geometry to exactly
// zero travel time, avoiding numerical noise from the oracle at (0, 0).
func clamp(a oracle.Arrival, depthKm, distanceDeg float64) oracle.Arrival {
	if depthKm == 0 && distanceDeg == 0 {
		a.Time = 0
	}
	return a
}
