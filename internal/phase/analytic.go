package phase

// Override is a closed-form crustal velocity law of the shape
// v(z) = v0 + g*z km/s. Phases carrying an override are computed from the
// straight-line path length directly and never consult the travel-time oracle.
type Override struct {
	BaseVelocity  float64 // v0 at the surface, km/s
	DepthGradient float64 // g, (km/s)/km
}

// Velocity returns the override velocity at the given source depth in km.
func (o Override) Velocity(depthKm float64) float64 {
	return o.BaseVelocity + o.DepthGradient*depthKm
}

// Analytic overrides for the direct crustal phases. Pg uses the IASP91
// upper-crust velocity of 5.8 km/s with a slight depth gradient; the gradient
// keeps the whole crustal depth range covered with smooth Pg times. Sg is the
// S-wave analogue at 3.36 km/s.
var overrides = map[string]Override{
	"Pg": {BaseVelocity: 5.8, DepthGradient: 0.0006},
	"Sg": {BaseVelocity: 3.36, DepthGradient: 0.00037},
}

// OverrideFor returns the analytic velocity law for a phase, if it has one.
func OverrideFor(name string) (Override, bool) {
	o, ok := overrides[name]
	return o, ok
}
