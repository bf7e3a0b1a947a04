package phase

import "fmt"

// localDomain is the validity envelope used when times come from a local
// layered velocity model instead of the oracle grids: straight-line crustal
// approximations only hold out to regional distances and crustal depths.
type localDomain struct {
	window   Window
	maxDepth float64
}

var localDomains = map[string]localDomain{
	"P":  {Window{0, 180}, 800},
	"S":  {Window{0, 180}, 800},
	"Pg": {Window{0, 10}, 30},
	"Pb": {Window{0, 10}, 30},
	"Sg": {Window{0, 10}, 30},
	"Sb": {Window{0, 10}, 30},
	"Pn": {Window{2, 15}, 50},
	"Sn": {Window{2, 15}, 50},
}

// LocalDomain returns the distance window and maximum depth for a phase when
// resolved against a local velocity model. Unknown names fail rather than
// falling back to the generic P envelope.
func LocalDomain(name string) (Window, float64, error) {
	d, ok := localDomains[name]
	if !ok {
		return Window{}, 0, fmt.Errorf("%w: %q has no local-model domain", ErrUnknownPhase, name)
	}
	return d.window, d.maxDepth, nil
}

// LocalPhases returns the phases generated in local-model runs.
func LocalPhases() []string {
	return []string{"P", "S", "Pg", "Pb", "Pn", "Sg", "Sb", "Sn"}
}
