// Package table assembles gridded travel-time tables and serializes them in
// the fixed columnar LocSAT text layout consumed by downstream earthquake
// location software.
package table

// AbsentTime is the sentinel written for cells where the phase does not
// arrive at that geometry.
const AbsentTime = -1.0

// Cell is one (depth, distance) entry of a table. Derivatives and the
// matched oracle label are only used by the extended output format.
type Cell struct {
	Time    float64
	Dtdd    float64
	Dtdh    float64
	Label   string
	Present bool
}

// Table is the write-once result of building one phase: travel times on the
// phase's depth/distance grid, depth-major.
type Table struct {
	Phase     string
	Depths    []float64 // km
	Distances []float64 // degrees
	Cells     []Cell    // len = len(Depths)*len(Distances)
}

// At returns the cell for depth index i and distance index j.
func (t *Table) At(i, j int) Cell {
	return t.Cells[i*len(t.Distances)+j]
}

// Missing counts cells with no arrival.
func (t *Table) Missing() int {
	n := 0
	for _, c := range t.Cells {
		if !c.Present {
			n++
		}
	}
	return n
}
