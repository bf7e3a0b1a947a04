package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RenderOptions selects between the LocSAT layout variants found in the
// field. The defaults produce the layout the location software consumes.
type RenderOptions struct {
	// CommentHeader writes `# <phase> travel-time tables` as the first line
	// instead of the bare phase name.
	CommentHeader bool
	// Extended adds slowness columns and the matched label to every time
	// line. Not LocSAT compatible; useful for debugging.
	Extended bool
}

// Render serializes a table in the LocSAT text layout: phase header, counted
// depth and distance sample blocks (ten fixed-width values per line), then
// one time per line grouped by depth. Absent cells serialize as -1.000.
// LocSAT requires no trailing newline after the final data line.
func Render(w io.Writer, t *Table, opts RenderOptions) error {
	lines := make([]string, 0, 4+len(t.Cells))

	if opts.CommentHeader {
		lines = append(lines, fmt.Sprintf("# %s travel-time tables", t.Phase))
	} else {
		lines = append(lines, t.Phase)
	}

	lines = append(lines, fmt.Sprintf("%d    # number of depth samples", len(t.Depths)))
	lines = append(lines, sampleLines(t.Depths)...)
	lines = append(lines, fmt.Sprintf("%d    # number of distance samples", len(t.Distances)))
	lines = append(lines, sampleLines(t.Distances)...)

	for i, depth := range t.Depths {
		lines = append(lines, depthLine(depth, opts))
		for j := range t.Distances {
			lines = append(lines, timeLine(t.At(i, j), opts))
		}
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// depthLine writes the comment announcing a depth block. Each layout variant
// carries its own historical phrasing, preserved so regenerated tables diff
// clean against existing ones.
func depthLine(depth float64, opts RenderOptions) string {
	switch {
	case opts.CommentHeader:
		return fmt.Sprintf("# Travel time for z = %g km", depth)
	case opts.Extended:
		return fmt.Sprintf("# z = %g km", depth)
	default:
		return "# z = " + depthText(depth) + " km"
	}
}

// depthText keeps a decimal point on integral depths, matching the field
// tables the plain layout is compared against.
func depthText(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// timeLine formats one cell. The plain layout is a single width-12 time with
// three decimals; the extended layout appends slownesses and the label.
func timeLine(c Cell, opts RenderOptions) string {
	if !opts.Extended {
		if !c.Present {
			return fmt.Sprintf("%12.3f", AbsentTime)
		}
		return fmt.Sprintf("%12.3f", c.Time)
	}
	if !c.Present {
		return fmt.Sprintf("%12.3f %12.6f %12.6f", AbsentTime, AbsentTime, AbsentTime)
	}
	return fmt.Sprintf("%12.3f %12.6f %12.6f %s", c.Time, c.Dtdd, c.Dtdh, c.Label)
}

// sampleLines formats sample values ten per line at width 8 with two
// decimals, padding the final partial line to the full ten-column width.
func sampleLines(vals []float64) []string {
	var lines []string
	var sb strings.Builder
	n := 0
	for _, v := range vals {
		fmt.Fprintf(&sb, "%8.2f", v)
		n++
		if n == 10 {
			lines = append(lines, sb.String())
			sb.Reset()
			n = 0
		}
	}
	if n > 0 {
		for ; n < 10; n++ {
			sb.WriteString(strings.Repeat(" ", 8))
		}
		lines = append(lines, sb.String())
	}
	return lines
}
