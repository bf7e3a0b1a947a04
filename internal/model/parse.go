package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// parseRow parses one whitespace-separated model line of the form
// `depth vp vs [density]`. Rows where every velocity field is exactly zero
// are layer-boundary markers, reported via marker=true and skipped upstream.
func parseRow(fields []string) (l Layer, marker bool, err error) {
	if len(fields) != 3 && len(fields) != 4 {
		return Layer{}, false, fmt.Errorf("expected 3 or 4 columns, got %d", len(fields))
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Layer{}, false, fmt.Errorf("column %d: %w", i+1, err)
		}
		vals[i] = v
	}
	l = Layer{Depth: vals[0], Vp: vals[1], Vs: vals[2]}
	if len(vals) == 4 {
		l.Density = vals[3]
	}
	if l.Vp == 0 && l.Vs == 0 && l.Density == 0 {
		return Layer{}, true, nil
	}
	return l, false, nil
}

// parseLayers reads model rows from r, skipping blank and #-comment lines.
// Malformed rows are skipped with a warning on logger, never fatal.
func parseLayers(r io.Reader, logger io.Writer) []Layer {
	var layers []Layer
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l, marker, err := parseRow(strings.Fields(line))
		if err != nil {
			fmt.Fprintf(logger, "warning: skipping invalid model line %q: %v\n", line, err)
			continue
		}
		if marker {
			continue
		}
		layers = append(layers, l)
	}
	return layers
}

// Load reads a plain layered velocity model (`depth vp vs [density]` columns)
// and returns it with piecewise-constant interpolation. The model name is
// the file's base name without extension.
func Load(path string, logger io.Writer) (*Model, error) {
	if logger == nil {
		logger = os.Stderr
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening velocity model: %w", err)
	}
	defer f.Close()

	layers := parseLayers(f, logger)
	m, err := New(stem(path), layers, InterpStep)
	if err != nil {
		return nil, fmt.Errorf("velocity model %s: %w", path, err)
	}
	return m, nil
}

// LoadTVEL reads a TVEL velocity model and returns it with piecewise-linear
// interpolation. A single leading non-numeric line is treated as the model
// name; it is logged and not parsed as data.
func LoadTVEL(path string, logger io.Writer) (*Model, error) {
	if logger == nil {
		logger = os.Stderr
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening TVEL model: %w", err)
	}
	defer f.Close()

	name := stem(path)
	var layers []Layer
	sc := bufio.NewScanner(f)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if first {
			first = false
			if _, _, err := parseRow(strings.Fields(line)); err != nil {
				// Header line naming the model.
				name = line
				fmt.Fprintf(logger, "loading velocity model: %s\n", line)
				continue
			}
		}
		l, marker, err := parseRow(strings.Fields(line))
		if err != nil {
			fmt.Fprintf(logger, "warning: skipping invalid TVEL line %q: %v\n", line, err)
			continue
		}
		if marker {
			continue
		}
		layers = append(layers, l)
	}

	m, err := New(name, layers, InterpLinear)
	if err != nil {
		return nil, fmt.Errorf("TVEL model %s: %w", path, err)
	}
	return m, nil
}

// stem returns the file base name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
