package oracle

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ExecOracle shells out to an external travel-time tool for each query.
// The tool is expected to accept `--model M --depth Z --delta D` and print
// one arrival per line as `phase time [dtdd dtdh]` in its own priority order.
type ExecOracle struct {
	Path    string // tool binary, e.g. "ttimes"
	Model   string // reference Earth model name (iasp91, ak135)
	Verbose bool
}

// Validate checks that the travel-time tool is runnable.
func (o *ExecOracle) Validate() error {
	out, err := exec.Command(o.Path, "--version").Output()
	if err != nil {
		return fmt.Errorf("travel-time tool not found at %q: %w", o.Path, err)
	}
	if o.Verbose {
		fmt.Fprintf(os.Stderr, "[oracle] version: %s", string(out))
	}
	return nil
}

// Compute runs the tool for one (depth, distance) query and parses its
// arrival list. A non-zero exit is an OracleFailure for the caller to log;
// the cell resolves to absent, not a run abort.
func (o *ExecOracle) Compute(ctx context.Context, depthKm, distanceDeg float64) ([]Arrival, error) {
	args := []string{
		"--model", o.Model,
		"--depth", strconv.FormatFloat(depthKm, 'f', -1, 64),
		"--delta", strconv.FormatFloat(distanceDeg, 'f', -1, 64),
	}
	cmd := exec.CommandContext(ctx, o.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if o.Verbose {
		fmt.Fprintf(os.Stderr, "[oracle] running: %s %s\n", o.Path, strings.Join(args, " "))
	}

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("oracle invocation failed: %w\nstderr: %s", err, stderr.String())
	}
	return ParseArrivals(stdout.String())
}

// ParseArrivals parses the tool's output: one arrival per non-empty,
// non-comment line, `phase time [dtdd dtdh]`, whitespace separated.
func ParseArrivals(out string) ([]Arrival, error) {
	var arrivals []Arrival
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 && len(fields) != 4 {
			return nil, fmt.Errorf("malformed arrival line %q", line)
		}
		t, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed arrival time in %q: %w", line, err)
		}
		arr := Arrival{Phase: fields[0], Time: t}
		if len(fields) == 4 {
			if arr.Dtdd, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("malformed dtdd in %q: %w", line, err)
			}
			if arr.Dtdh, err = strconv.ParseFloat(fields[3], 64); err != nil {
				return nil, fmt.Errorf("malformed dtdh in %q: %w", line, err)
			}
		}
		arrivals = append(arrivals, arr)
	}
	return arrivals, nil
}
