package table

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/seismotools/ttgen/internal/phase"
	"github.com/seismotools/ttgen/internal/resolver"
	"github.com/seismotools/ttgen/internal/telemetry"
)

// Builder evaluates a phase's sampling grid through the resolver and
// assembles the result table. Cells are independent pure-function
// evaluations, so depth rows are fanned out over a bounded worker pool; each
// worker writes a disjoint slice of the result, no locking required.
type Builder struct {
	Source    phase.Source
	Resolver  *resolver.Resolver
	Workers   int                // <=0 = NumCPU
	Telemetry *telemetry.Emitter // optional
	Logger    io.Writer          // optional; nil = os.Stderr
}

func (b *Builder) logger() io.Writer {
	if b.Logger != nil {
		return b.Logger
	}
	return os.Stderr
}

func (b *Builder) workers() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.NumCPU()
}

// Build evaluates the full grid for one phase. An unknown phase fails;
// everything else degrades per cell to the absent sentinel. Build honors
// context cancellation between row dispatches.
func (b *Builder) Build(ctx context.Context, phaseName string) (*Table, error) {
	spec, err := b.Source.SpecFor(phaseName)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Phase:     phaseName,
		Depths:    spec.Depths,
		Distances: spec.Distances,
		Cells:     make([]Cell, len(spec.Depths)*len(spec.Distances)),
	}

	b.Telemetry.Emit(telemetry.Event{
		Kind:  telemetry.KindPhaseStart,
		Phase: phaseName,
		Data: map[string]int{
			"depths":    len(spec.Depths),
			"distances": len(spec.Distances),
		},
	})

	sem := make(chan struct{}, b.workers())
	var wg sync.WaitGroup
	for i := range spec.Depths {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{} // block if at worker capacity
		wg.Add(1)
		go func(row int) {
			defer func() {
				<-sem
				wg.Done()
			}()
			b.fillRow(ctx, t, spec, row)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.Telemetry.Emit(telemetry.Event{
		Kind:  telemetry.KindPhaseDone,
		Phase: phaseName,
		Data:  map[string]int{"cells": len(t.Cells), "missing": t.Missing()},
	})
	return t, nil
}

// fillRow resolves every distance sample at one source depth.
func (b *Builder) fillRow(ctx context.Context, t *Table, spec phase.Spec, row int) {
	depth := spec.Depths[row]
	base := row * len(spec.Distances)
	for j, dist := range spec.Distances {
		if ctx.Err() != nil {
			return
		}
		arr, ok, err := b.Resolver.ResolveArrival(ctx, spec.Name, depth, dist)
		if err != nil {
			// The phase was validated at Build entry; a per-cell error is
			// unexpected but must not abort the table.
			fmt.Fprintf(b.logger(), "warning: %s at z=%g d=%g: %v\n", spec.Name, depth, dist, err)
			continue
		}
		if !ok {
			continue
		}
		t.Cells[base+j] = Cell{
			Time:    arr.Time,
			Dtdd:    arr.Dtdd,
			Dtdh:    arr.Dtdh,
			Label:   arr.Phase,
			Present: true,
		}
	}
}
