package resolver

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/seismotools/ttgen/internal/model"
	"github.com/seismotools/ttgen/internal/oracle"
	"github.com/seismotools/ttgen/internal/phase"
)

func defaultCatalog(t *testing.T) *phase.Catalog {
	t.Helper()
	c, err := phase.NewCatalog(phase.ModeDefault, phase.DefaultGridParams())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

// fixedOracle returns the same arrival list for every query.
func fixedOracle(arrivals ...oracle.Arrival) oracle.Oracle {
	return oracle.Func(func(context.Context, float64, float64) ([]oracle.Arrival, error) {
		return arrivals, nil
	})
}

func TestResolveUnknownPhase(t *testing.T) {
	t.Parallel()
	r := &Resolver{Source: defaultCatalog(t), Oracle: fixedOracle()}

	_, _, err := r.Resolve(context.Background(), "Lg", 0, 1)
	if !errors.Is(err, phase.ErrUnknownPhase) {
		t.Fatalf("Resolve(Lg) error = %v, want ErrUnknownPhase", err)
	}
}

func TestResolveOutsideDomain(t *testing.T) {
	t.Parallel()

	called := false
	orc := oracle.Func(func(context.Context, float64, float64) ([]oracle.Arrival, error) {
		called = true
		return nil, nil
	})
	r := &Resolver{Source: defaultCatalog(t), Oracle: orc}

	// PcP is only valid from 25 degrees out.
	if _, ok, err := r.Resolve(context.Background(), "PcP", 0, 10); err != nil || ok {
		t.Fatalf("Resolve(PcP, 10 deg) = ok=%v err=%v, want absent", ok, err)
	}
	// Pn tables stop at 400 km depth.
	if _, ok, err := r.Resolve(context.Background(), "Pn", 500, 10); err != nil || ok {
		t.Fatalf("Resolve(Pn, 500 km) = ok=%v err=%v, want absent", ok, err)
	}
	if called {
		t.Error("oracle consulted for out-of-domain geometry")
	}
}

func TestResolveAnalyticOverride(t *testing.T) {
	t.Parallel()

	orc := oracle.Func(func(context.Context, float64, float64) ([]oracle.Arrival, error) {
		t.Error("oracle consulted for an analytic phase")
		return nil, nil
	})
	r := &Resolver{Source: defaultCatalog(t), Oracle: orc}

	got, ok, err := r.Resolve(context.Background(), "Pg", 10, 2.0)
	if err != nil || !ok {
		t.Fatalf("Resolve(Pg) = ok=%v err=%v", ok, err)
	}
	want := math.Hypot(2.0*DegreeKm, 10) / (5.8 + 0.0006*10)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Pg time = %.6f, want %.6f", got, want)
	}
}

func TestResolveZeroGeometryClamp(t *testing.T) {
	t.Parallel()
	r := &Resolver{Source: defaultCatalog(t), Oracle: fixedOracle()}

	got, ok, err := r.Resolve(context.Background(), "Pg", 0, 0)
	if err != nil || !ok {
		t.Fatalf("Resolve(Pg, 0, 0) = ok=%v err=%v", ok, err)
	}
	if got != 0 {
		t.Errorf("co-located source/receiver time = %g, want exactly 0", got)
	}
}

func TestResolveCombineSet(t *testing.T) {
	t.Parallel()
	r := &Resolver{Source: defaultCatalog(t), Oracle: fixedOracle(
		oracle.Arrival{Phase: "PcP", Time: 520},
		oracle.Arrival{Phase: "Pn", Time: 100},
	)}

	got, ok, err := r.Resolve(context.Background(), "P", 50, 3)
	if err != nil || !ok {
		t.Fatalf("Resolve(P) = ok=%v err=%v", ok, err)
	}
	if got != 100 {
		t.Errorf("P time = %g, want Pn arrival at 100", got)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	t.Parallel()
	r := &Resolver{Source: defaultCatalog(t), Oracle: fixedOracle(
		oracle.Arrival{Phase: "Pn", Time: 99},
		oracle.Arrival{Phase: "P", Time: 100},
	)}

	got, _, _ := r.Resolve(context.Background(), "P", 50, 3)
	if got != 99 {
		t.Errorf("P time = %g, want first acceptable arrival at 99", got)
	}
}

func TestResolveLabelDistanceWindow(t *testing.T) {
	t.Parallel()

	// At 100 degrees PKPdf has not emerged yet; a PKPdf label must be
	// rejected even though it is in P's combine set.
	r := &Resolver{Source: defaultCatalog(t), Oracle: fixedOracle(
		oracle.Arrival{Phase: "PKPdf", Time: 1100},
		oracle.Arrival{Phase: "Pdiff", Time: 800},
	)}

	got, ok, err := r.Resolve(context.Background(), "P", 100, 100)
	if err != nil || !ok {
		t.Fatalf("Resolve(P, 100 deg) = ok=%v err=%v", ok, err)
	}
	if got != 800 {
		t.Errorf("P time = %g, want the Pdiff arrival at 800", got)
	}

	// Past 118 degrees PKPdf becomes acceptable.
	got, ok, _ = r.Resolve(context.Background(), "P", 100, 150)
	if !ok || got != 1100 {
		t.Errorf("Resolve(P, 150 deg) = %g ok=%v, want the PKPdf arrival", got, ok)
	}
}

func TestResolveDepthPhaseAtSurface(t *testing.T) {
	t.Parallel()
	r := &Resolver{Source: defaultCatalog(t), Oracle: fixedOracle(
		oracle.Arrival{Phase: "Pn", Time: 250},
	)}

	// At zero depth pP coincides with P, so the Pn arrival satisfies it.
	got, ok, err := r.Resolve(context.Background(), "pP", 0, 21)
	if err != nil || !ok {
		t.Fatalf("Resolve(pP, z=0) = ok=%v err=%v", ok, err)
	}
	if got != 250 {
		t.Errorf("pP time = %g, want 250", got)
	}

	// At depth the depth phase matches only its own labels.
	if _, ok, _ := r.Resolve(context.Background(), "pP", 10, 21); ok {
		t.Error("Resolve(pP, z=10) accepted a bare Pn arrival")
	}
}

func TestResolveOracleFailure(t *testing.T) {
	t.Parallel()

	var log bytes.Buffer
	orc := oracle.Func(func(context.Context, float64, float64) ([]oracle.Arrival, error) {
		return nil, errors.New("exit status 1")
	})
	r := &Resolver{Source: defaultCatalog(t), Oracle: orc, Logger: &log}

	_, ok, err := r.Resolve(context.Background(), "P", 50, 30)
	if err != nil {
		t.Fatalf("oracle failure escalated to an error: %v", err)
	}
	if ok {
		t.Error("oracle failure produced a present cell")
	}
	if !bytes.Contains(log.Bytes(), []byte("warning")) {
		t.Error("oracle failure not logged")
	}
}

func localSource(t *testing.T) phase.Source {
	t.Helper()
	depths := phase.Arange(0, 40, 5)
	distances := phase.Arange(0, 20.1, 0.2)
	return phase.NewStatic(phase.Spec{
		Name:      "P",
		Depths:    depths,
		Distances: distances,
		MaxDepth:  800,
	})
}

func TestResolveModelPath(t *testing.T) {
	t.Parallel()

	m, err := model.New("crust", []model.Layer{
		{Depth: 0, Vp: 10, Vs: 5},
		{Depth: 35, Vp: 10, Vs: 5},
	}, model.InterpStep)
	if err != nil {
		t.Fatal(err)
	}
	r := &Resolver{Source: localSource(t), Model: m}

	got, ok, err := r.Resolve(context.Background(), "P", 0, 1)
	if err != nil || !ok {
		t.Fatalf("Resolve = ok=%v err=%v", ok, err)
	}
	want := LocalDegreeKm / 10
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("model-path time = %.6f, want %.6f", got, want)
	}
}

func TestResolveModelPathUnknownWaveType(t *testing.T) {
	t.Parallel()

	m, err := model.New("crust", []model.Layer{
		{Depth: 0, Vp: 5.8, Vs: 3.36},
		{Depth: 35, Vp: 6.5, Vs: 3.9},
	}, model.InterpStep)
	if err != nil {
		t.Fatal(err)
	}
	// Lg starts with neither P nor S, so the model has no velocity for it.
	src := phase.NewStatic(phase.Spec{
		Name:      "Lg",
		Depths:    phase.Arange(0, 40, 5),
		Distances: phase.Arange(0, 20.1, 0.2),
		MaxDepth:  800,
	})
	r := &Resolver{Source: src, Model: m}

	if got, ok, err := r.Resolve(context.Background(), "Lg", 10, 2.0); err != nil || ok {
		t.Fatalf("Resolve(Lg) = %v ok=%v err=%v, want absent", got, ok, err)
	}
}

func TestResolveModelDeepFallback(t *testing.T) {
	t.Parallel()

	m, err := model.New("crust", []model.Layer{
		{Depth: 0, Vp: 6, Vs: 3.5},
		{Depth: 35, Vp: 8, Vs: 4.5},
	}, model.InterpStep)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("oracle answers below the model", func(t *testing.T) {
		t.Parallel()
		r := &Resolver{
			Source: localSource(t),
			Model:  m,
			Oracle: fixedOracle(oracle.Arrival{Phase: "P", Time: 60}),
		}
		got, ok, err := r.Resolve(context.Background(), "P", 100, 4)
		if err != nil || !ok {
			t.Fatalf("Resolve = ok=%v err=%v", ok, err)
		}
		if got != 60 {
			t.Errorf("fallback time = %g, want 60", got)
		}
	})

	t.Run("absent without an oracle", func(t *testing.T) {
		t.Parallel()
		r := &Resolver{Source: localSource(t), Model: m}
		if _, ok, _ := r.Resolve(context.Background(), "P", 100, 4); ok {
			t.Error("depth below the model resolved without an oracle")
		}
	})
}

func TestResolveArrivalCarriesDerivatives(t *testing.T) {
	t.Parallel()
	r := &Resolver{Source: defaultCatalog(t), Oracle: fixedOracle(
		oracle.Arrival{Phase: "Pn", Time: 100, Dtdd: 13.7, Dtdh: -0.1},
	)}

	arr, ok, err := r.ResolveArrival(context.Background(), "P", 50, 3)
	if err != nil || !ok {
		t.Fatalf("ResolveArrival = ok=%v err=%v", ok, err)
	}
	if arr.Phase != "Pn" || arr.Dtdd != 13.7 || arr.Dtdh != -0.1 {
		t.Errorf("arrival = %+v, want the matched Pn record", arr)
	}
}
