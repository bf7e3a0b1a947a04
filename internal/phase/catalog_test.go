package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(ModeDefault, DefaultGridParams())
	require.NoError(t, err)
	return c
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, m := range []string{"default", "local", "regional", "custom"} {
		got, err := ParseMode(m)
		require.NoError(t, err)
		assert.Equal(t, Mode(m), got)
	}

	_, err := ParseMode("teleseismic")
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestGridParamsValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultGridParams().Validate())

	p := DefaultGridParams()
	p.DepthStep = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidGrid)

	p = DefaultGridParams()
	p.MaxDistance = -1
	assert.ErrorIs(t, p.Validate(), ErrInvalidGrid)
}

func TestNewCatalogDefaultGrids(t *testing.T) {
	t.Parallel()
	c := defaultCatalog(t)

	t.Run("P distance grid", func(t *testing.T) {
		p, err := c.SpecFor("P")
		require.NoError(t, err)
		// 19 fine regional samples, then 1-degree steps from 5 to 180.
		require.Len(t, p.Distances, 195)
		assert.Equal(t, 0.0, p.Distances[0])
		assert.Equal(t, 180.0, p.Distances[len(p.Distances)-1])
		assert.Contains(t, p.Distances, 4.5)
		assert.Contains(t, p.Distances, 5.0)
	})

	t.Run("P depth grid", func(t *testing.T) {
		p, err := c.SpecFor("P")
		require.NoError(t, err)
		// 5 km steps to 95, then 50 km steps from 100 to 800.
		require.Len(t, p.Depths, 35)
		assert.Equal(t, 0.0, p.Depths[0])
		assert.Equal(t, 800.0, p.Depths[len(p.Depths)-1])
		assert.Contains(t, p.Depths, 95.0)
		assert.Contains(t, p.Depths, 100.0)
		assert.NotContains(t, p.Depths, 105.0)
	})

	t.Run("crustal phases capped at 35 km", func(t *testing.T) {
		for _, name := range []string{"Pg", "Pb", "Sb", "Sg"} {
			sp, err := c.SpecFor(name)
			require.NoError(t, err)
			assert.Equal(t, 35.0, sp.MaxDepth, name)
		}
	})

	t.Run("mantle phases capped at 400 km", func(t *testing.T) {
		for _, name := range []string{"Pn", "Sn"} {
			sp, err := c.SpecFor(name)
			require.NoError(t, err)
			assert.Equal(t, 400.0, sp.MaxDepth, name)
		}
	})

	t.Run("S distance grid stops at the shadow zone", func(t *testing.T) {
		s, err := c.SpecFor("S")
		require.NoError(t, err)
		assert.InDelta(t, 115.0, s.MaxDistance, 1e-9)
	})

	t.Run("grids strictly increasing", func(t *testing.T) {
		for _, name := range c.Phases() {
			sp, err := c.SpecFor(name)
			require.NoError(t, err)
			for i := 1; i < len(sp.Distances); i++ {
				require.Greater(t, sp.Distances[i], sp.Distances[i-1], "%s distances", name)
			}
			for i := 1; i < len(sp.Depths); i++ {
				require.Greater(t, sp.Depths[i], sp.Depths[i-1], "%s depths", name)
			}
		}
	})
}

func TestNewCatalogTeleseismicPhases(t *testing.T) {
	t.Parallel()
	c := defaultCatalog(t)

	pkpab, err := c.SpecFor("PKPab")
	require.NoError(t, err)
	assert.Equal(t, 140.0, pkpab.MinDistance)
	assert.Equal(t, 180.0, pkpab.MaxDistance)

	pcp, err := c.SpecFor("PcP")
	require.NoError(t, err)
	assert.Equal(t, 25.0, pcp.MinDistance)
	assert.Equal(t, 60.0, pcp.MaxDistance)

	pp, err := c.SpecFor("pP")
	require.NoError(t, err)
	assert.Equal(t, 20.0, pp.MinDistance)
	assert.Equal(t, 104.0, pp.MaxDistance)
}

func TestNewCatalogRegionalOmitsTeleseismic(t *testing.T) {
	t.Parallel()
	c, err := NewCatalog(ModeRegional, DefaultGridParams())
	require.NoError(t, err)

	for _, name := range []string{"PP", "PKPdf", "PcP", "pP"} {
		_, err := c.SpecFor(name)
		assert.ErrorIs(t, err, ErrUnknownPhase, name)
	}

	p, err := c.SpecFor("P")
	require.NoError(t, err)
	assert.Equal(t, 20.0, p.MaxDistance)
	assert.Equal(t, 100.0, p.MaxDepth)
}

func TestNewCatalogLocalMode(t *testing.T) {
	t.Parallel()
	c, err := NewCatalog(ModeLocal, DefaultGridParams())
	require.NoError(t, err)

	p, err := c.SpecFor("P")
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.MaxDistance)
	assert.LessOrEqual(t, p.MaxDepth, 35.0)

	pg, err := c.SpecFor("Pg")
	require.NoError(t, err)
	assert.Equal(t, 5.0, pg.MaxDistance)
}

func TestCatalogSpecForUnknown(t *testing.T) {
	t.Parallel()
	c := defaultCatalog(t)

	_, err := c.SpecFor("Lg")
	assert.ErrorIs(t, err, ErrUnknownPhase)
}

func TestCatalogDistanceLimits(t *testing.T) {
	t.Parallel()
	c := defaultCatalog(t)

	w, ok := c.DistanceLimit("PKPdf")
	require.True(t, ok)
	assert.False(t, w.Contains(100))
	assert.True(t, w.Contains(150))

	w, ok = c.DistanceLimit("Pdiff")
	require.True(t, ok)
	assert.True(t, w.Contains(100))
	assert.False(t, w.Contains(120))

	_, ok = c.DistanceLimit("Pn")
	assert.False(t, ok)
}

func TestDefaultPhases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"P", "Pg", "Pb", "Pn", "S", "Sg", "Sb", "Sn"}, DefaultPhases(ModeLocal))
	assert.Contains(t, DefaultPhases(ModeRegional), "pP")
	assert.Contains(t, DefaultPhases(ModeDefault), "PKPbc")
	assert.Contains(t, DefaultPhases(ModeCustom), "ScP")
}

func TestCatalogPhasesSorted(t *testing.T) {
	t.Parallel()
	c := defaultCatalog(t)

	names := c.Phases()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}
