package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismotools/ttgen/internal/phase"
)

func stepModel(t *testing.T) *Model {
	t.Helper()
	m, err := New("crust", []Layer{
		{Depth: 0, Vp: 5.8, Vs: 3.36},
		{Depth: 20, Vp: 6.5, Vs: 3.9},
		{Depth: 35, Vp: 8.0, Vs: 4.5},
	}, InterpStep)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty layer set", func(t *testing.T) {
		t.Parallel()
		_, err := New("empty", nil, InterpStep)
		assert.ErrorIs(t, err, ErrEmptyModel)
	})

	t.Run("sorts layers by depth", func(t *testing.T) {
		t.Parallel()
		m, err := New("scrambled", []Layer{
			{Depth: 35, Vp: 8.0, Vs: 4.5},
			{Depth: 0, Vp: 5.8, Vs: 3.36},
			{Depth: 20, Vp: 6.5, Vs: 3.9},
		}, InterpStep)
		require.NoError(t, err)
		assert.Equal(t, 35.0, m.MaxDepth())
		v, ok := m.VelocityAt(0, phase.WaveP)
		require.True(t, ok)
		assert.Equal(t, 5.8, v)
	})
}

func TestStepVelocity(t *testing.T) {
	t.Parallel()
	m := stepModel(t)

	tests := []struct {
		depth float64
		wave  phase.Wave
		want  float64
	}{
		{0, phase.WaveP, 5.8},
		{10, phase.WaveP, 5.8},
		{19.99, phase.WaveP, 5.8},
		{20, phase.WaveP, 6.5},
		{34.9, phase.WaveP, 6.5},
		{35, phase.WaveP, 8.0},
		{0, phase.WaveS, 3.36},
		{20, phase.WaveS, 3.9},
		{35, phase.WaveS, 4.5},
	}
	for _, tt := range tests {
		v, ok := m.VelocityAt(tt.depth, tt.wave)
		require.True(t, ok, "depth %g", tt.depth)
		assert.Equal(t, tt.want, v, "depth %g wave %s", tt.depth, tt.wave)
	}
}

func TestVelocityBelowModel(t *testing.T) {
	t.Parallel()
	m := stepModel(t)

	_, ok := m.VelocityAt(35.1, phase.WaveP)
	assert.False(t, ok)
	_, ok = m.VelocityAt(1000, phase.WaveS)
	assert.False(t, ok)
}

func TestLinearVelocity(t *testing.T) {
	t.Parallel()
	m, err := New("tvel", []Layer{
		{Depth: 0, Vp: 5.8, Vs: 3.36},
		{Depth: 10, Vp: 6.0, Vs: 3.5},
		{Depth: 30, Vp: 6.8, Vs: 3.9},
	}, InterpLinear)
	require.NoError(t, err)

	t.Run("exact at sample depths", func(t *testing.T) {
		t.Parallel()
		v, ok := m.VelocityAt(10, phase.WaveP)
		require.True(t, ok)
		assert.InDelta(t, 6.0, v, 1e-12)
	})

	t.Run("interpolates between samples", func(t *testing.T) {
		t.Parallel()
		v, ok := m.VelocityAt(5, phase.WaveP)
		require.True(t, ok)
		assert.InDelta(t, 5.9, v, 1e-12)

		v, ok = m.VelocityAt(20, phase.WaveS)
		require.True(t, ok)
		assert.InDelta(t, 3.7, v, 1e-12)
	})

	t.Run("boundary sample at the surface", func(t *testing.T) {
		t.Parallel()
		v, ok := m.VelocityAt(0, phase.WaveP)
		require.True(t, ok)
		assert.Equal(t, 5.8, v)
	})
}

func TestLinearVelocityZeroSentinel(t *testing.T) {
	t.Parallel()

	// A zero velocity at a clamped end means the profile carries no usable
	// data there, such as S in a fluid outer layer.
	m, err := New("fluid", []Layer{
		{Depth: 0, Vp: 1.5, Vs: 0},
		{Depth: 10, Vp: 5.0, Vs: 3.0},
	}, InterpLinear)
	require.NoError(t, err)

	_, ok := m.VelocityAt(0, phase.WaveS)
	assert.False(t, ok)

	v, ok := m.VelocityAt(10, phase.WaveS)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestLinearVelocityDiscontinuity(t *testing.T) {
	t.Parallel()

	m, err := New("moho", []Layer{
		{Depth: 0, Vp: 5.8, Vs: 3.36},
		{Depth: 20, Vp: 6.0, Vs: 3.5},
		{Depth: 20, Vp: 6.5, Vs: 3.8},
		{Depth: 30, Vp: 7.0, Vs: 4.0},
	}, InterpLinear)
	require.NoError(t, err)

	v, ok := m.VelocityAt(20, phase.WaveP)
	require.True(t, ok)
	assert.Equal(t, 6.0, v)

	v, ok = m.VelocityAt(25, phase.WaveP)
	require.True(t, ok)
	assert.InDelta(t, 6.75, v, 1e-12)
}
