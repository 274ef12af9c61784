package mcml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationLifecycle(t *testing.T) {
	s := NewSimulation()
	assert.ErrorIs(t, s.Initialize(), ErrNotConfigured)
	assert.ErrorIs(t, s.LaunchPhoton(), ErrNotInitialized)

	require.Error(t, s.ConfigureRun(0.01, 0.01, 0.05, 0, 10, 10, 0, 1e-4, 0.1))
	require.NoError(t, s.ConfigureRun(0.01, 0.01, 0.05, 20, 10, 10, 3, 1e-4, 0.1))

	s.AddLayer(1, 0, 0, 0, 0)
	s.AddLayer(1.37, 1, 10, 0.9, 0.1)
	assert.ErrorIs(t, s.Initialize(), ErrInvalidConfig)

	s.AddLayer(1, 0, 0, 0, 0)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.LaunchPhoton())
	require.NoError(t, s.LaunchPhotons(99))
	assert.Equal(t, 100, s.Launched())
	assert.Len(t, s.WTxz(), 3*2*10*20)
	assert.Greater(t, s.Results().Total(), 0.0)

	// adding a layer invalidates the run until it is initialized again
	s.ClearLayers()
	assert.ErrorIs(t, s.LaunchPhoton(), ErrNotInitialized)
	s.AddLayer(1, 0, 0, 0, 0)
	s.AddLayer(1.37, 1, 10, 0.9, 0.1)
	s.AddLayer(1, 0, 0, 0, 0)
	require.NoError(t, s.Initialize())
	assert.Equal(t, 0, s.Launched())
	assert.Equal(t, 0.0, s.Results().Total())
}

func TestSimulationGettersCopy(t *testing.T) {
	s, err := NewSimulationFromConfig(slabConfig(1, 1.37, 1, 10, 0.9, 0.1), 1)
	require.NoError(t, err)
	require.NoError(t, s.LaunchPhotons(100))

	a := s.ARz()
	a[0] = -1
	assert.NotEqual(t, -1.0, s.ARz()[0])

	cfg := s.Config()
	cfg.Layers[1].Mua = 42
	assert.Equal(t, 1.0, s.Config().Layers[1].Mua)
	assert.Len(t, s.RdRa(), 50*30)
	assert.Len(t, s.TtRa(), 50*30)
	assert.Len(t, s.RdX(), 100)
}

func TestSimulationSeedReproducible(t *testing.T) {
	run := func(seed uint64) *Results {
		s, err := NewSimulationFromConfig(slabConfig(1, 1.37, 1, 10, 0.9, 0.1), seed)
		require.NoError(t, err)
		require.NoError(t, s.LaunchPhotons(500))
		return s.Results()
	}
	assert.Equal(t, run(5), run(5))
	assert.NotEqual(t, run(5).ARz, run(6).ARz)
}

func TestIncidentAngleDepositsOffAxis(t *testing.T) {
	cfg := slabConfig(1, 1, 1, 0, 0, 10)
	cfg.Alpha = 45
	s, err := NewSimulationFromConfig(cfg, 2)
	require.NoError(t, err)
	require.NoError(t, s.LaunchPhotons(2000))

	offAxis := 0.0
	res := s.Results()
	for ir := 1; ir < res.Nr; ir++ {
		for iz := 0; iz < res.Nz; iz++ {
			offAxis += res.ARz[ir*res.Nz+iz]
		}
	}
	assert.Greater(t, offAxis, 0.0)
}

func TestLaunchPhotonsRejectsNegative(t *testing.T) {
	s, err := NewSimulationFromConfig(slabConfig(1, 1.37, 1, 10, 0.9, 0.1), 1)
	require.NoError(t, err)
	require.NoError(t, s.LaunchPhotons(10))

	assert.ErrorIs(t, s.LaunchPhotons(-5), ErrInvalidConfig)
	assert.Equal(t, 10, s.Launched())
	require.NoError(t, s.LaunchPhotons(0))
	assert.Equal(t, 10, s.Launched())
}

func TestResultsCloneKeepsEmptyTimeGrid(t *testing.T) {
	r := NewResults(4, 3, 2, 0)
	require.NotNil(t, r.WTxz)
	cp := r.Clone()
	assert.NotNil(t, cp.WTxz)
	assert.Empty(t, cp.WTxz)
	assert.Equal(t, r, cp)

	cp.ARz[0] = 1
	assert.Equal(t, 0.0, r.ARz[0])
}
