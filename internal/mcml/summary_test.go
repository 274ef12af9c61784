package mcml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoLayerConfig(t *testing.T) RunConfig {
	cfg := RunConfig{
		Dz: 0.1, Dr: 0.1, Da: math.Pi / 4,
		Nz: 2, Nr: 2, Na: 2,
		Wth: DefaultWeightThreshold, Chance: DefaultChance,
		Layers: []Layer{
			NewLayer(1, 0, 0, 0, 0),
			NewLayer(1.4, 2, 10, 0.9, 0.1),
			NewLayer(1.4, 0, 10, 0.9, 0.1),
			NewLayer(1, 0, 0, 0, 0),
		},
	}
	return finalized(t, cfg)
}

func TestSummarizeScaling(t *testing.T) {
	cfg := twoLayerConfig(t)
	const n = 10
	res := NewResults(cfg.Nz, cfg.Nr, cfg.Na, 0)
	// ARz[ir][iz]
	res.ARz[0*2+0] = 1
	res.ARz[0*2+1] = 2
	res.ARz[1*2+0] = 3
	res.RdRa[0*2+1] = 4
	res.TtRa[1*2+0] = 5
	res.RdUnscattered = 0.5
	res.TtUnscattered = 1.5

	s := Summarize(&cfg, res, n)
	dz, dr, da := cfg.Dz, cfg.Dr, cfg.Da

	assert.InDelta(t, 0.6, s.A, 1e-12)
	assert.InDelta(t, 0.4, s.Rd, 1e-12)
	assert.InDelta(t, 0.5, s.Tt, 1e-12)
	assert.InDelta(t, 0.05, s.RdUnscattered, 1e-12)
	assert.InDelta(t, 0.15, s.TtUnscattered, 1e-12)
	assert.InDelta(t, cfg.RSpecular+0.45, s.TotalReflectance(), 1e-12)
	assert.InDelta(t, 0.65, s.TotalTransmittance(), 1e-12)

	// depth bin 0 lies in layer 1 and bin 1 in layer 2
	require.Len(t, s.Al, 2)
	assert.InDelta(t, 0.4, s.Al[0], 1e-12)
	assert.InDelta(t, 0.2, s.Al[1], 1e-12)
	assert.InDelta(t, 4/(dz*n), s.Az[0], 1e-9)
	assert.InDelta(t, 2/(dz*n), s.Az[1], 1e-9)
	assert.InDelta(t, s.Az[0]/2, s.Fluence[0], 1e-9)
	assert.Equal(t, 0.0, s.Fluence[1])

	assert.InDelta(t, 3/(1.5*2*math.Pi*dr*dr*dz*n), s.ARz[1*2+0], 1e-9)
	assert.InDelta(t, 4/(0.5*2*math.Pi*dr*dr*n), s.Rdr[0], 1e-9)
	assert.InDelta(t, 4/(math.Sin(1.5*da)*2*math.Pi*da*n), s.Rda[1], 1e-9)
	assert.InDelta(t, 5/(1.5*2*math.Pi*dr*dr*n), s.Ttr[1], 1e-9)

	scale := 4 * math.Pi * math.Pi * dr * dr * math.Sin(da/2) * n
	assert.InDelta(t, 4/(0.5*math.Sin(2*1.5*da)*scale), s.RdRa[0*2+1], 1e-9)

	// raw results are untouched
	assert.Equal(t, 3.0, res.ARz[2])
}

func TestSummarizeZeroPhotons(t *testing.T) {
	cfg := twoLayerConfig(t)
	s := Summarize(&cfg, NewResults(cfg.Nz, cfg.Nr, cfg.Na, 0), 0)
	assert.Equal(t, 0, s.Photons)
	assert.Equal(t, 0.0, s.A)
	for _, v := range s.Az {
		assert.False(t, math.IsNaN(v))
	}
}

func TestSummarizeConservesWeight(t *testing.T) {
	cfg := finalized(t, slabConfig(1, 1.37, 1, 10, 0.9, 0.1))
	const n = 3000
	s, err := NewSimulationFromConfig(cfg, 4)
	require.NoError(t, err)
	require.NoError(t, s.LaunchPhotons(n))

	sum := Summarize(&cfg, s.Results(), n)
	total := sum.TotalReflectance() + sum.A + sum.TotalTransmittance()
	assert.InDelta(t, 1, total, 2e-3)
	assert.InDelta(t, sum.A, sum.Al[0], 1e-12)
}
