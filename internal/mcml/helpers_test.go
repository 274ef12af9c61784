package mcml

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// seqRand replays a fixed sequence of draws, cycling when exhausted.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

// ksStatistic returns the Kolmogorov-Smirnov distance between samples and
// the cdf.
func ksStatistic(samples []float64, cdf func(float64) float64) float64 {
	xs := append([]float64(nil), samples...)
	sort.Float64s(xs)
	n := float64(len(xs))
	d := 0.0
	for i, x := range xs {
		f := cdf(x)
		d = math.Max(d, math.Max(math.Abs(float64(i+1)/n-f), math.Abs(f-float64(i)/n)))
	}
	return d
}

// slabConfig is one turbid layer between two ambient media.
func slabConfig(nAmb, n, mua, mus, g, d float64) RunConfig {
	return RunConfig{
		Dz: 0.01, Dr: 0.01, Da: math.Pi / 2 / 30,
		Nz: 40, Nr: 50, Na: 30,
		Wth: DefaultWeightThreshold, Chance: DefaultChance,
		Layers: []Layer{
			NewLayer(nAmb, 0, 0, 0, 0),
			NewLayer(n, mua, mus, g, d),
			NewLayer(nAmb, 0, 0, 0, 0),
		},
	}
}

func finalized(t *testing.T, cfg RunConfig) RunConfig {
	t.Helper()
	require.NoError(t, cfg.Finalize())
	return cfg
}
