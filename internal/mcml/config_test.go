package mcml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(c *RunConfig){
		"dz":             func(c *RunConfig) { c.Dz = 0 },
		"nr":             func(c *RunConfig) { c.Nr = 0 },
		"nt":             func(c *RunConfig) { c.Nt = -1 },
		"chance zero":    func(c *RunConfig) { c.Chance = 0 },
		"chance > 1":     func(c *RunConfig) { c.Chance = 1.5 },
		"alpha 90":       func(c *RunConfig) { c.Alpha = 90 },
		"alpha negative": func(c *RunConfig) { c.Alpha = -1 },
		"too few layers": func(c *RunConfig) { c.Layers = c.Layers[:2] },
		"index":          func(c *RunConfig) { c.Layers[1].N = 0 },
		"ambient turbid": func(c *RunConfig) { c.Layers[0].Mus = 1 },
		"mua":            func(c *RunConfig) { c.Layers[1].Mua = -1 },
		"g":              func(c *RunConfig) { c.Layers[1].G = 1.1 },
		"thickness":      func(c *RunConfig) { c.Layers[1].D = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := slabConfig(1, 1.37, 1, 10, 0.9, 0.1)
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
	cfg := slabConfig(1, 1.37, 1, 10, 0.9, 0.1)
	assert.NoError(t, cfg.Validate())
}

func TestFinalize(t *testing.T) {
	cfg := slabConfig(1, 1.5, 1, 10, 0.9, 0.2)
	require.NoError(t, cfg.Finalize())
	assert.InDelta(t, 0.04, cfg.RSpecular, 1e-15)
	assert.Equal(t, 0.2, cfg.Layers[1].Z1)
	assert.Equal(t, 0.2, cfg.Layers[2].Z0)
	assert.InDelta(t, 0.2, cfg.Thickness(), 1e-15)
}

func TestFinalizeEvanescentLaunch(t *testing.T) {
	cfg := slabConfig(1.5, 1, 1, 10, 0.9, 0.2)
	cfg.Alpha = 60
	assert.ErrorIs(t, cfg.Finalize(), ErrEvanescentLaunch)

	cfg.Alpha = 30
	assert.NoError(t, cfg.Finalize())
}

func TestCloneDetachesLayers(t *testing.T) {
	cfg := slabConfig(1, 1.5, 1, 10, 0.9, 0.2)
	cp := cfg.Clone()
	cp.Layers[1].Mua = 5
	assert.Equal(t, 1.0, cfg.Layers[1].Mua)
}
