package mcml

import (
	"fmt"
	"math"
)

// RunConfig is the read-only description of a run once finalized.
type RunConfig struct {
	Dz, Dr, Da float64
	Nz, Nr, Na int
	Nt         int // time ticks recorded in w_txz; 0 disables it

	Wth    float64 // roulette weight threshold
	Chance float64 // roulette survival probability
	Alpha  float64 // incident angle in degrees

	Layers []Layer

	RSpecular float64
}

// Clone returns a deep copy so workers never share the layer slice.
func (c *RunConfig) Clone() RunConfig {
	cp := *c
	cp.Layers = append([]Layer(nil), c.Layers...)
	return cp
}

// Thickness is the total depth of the internal layers.
func (c *RunConfig) Thickness() float64 {
	t := 0.0
	for i := 1; i < len(c.Layers)-1; i++ {
		t += c.Layers[i].D
	}
	return t
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks grid, roulette and layer invariants.
func (c *RunConfig) Validate() error {
	switch {
	case !(c.Dz > 0) || !(c.Dr > 0) || !(c.Da > 0):
		return invalid("grid steps must be > 0 (dz=%g dr=%g da=%g)", c.Dz, c.Dr, c.Da)
	case c.Nz < 1 || c.Nr < 1 || c.Na < 1:
		return invalid("grid extents must be >= 1 (nz=%d nr=%d na=%d)", c.Nz, c.Nr, c.Na)
	case c.Nt < 0:
		return invalid("nt must be >= 0, got %d", c.Nt)
	case !(c.Wth >= 0):
		return invalid("weight threshold must be >= 0, got %g", c.Wth)
	case !(c.Chance > 0) || c.Chance > 1:
		return invalid("survival chance must be in (0,1], got %g", c.Chance)
	case !(c.Alpha >= 0) || c.Alpha >= 90:
		return invalid("incident angle must be in [0,90) degrees, got %g", c.Alpha)
	case len(c.Layers) < 3:
		return invalid("need at least 3 layers (2 ambient + 1), got %d", len(c.Layers))
	}
	last := len(c.Layers) - 1
	for i := range c.Layers {
		l := &c.Layers[i]
		if !(l.N > 0) || !isFinite(l.N) {
			return invalid("layer %d: refractive index must be > 0, got %g", i, l.N)
		}
		if i == 0 || i == last {
			if !l.Glass() {
				return invalid("layer %d: ambient layer must have mua=mus=0", i)
			}
			continue
		}
		if !(l.Mua >= 0) || !(l.Mus >= 0) || !isFinite(l.Mua) || !isFinite(l.Mus) {
			return invalid("layer %d: mua, mus must be >= 0 (mua=%g mus=%g)", i, l.Mua, l.Mus)
		}
		if !(l.G >= -1) || l.G > 1 {
			return invalid("layer %d: anisotropy must be in [-1,1], got %g", i, l.G)
		}
		if !(l.D > 0) || !isFinite(l.D) {
			return invalid("layer %d: thickness must be > 0, got %g", i, l.D)
		}
	}
	return nil
}

// Finalize validates the configuration and derives boundaries, critical
// cosines and the specular reflectance. It must be re-run after any layer
// mutation.
func (c *RunConfig) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	updateLayerBoundaries(c.Layers)
	updateCosCrit(c.Layers)
	c.RSpecular = calculateRSpecular(c.Layers)

	if s := math.Sin(c.Alpha*math.Pi/180) * c.Layers[0].N / c.Layers[1].N; s >= 1 {
		return fmt.Errorf("%w: alpha=%g n0=%g n1=%g", ErrEvanescentLaunch, c.Alpha, c.Layers[0].N, c.Layers[1].N)
	}
	DebugLog("Finalized run: %d layers, thickness=%g, rsp=%.6f, grid=(nz=%d nr=%d na=%d nt=%d)",
		len(c.Layers)-2, c.Thickness(), c.RSpecular, c.Nz, c.Nr, c.Na, c.Nt)
	return nil
}
