package mcml

import "math"

// Layer is one plane-parallel slab of the medium. Z0/Z1 and the critical
// cosines are derived by RunConfig.Finalize and must not be set by callers.
type Layer struct {
	N   float64 `json:"n" yaml:"n"`
	Mua float64 `json:"mua" yaml:"mua"`
	Mus float64 `json:"mus" yaml:"mus"`
	G   float64 `json:"g" yaml:"g"`
	D   float64 `json:"d" yaml:"d"`

	Z0, Z1   float64 `json:"-" yaml:"-"`
	CosCrit0 float64 `json:"-" yaml:"-"` // against the layer above
	CosCrit1 float64 `json:"-" yaml:"-"` // against the layer below
}

func NewLayer(n, mua, mus, g, d float64) Layer {
	return Layer{N: n, Mua: mua, Mus: mus, G: g, D: d}
}

// Glass reports whether the layer neither absorbs nor scatters.
func (l *Layer) Glass() bool { return l.Mua == 0 && l.Mus == 0 }

// Mut is the interaction coefficient mua+mus.
func (l *Layer) Mut() float64 { return l.Mua + l.Mus }

// updateLayerBoundaries assigns contiguous [z0,z1) extents to the internal
// layers starting at z=0. The top ambient collapses onto z=0 and the bottom
// ambient onto the total thickness.
func updateLayerBoundaries(layers []Layer) {
	z := 0.0
	last := len(layers) - 1
	for i := range layers {
		l := &layers[i]
		if i == 0 || i == last {
			l.Z0, l.Z1 = z, z
			continue
		}
		l.Z0 = z
		l.Z1 = z + l.D
		z = l.Z1
	}
}

func cosCrit(n, nNeighbor float64) float64 {
	if n > nNeighbor {
		return math.Sqrt(1 - nNeighbor*nNeighbor/(n*n))
	}
	return 0
}

func updateCosCrit(layers []Layer) {
	for i := 1; i < len(layers)-1; i++ {
		l := &layers[i]
		l.CosCrit0 = cosCrit(l.N, layers[i-1].N)
		l.CosCrit1 = cosCrit(l.N, layers[i+1].N)
	}
}

// calculateRSpecular returns the specular reflectance of the stack at normal
// incidence. A glass first layer adds its multiple internal reflections.
func calculateRSpecular(layers []Layer) float64 {
	temp := (layers[0].N - layers[1].N) / (layers[0].N + layers[1].N)
	r1 := temp * temp

	if layers[1].Glass() {
		temp = (layers[1].N - layers[2].N) / (layers[1].N + layers[2].N)
		r2 := temp * temp
		r1 += (1 - r1) * (1 - r1) * r2 / (1 - r1*r2)
	}
	return r1
}

// layerOfDepth returns the internal layer containing depth z, clamped to
// the first/last internal layer.
func layerOfDepth(layers []Layer, z float64) int {
	i := 1
	for i < len(layers)-2 && z >= layers[i].Z1 {
		i++
	}
	return i
}
