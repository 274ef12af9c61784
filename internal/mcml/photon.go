package mcml

import "math"

// medium is the photon's snapshot of its current layer, refreshed whenever
// the layer index changes.
type medium struct {
	mua, mus, g float64
	z0, z1      float64
}

func (m *medium) glass() bool  { return m.mua == 0 && m.mus == 0 }
func (m *medium) mut() float64 { return m.mua + m.mus }

// Photon is the mutable state of one packet trajectory.
type Photon struct {
	X, Y, Z float64
	R       float64 // sqrt(x^2+y^2), refreshed on every hop

	Ux, Uy, Uz float64

	Weight   float64
	Step     float64 // current step length [cm]
	StepLeft float64 // unconsumed dimensionless optical depth after a boundary split

	Layer    int
	Dead     bool
	Scatters int

	medium medium
}

// setLayer moves the photon to layer i and refreshes its medium snapshot.
func (p *Photon) setLayer(layers []Layer, i int) {
	l := &layers[i]
	p.Layer = i
	p.medium = medium{mua: l.Mua, mus: l.Mus, g: l.G, z0: l.Z0, z1: l.Z1}
}

// hop moves the photon by its current step along its direction.
func (p *Photon) hop() {
	s := p.Step
	p.X += s * p.Ux
	p.Y += s * p.Uy
	p.Z += s * p.Uz
	p.R = math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// distToBoundary returns the path length to the face the photon is heading
// to, or 0 when it travels horizontally.
func (p *Photon) distToBoundary() float64 {
	switch {
	case p.Uz > 0:
		return (p.medium.z1 - p.Z) / p.Uz
	case p.Uz < 0:
		return (p.medium.z0 - p.Z) / p.Uz
	}
	return 0
}
