package mcml

import "math"

// tracer runs photon trajectories against one finalized configuration,
// drawing from one random stream and depositing into one set of results.
type tracer struct {
	cfg *RunConfig
	rng Rand
	res *Results
}

// launch initializes p at the origin, refracted into the first internal layer.
func (t *tracer) launch(p *Photon) {
	layers := t.cfg.Layers
	*p = Photon{Weight: 1 - t.cfg.RSpecular}

	nRel := layers[1].N / layers[0].N
	alphat := math.Asin(math.Sin(t.cfg.Alpha*math.Pi/180) / nRel)
	p.Ux = math.Sin(alphat)
	p.Uz = math.Cos(alphat)

	p.setLayer(layers, 1)
}

// spin scatters p into a new direction sampled with the anisotropy g.
func (t *tracer) spin(p *Photon, g float64) {
	ux, uy, uz := p.Ux, p.Uy, p.Uz

	cost := spinTheta(g, t.rng)
	sint := math.Sqrt(1 - cost*cost)
	cosp, sinp := spinPsi(t.rng)

	if math.Abs(uz) > cosZero {
		p.Ux = sint * cosp
		p.Uy = sint * sinp
		p.Uz = cost * math.Copysign(1, uz)
	} else {
		temp := math.Sqrt(1 - uz*uz)
		p.Ux = sint*(ux*uz*cosp-uy*sinp)/temp + ux*cost
		p.Uy = sint*(uy*uz*cosp+ux*sinp)/temp + uy*cost
		p.Uz = -sint*cosp*temp + uz*cost
	}
	p.Scatters++
}

// stepSizeInGlass sets the step to the exact distance to the next boundary.
// The caller guarantees uz != 0.
func (t *tracer) stepSizeInGlass(p *Photon) {
	p.Step = p.distToBoundary()
}

// stepSizeInTissue draws a fresh exponential step or resumes the optical
// depth left over from a boundary split.
func (t *tracer) stepSizeInTissue(p *Photon) {
	mut := p.medium.mut()
	if p.StepLeft == 0 {
		p.Step = -math.Log(uniformNonZero(t.rng)) / mut
		return
	}
	p.Step = p.StepLeft / mut
	p.StepLeft = 0
}

// hitBoundary truncates the step at the boundary when it would cross it and
// keeps the remainder as dimensionless optical depth.
func (t *tracer) hitBoundary(p *Photon) bool {
	dlB := p.distToBoundary()
	if p.Uz != 0 && p.Step > dlB {
		p.StepLeft = (p.Step - dlB) * p.medium.mut()
		p.Step = dlB
		return true
	}
	return false
}

// drop deposits the absorbed fraction of the weight into A_rz.
func (t *tracer) drop(p *Photon) {
	c := t.cfg
	iz := clampBin(p.Z/c.Dz, c.Nz)
	ir := clampBin(p.R/c.Dr, c.Nr)

	dwa := p.Weight * p.medium.mua / p.medium.mut()
	p.Weight -= dwa
	t.res.ARz[ir*c.Nz+iz] += dwa
}

// roulette gives a low-weight photon a chance to survive with boosted weight.
func (t *tracer) roulette(p *Photon) {
	switch {
	case p.Weight == 0:
		p.Dead = true
	case t.rng.Float64() < t.cfg.Chance:
		p.Weight /= t.cfg.Chance
	default:
		p.Dead = true
	}
}

// rfresnel returns the unpolarized Fresnel reflectance for light going from
// index n1 into n2 with incidence cosine ca1 > 0, and the cosine of the
// transmission angle.
func rfresnel(n1, n2, ca1 float64) (r, ca2 float64) {
	switch {
	case n1 == n2:
		return 0, ca1
	case ca1 > cosZero:
		r = (n2 - n1) / (n2 + n1)
		return r * r, ca1
	case ca1 < cos90D:
		return 1, 0
	}

	sa1 := math.Sqrt(1 - ca1*ca1)
	sa2 := n1 * sa1 / n2
	if sa2 >= 1 {
		return 1, 0
	}

	ca2 = math.Sqrt(1 - sa2*sa2)
	cosSum := ca1*ca2 - sa1*sa2
	cosDiff := ca1*ca2 + sa1*sa2
	sinSum := sa1*ca2 + ca1*sa2
	sinDiff := sa1*ca2 - ca1*sa2
	r = 0.5 * sinDiff * sinDiff * (cosDiff*cosDiff + cosSum*cosSum) / (sinSum * sinSum * cosDiff * cosDiff)
	return r, ca2
}

// rdXBin maps signed x onto the 2*nr axial reflectance profile, clamped.
func rdXBin(x, dr float64, nr int) int {
	v := math.Round(x/dr) + float64(nr)
	if !(v >= 0) {
		return 0
	}
	if v > float64(2*nr-1) {
		return 2*nr - 1
	}
	return int(v)
}

// recordR books the weight of a photon leaving through the top surface and
// terminates it.
func (t *tracer) recordR(p *Photon) {
	c := t.cfg
	ir := clampBin(p.R/c.Dr, c.Nr)
	ia := clampBin(math.Acos(-p.Uz)/c.Da, c.Na)

	if p.Scatters > 0 {
		t.res.RdRa[ir*c.Na+ia] += p.Weight
		t.res.RdX[rdXBin(p.X, c.Dr, c.Nr)] += p.Weight
	} else {
		t.res.RdUnscattered += p.Weight
	}
	p.Weight = 0
	p.Dead = true
}

// recordT books the weight of a photon leaving through the bottom surface and
// terminates it.
func (t *tracer) recordT(p *Photon) {
	c := t.cfg
	ir := clampBin(p.R/c.Dr, c.Nr)
	ia := clampBin(math.Acos(p.Uz)/c.Da, c.Na)

	if p.Scatters > 0 {
		t.res.TtRa[ir*c.Na+ia] += p.Weight
	} else {
		t.res.TtUnscattered += p.Weight
	}
	p.Weight = 0
	p.Dead = true
}

// crossUpOrNot decides reflection or transmission at the top face (uz < 0).
func (t *tracer) crossUpOrNot(p *Photon) {
	layers := t.cfg.Layers
	uz := p.Uz
	layer := p.Layer
	ni := layers[layer].N
	nt := layers[layer-1].N

	if -uz <= layers[layer].CosCrit0 {
		p.Uz = -uz
		return
	}
	r, uz1 := rfresnel(ni, nt, -uz)
	if t.rng.Float64() <= r {
		p.Uz = -uz
		return
	}
	if layer == 1 {
		p.Uz = -uz1
		t.recordR(p)
		return
	}
	p.setLayer(layers, layer-1)
	p.Ux *= ni / nt
	p.Uy *= ni / nt
	p.Uz = -uz1
}

// crossDnOrNot decides reflection or transmission at the bottom face (uz > 0).
func (t *tracer) crossDnOrNot(p *Photon) {
	layers := t.cfg.Layers
	uz := p.Uz
	layer := p.Layer
	ni := layers[layer].N
	nt := layers[layer+1].N

	if uz <= layers[layer].CosCrit1 {
		p.Uz = -uz
		return
	}
	r, uz1 := rfresnel(ni, nt, uz)
	if t.rng.Float64() <= r {
		p.Uz = -uz
		return
	}
	if layer == len(layers)-2 {
		p.Uz = uz1
		t.recordT(p)
		return
	}
	p.setLayer(layers, layer+1)
	p.Ux *= ni / nt
	p.Uy *= ni / nt
	p.Uz = uz1
}

func (t *tracer) crossOrNot(p *Photon) {
	if p.Uz < 0 {
		t.crossUpOrNot(p)
	} else {
		t.crossDnOrNot(p)
	}
}

// hopInGlass moves p straight to the next boundary of a non-scattering
// layer. A horizontal photon never reaches one and is killed.
func (t *tracer) hopInGlass(p *Photon) {
	if p.Uz == 0 {
		DebugLogOnce("photon parallel to glass layer %d killed", p.Layer)
		p.Dead = true
		return
	}
	t.stepSizeInGlass(p)
	p.hop()
	t.crossOrNot(p)
}

// hopDropSpinInTissue moves p one interaction step. A step reaching a
// boundary stops there and the remainder is resumed after the crossing
// decision.
func (t *tracer) hopDropSpinInTissue(p *Photon) {
	t.stepSizeInTissue(p)

	if t.hitBoundary(p) {
		p.hop()
		t.crossOrNot(p)
		return
	}
	p.hop()
	t.drop(p)
	t.spin(p, p.medium.g)
}

// hopDropSpin advances p by one step in its current medium and plays
// roulette when its weight fell below the threshold.
func (t *tracer) hopDropSpin(p *Photon) {
	if p.medium.glass() {
		t.hopInGlass(p)
	} else {
		t.hopDropSpinInTissue(p)
	}

	if p.Weight < t.cfg.Wth && !p.Dead {
		t.roulette(p)
	}
}

// depositTick adds the weight of a live photon to the time-resolved grid.
// Positions outside the grid are skipped.
func (t *tracer) depositTick(p *Photon, tick int) {
	c := t.cfg
	ix := math.Round(p.X/c.Dr) + float64(c.Nr)
	iz := math.Floor(p.Z / c.Dz)
	if !(ix >= 0) || ix >= float64(2*c.Nr) || !(iz >= 0) || iz >= float64(c.Nz) {
		return
	}
	t.res.WTxz[(tick*2*c.Nr+int(ix))*c.Nz+int(iz)] += p.Weight
}

// trace runs one photon from launch until it is dead.
func (t *tracer) trace(p *Photon) {
	t.launch(p)
	for tick := 0; !p.Dead; tick++ {
		t.hopDropSpin(p)
		if tick < t.cfg.Nt && !p.Dead {
			t.depositTick(p, tick)
		}
	}
}
