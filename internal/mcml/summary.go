package mcml

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Summary holds the scaled physical quantities of a finished run. Grids use
// the same flat layouts as Results.
type Summary struct {
	Photons int

	RSpecular     float64
	Rd            float64 // diffuse reflectance
	RdUnscattered float64
	A             float64
	Tt            float64 // diffuse transmittance
	TtUnscattered float64

	Al      []float64 // per internal layer [-]
	Az      []float64 // [1/cm]
	Fluence []float64 // [1/cm2]
	Rdr     []float64 // [1/cm2]
	Rda     []float64 // [1/sr]
	Ttr     []float64 // [1/cm2]
	Tta     []float64 // [1/sr]

	ARz  []float64 // [1/cm3]
	RdRa []float64 // [1/(cm2 sr)]
	TtRa []float64 // [1/(cm2 sr)]
}

// TotalReflectance is specular plus all diffusely reflected weight.
func (s *Summary) TotalReflectance() float64 { return s.RSpecular + s.Rd + s.RdUnscattered }

// TotalTransmittance is the diffuse plus the unscattered transmittance.
func (s *Summary) TotalTransmittance() float64 { return s.Tt + s.TtUnscattered }

// sumRA collapses an [ir][ia] grid into radial and angular profiles.
func sumRA(grid []float64, nr, na int) (byR, byA []float64, total float64) {
	byR = make([]float64, nr)
	byA = make([]float64, na)
	for ir := 0; ir < nr; ir++ {
		row := grid[ir*na : (ir+1)*na]
		byR[ir] = floats.Sum(row)
		floats.Add(byA, row)
	}
	return byR, byA, floats.Sum(byR)
}

// izLayer maps a depth bin to the internal layer containing its centre.
func izLayer(cfg *RunConfig, iz int) int {
	return layerOfDepth(cfg.Layers, (float64(iz)+0.5)*cfg.Dz)
}

// Summarize scales raw accumulators by the photon count and grid geometry.
// cfg must be finalized.
func Summarize(cfg *RunConfig, res *Results, photons int) *Summary {
	nz, nr, na := cfg.Nz, cfg.Nr, cfg.Na
	dz, dr, da := cfg.Dz, cfg.Dr, cfg.Da
	n := float64(photons)
	if photons <= 0 {
		n = 1
	}

	s := &Summary{
		Photons:       photons,
		RSpecular:     cfg.RSpecular,
		RdUnscattered: res.RdUnscattered / n,
		TtUnscattered: res.TtUnscattered / n,
		ARz:           append([]float64(nil), res.ARz...),
		RdRa:          append([]float64(nil), res.RdRa...),
		TtRa:          append([]float64(nil), res.TtRa...),
	}
	s.Rdr, s.Rda, s.Rd = sumRA(res.RdRa, nr, na)
	s.Ttr, s.Tta, s.Tt = sumRA(res.TtRa, nr, na)

	s.Az = make([]float64, nz)
	s.Al = make([]float64, len(cfg.Layers)-2)
	for ir := 0; ir < nr; ir++ {
		floats.Add(s.Az, res.ARz[ir*nz:(ir+1)*nz])
	}
	for iz, v := range s.Az {
		s.Al[izLayer(cfg, iz)-1] += v
	}
	s.A = floats.Sum(s.Az)

	scale1 := 4 * math.Pi * math.Pi * dr * dr * math.Sin(da/2) * n
	for ir := 0; ir < nr; ir++ {
		for ia := 0; ia < na; ia++ {
			scale2 := 1 / ((float64(ir) + 0.5) * math.Sin(2*(float64(ia)+0.5)*da) * scale1)
			s.RdRa[ir*na+ia] *= scale2
			s.TtRa[ir*na+ia] *= scale2
		}
	}

	scale1 = 2 * math.Pi * dr * dr * n
	for ir := 0; ir < nr; ir++ {
		scale2 := 1 / ((float64(ir) + 0.5) * scale1)
		s.Rdr[ir] *= scale2
		s.Ttr[ir] *= scale2
	}

	scale1 = 2 * math.Pi * da * n
	for ia := 0; ia < na; ia++ {
		scale2 := 1 / (math.Sin((float64(ia)+0.5)*da) * scale1)
		s.Rda[ia] *= scale2
		s.Tta[ia] *= scale2
	}

	scale1 = 2 * math.Pi * dr * dr * dz * n
	for ir := 0; ir < nr; ir++ {
		floats.Scale(1/((float64(ir)+0.5)*scale1), s.ARz[ir*nz:(ir+1)*nz])
	}
	floats.Scale(1/(dz*n), s.Az)
	floats.Scale(1/n, s.Al)
	s.Rd /= n
	s.Tt /= n
	s.A /= n

	s.Fluence = make([]float64, nz)
	for iz := range s.Fluence {
		if mua := cfg.Layers[izLayer(cfg, iz)].Mua; mua > 0 {
			s.Fluence[iz] = s.Az[iz] / mua
		}
	}
	return s
}
