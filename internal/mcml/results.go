package mcml

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Results are the raw (unscaled) accumulators of a run. All grids are flat
// row-major arrays:
//
//	ARz[ir*Nz+iz], RdRa[ir*Na+ia], TtRa[ir*Na+ia], RdX[ix], WTxz[(t*2*Nr+ix)*Nz+iz]
type Results struct {
	Nz, Nr, Na, Nt int

	ARz  []float64
	RdRa []float64
	TtRa []float64
	RdX  []float64
	WTxz []float64

	RdUnscattered float64
	TtUnscattered float64
}

// NewResults allocates zeroed accumulators for the given grid.
func NewResults(nz, nr, na, nt int) *Results {
	return &Results{
		Nz:   nz,
		Nr:   nr,
		Na:   na,
		Nt:   nt,
		ARz:  make([]float64, nr*nz),
		RdRa: make([]float64, nr*na),
		TtRa: make([]float64, nr*na),
		RdX:  make([]float64, 2*nr),
		WTxz: make([]float64, nt*2*nr*nz),
	}
}

func newResultsFor(cfg *RunConfig) *Results {
	return NewResults(cfg.Nz, cfg.Nr, cfg.Na, cfg.Nt)
}

// Reset zeroes every accumulator in place.
func (r *Results) Reset() {
	for _, s := range [][]float64{r.ARz, r.RdRa, r.TtRa, r.RdX, r.WTxz} {
		clear(s)
	}
	r.RdUnscattered, r.TtUnscattered = 0, 0
}

func (r *Results) sameShape(o *Results) bool {
	return r.Nz == o.Nz && r.Nr == o.Nr && r.Na == o.Na && r.Nt == o.Nt
}

// Merge adds o into r element-wise.
func (r *Results) Merge(o *Results) error {
	if !r.sameShape(o) {
		return fmt.Errorf("merge results: shape mismatch (nz,nr,na,nt)=(%d,%d,%d,%d) vs (%d,%d,%d,%d)",
			r.Nz, r.Nr, r.Na, r.Nt, o.Nz, o.Nr, o.Na, o.Nt)
	}
	floats.Add(r.ARz, o.ARz)
	floats.Add(r.RdRa, o.RdRa)
	floats.Add(r.TtRa, o.TtRa)
	floats.Add(r.RdX, o.RdX)
	floats.Add(r.WTxz, o.WTxz)
	r.RdUnscattered += o.RdUnscattered
	r.TtUnscattered += o.TtUnscattered
	return nil
}

// Clone returns a deep copy.
func (r *Results) Clone() *Results {
	cp := *r
	cp.ARz = slices.Clone(r.ARz)
	cp.RdRa = slices.Clone(r.RdRa)
	cp.TtRa = slices.Clone(r.TtRa)
	cp.RdX = slices.Clone(r.RdX)
	cp.WTxz = slices.Clone(r.WTxz)
	return &cp
}

func (r *Results) Absorbed() float64 { return floats.Sum(r.ARz) }
func (r *Results) DiffuseReflected() float64 { return floats.Sum(r.RdRa) }
func (r *Results) DiffuseTransmitted() float64 {
	return floats.Sum(r.TtRa)
}

// Total is the weight accounted for by absorption, reflection and
// transmission. For N launched photons it approaches N*(1-RSpecular).
func (r *Results) Total() float64 {
	return r.Absorbed() + r.DiffuseReflected() + r.RdUnscattered + r.DiffuseTransmitted() + r.TtUnscattered
}
