package mcml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Frame returns tick t of the time-resolved grid as a [ix][iz] slice of
// 2*Nr rows by Nz columns. The slice aliases r.WTxz.
func (r *Results) Frame(t int) []float64 {
	n := 2 * r.Nr * r.Nz
	return r.WTxz[t*n : (t+1)*n]
}

func (r *Results) checkFrames() error {
	if r.Nt <= 0 {
		return fmt.Errorf("no time-resolved data (nt=%d)", r.Nt)
	}
	if want := r.Nt * 2 * r.Nr * r.Nz; len(r.WTxz) != want {
		return fmt.Errorf("w_txz length mismatch: got %d, expected %d (nt*2nr*nz)", len(r.WTxz), want)
	}
	return nil
}

// frameScale returns 1/max of a frame, or 1 for an empty frame.
func frameScale(frame []float64) float64 {
	m := floats.Max(frame)
	if !(m > 0) {
		return 1
	}
	return 1 / m
}

// level maps v*scale into [0,1] with gamma applied.
func level(v, scale, gamma float64) float64 {
	if !(v > 0) {
		return 0
	}
	n := v * scale
	if n > 1 {
		n = 1
	}
	if gamma != 1 {
		n = math.Pow(n, 1/gamma)
	}
	return n
}

// progressStep is the frame interval between progress lines (~1%).
func progressStep(frames int) int {
	return max(1, frames/ProgressSteps)
}
