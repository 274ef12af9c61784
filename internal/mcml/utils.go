package mcml

import "math"

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// clampBin truncates v toward zero and clamps it into [0, n-1].
func clampBin(v float64, n int) int {
	if !(v >= 0) {
		return 0
	}
	if v >= float64(n-1) {
		return n - 1
	}
	return int(v)
}
