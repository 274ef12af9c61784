package mcml

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mathext/prng"
)

// Rand is a source of uniform draws in [0,1).
type Rand interface {
	Float64() float64
}

// mtRand is a re-seedable 64-bit Mersenne Twister stream.
type mtRand struct {
	src *prng.MT19937_64
	*rand.Rand
}

func newMTRand(seed uint64) *mtRand {
	src := prng.NewMT19937_64()
	src.Seed(seed)
	return &mtRand{src: src, Rand: rand.New(src)}
}

func (m *mtRand) Seed(seed uint64) { m.src.Seed(seed) }

// uniformNonZero draws from (0,1); a zero draw is discarded.
func uniformNonZero(rng Rand) float64 {
	u := rng.Float64()
	for u <= 0 {
		u = rng.Float64()
	}
	return u
}

// spinTheta samples the cosine of the polar deflection angle for anisotropy
// g: uniform for g == 0, Henyey-Greenstein otherwise.
func spinTheta(g float64, rng Rand) float64 {
	u := rng.Float64()
	if g == 0 {
		return 2*u - 1
	}
	temp := (1 - g*g) / (1 - g + 2*g*u)
	cost := (1 + g*g - temp*temp) / (2 * g)
	if cost < -1 {
		return -1
	}
	if cost > 1 {
		return 1
	}
	return cost
}

// spinPsi samples the azimuthal angle uniformly in [0,2pi) and returns its
// cosine and sine. The sine comes from sqrt with the sign chosen by half-turn.
func spinPsi(rng Rand) (cosp, sinp float64) {
	psi := 2 * math.Pi * rng.Float64()
	cosp = math.Cos(psi)
	sinp = math.Sqrt(1 - cosp*cosp)
	if psi >= math.Pi {
		sinp = -sinp
	}
	return cosp, sinp
}
