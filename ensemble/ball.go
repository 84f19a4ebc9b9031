package ensemble

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SampleBall returns nWalkers starting positions drawn from an isotropic
// Gaussian ball: position d of every walker is N(center[d], spread[d]).
// Deterministic per seed.
//
// center and spread must have equal, non-zero length and spreads must be
// non-negative; a zero spread pins that dimension.
func SampleBall(center, spread []float64, nWalkers int, seed uint64) ([][]float64, error) {
	if len(center) == 0 {
		return nil, fmt.Errorf("ensemble: empty ball center")
	}
	if len(center) != len(spread) {
		return nil, fmt.Errorf("ensemble: center/spread length mismatch: %d != %d", len(center), len(spread))
	}
	if nWalkers < 1 {
		return nil, fmt.Errorf("ensemble: walker count must be >= 1: %d", nWalkers)
	}
	for d, s := range spread {
		if s < 0 {
			return nil, fmt.Errorf("ensemble: negative spread at dimension %d: %g", d, s)
		}
	}

	src := rand.NewPCG(seed, seed^0xc2b2ae3d27d4eb4f)

	out := make([][]float64, nWalkers)
	for k := range out {
		p := make([]float64, len(center))
		for d := range p {
			if spread[d] == 0 {
				p[d] = center[d]
				continue
			}
			p[d] = distuv.Normal{Mu: center[d], Sigma: spread[d], Src: src}.Rand()
		}
		out[k] = p
	}
	return out, nil
}
