package ensemble

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Chain holds the recorded walker trajectories of a sampler run.
type Chain struct {
	nSteps   int
	nWalkers int
	nDim     int

	// samples is indexed [step][walker][dim], flattened.
	samples []float64
	// logProb is indexed [step][walker], flattened.
	logProb []float64
	// accepted counts accepted moves per walker.
	accepted []int
	// totalSteps is the number of proposals made per walker, which can
	// exceed nSteps when a run was truncated by cancellation.
	totalSteps int
}

func newChain(nSteps, nWalkers, nDim int) *Chain {
	return &Chain{
		nSteps:   nSteps,
		nWalkers: nWalkers,
		nDim:     nDim,
		samples:  make([]float64, nSteps*nWalkers*nDim),
		logProb:  make([]float64, nSteps*nWalkers),
		accepted: make([]int, nWalkers),
	}
}

func (c *Chain) record(step int, pos [][]float64, logP []float64) {
	for k := range pos {
		copy(c.samples[(step*c.nWalkers+k)*c.nDim:], pos[k])
		c.logProb[step*c.nWalkers+k] = logP[k]
	}
	c.totalSteps = step + 1
}

// truncate shrinks the chain to the steps actually recorded.
func (c *Chain) truncate(steps int) {
	c.nSteps = steps
	c.totalSteps = steps
	c.samples = c.samples[:steps*c.nWalkers*c.nDim]
	c.logProb = c.logProb[:steps*c.nWalkers]
}

// NSteps returns the number of recorded steps.
func (c *Chain) NSteps() int { return c.nSteps }

// NWalkers returns the walker count.
func (c *Chain) NWalkers() int { return c.nWalkers }

// NDim returns the dimensionality.
func (c *Chain) NDim() int { return c.nDim }

// At returns the position of a walker at a step. The returned slice
// aliases chain storage; callers must not modify it.
func (c *Chain) At(step, walker int) []float64 {
	base := (step*c.nWalkers + walker) * c.nDim
	return c.samples[base : base+c.nDim]
}

// LogProb returns the log probability of a walker at a step.
func (c *Chain) LogProb(step, walker int) float64 {
	return c.logProb[step*c.nWalkers+walker]
}

// AcceptanceFraction returns the fraction of accepted proposals per walker.
func (c *Chain) AcceptanceFraction() []float64 {
	out := make([]float64, c.nWalkers)
	if c.totalSteps == 0 {
		return out
	}
	for k, n := range c.accepted {
		out[k] = float64(n) / float64(c.totalSteps)
	}
	return out
}

// MeanAcceptance returns the acceptance fraction averaged over walkers.
func (c *Chain) MeanAcceptance() float64 {
	if c.totalSteps == 0 || c.nWalkers == 0 {
		return 0
	}
	var sum int
	for _, n := range c.accepted {
		sum += n
	}
	return float64(sum) / float64(c.totalSteps*c.nWalkers)
}

// Flat returns the post-burn-in samples of all walkers as a dense matrix
// with one row per sample and one column per dimension, thinned by the
// given stride. thin < 1 is treated as 1.
func (c *Chain) Flat(burnIn, thin int) (*mat.Dense, error) {
	if burnIn < 0 || burnIn >= c.nSteps {
		return nil, fmt.Errorf("ensemble: burn-in %d out of range for %d steps", burnIn, c.nSteps)
	}
	if thin < 1 {
		thin = 1
	}

	kept := (c.nSteps - burnIn + thin - 1) / thin
	out := mat.NewDense(kept*c.nWalkers, c.nDim, nil)
	row := 0
	for step := burnIn; step < c.nSteps; step += thin {
		for k := 0; k < c.nWalkers; k++ {
			out.SetRow(row, c.At(step, k))
			row++
		}
	}
	return out, nil
}

// FlatDim returns the post-burn-in samples of a single dimension across
// all walkers, thinned by the given stride.
func (c *Chain) FlatDim(dim, burnIn, thin int) ([]float64, error) {
	if dim < 0 || dim >= c.nDim {
		return nil, fmt.Errorf("ensemble: dimension %d out of range", dim)
	}
	flat, err := c.Flat(burnIn, thin)
	if err != nil {
		return nil, err
	}
	r, _ := flat.Dims()
	out := make([]float64, r)
	mat.Col(out, dim, flat)
	return out, nil
}

// WalkerSeries returns the trajectory of one walker along one dimension,
// ordered by step. Useful for trace plots and autocorrelation estimates.
func (c *Chain) WalkerSeries(walker, dim int) ([]float64, error) {
	if walker < 0 || walker >= c.nWalkers {
		return nil, fmt.Errorf("ensemble: walker %d out of range", walker)
	}
	if dim < 0 || dim >= c.nDim {
		return nil, fmt.Errorf("ensemble: dimension %d out of range", dim)
	}
	out := make([]float64, c.nSteps)
	for step := range out {
		out[step] = c.At(step, walker)[dim]
	}
	return out, nil
}
