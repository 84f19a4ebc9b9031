package ensemble

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

var (
	ErrOddWalkers    = errors.New("ensemble: walker count must be even")
	ErrTooFewWalkers = errors.New("ensemble: need at least 2*nDim walkers")
	ErrNilTarget     = errors.New("ensemble: nil log-probability function")
	ErrBadStart      = errors.New("ensemble: invalid starting positions")
	ErrZeroDensity   = errors.New("ensemble: starting position has zero probability")
)

// LogProbFunc evaluates the unnormalized log probability density of the
// target distribution at theta. Return -Inf for zero-density regions.
// Implementations must be safe for concurrent calls.
type LogProbFunc func(theta []float64) float64

// Sampler is an affine-invariant ensemble sampler over a fixed walker
// count and dimensionality.
type Sampler struct {
	nWalkers int
	nDim     int
	fn       LogProbFunc
	cfg      Config
}

// New creates a Sampler for nWalkers walkers in nDim dimensions.
//
// nWalkers must be even (the ensemble is split into two half-ensembles)
// and at least 2*nDim so that the complementary half spans the space.
func New(nWalkers, nDim int, fn LogProbFunc, opts ...Option) (*Sampler, error) {
	if fn == nil {
		return nil, ErrNilTarget
	}
	if nDim < 1 {
		return nil, fmt.Errorf("ensemble: dimension must be >= 1: %d", nDim)
	}
	if nWalkers%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrOddWalkers, nWalkers)
	}
	if nWalkers < 2*nDim {
		return nil, fmt.Errorf("%w: %d walkers for %d dims", ErrTooFewWalkers, nWalkers, nDim)
	}

	return &Sampler{
		nWalkers: nWalkers,
		nDim:     nDim,
		fn:       fn,
		cfg:      applyOptions(opts...),
	}, nil
}

// NWalkers returns the walker count.
func (s *Sampler) NWalkers() int { return s.nWalkers }

// NDim returns the dimensionality.
func (s *Sampler) NDim() int { return s.nDim }

// proposal holds one pending stretch move.
type proposal struct {
	walker int
	z      float64
	theta  []float64
	logP   float64
}

// Run advances the ensemble nSteps steps from the given starting
// positions and records every step in the returned chain.
//
// start must contain one position per walker, each of length NDim, and
// every starting position must have nonzero probability; degenerate
// ensembles tend to get stuck and are rejected up front.
//
// Run checks ctx between steps. On cancellation it returns the chain
// accumulated so far together with the context error.
func (s *Sampler) Run(ctx context.Context, start [][]float64, nSteps int) (*Chain, error) {
	if nSteps < 1 {
		return nil, fmt.Errorf("ensemble: step count must be >= 1: %d", nSteps)
	}
	if len(start) != s.nWalkers {
		return nil, fmt.Errorf("%w: %d positions for %d walkers", ErrBadStart, len(start), s.nWalkers)
	}

	// Current ensemble state.
	pos := make([][]float64, s.nWalkers)
	logP := make([]float64, s.nWalkers)
	for k, p := range start {
		if len(p) != s.nDim {
			return nil, fmt.Errorf("%w: walker %d has %d dims, want %d", ErrBadStart, k, len(p), s.nDim)
		}
		pos[k] = append([]float64(nil), p...)
		logP[k] = s.eval(p)
		if math.IsInf(logP[k], -1) {
			return nil, fmt.Errorf("%w: walker %d", ErrZeroDensity, k)
		}
	}

	rng := rand.New(rand.NewPCG(s.cfg.Seed, s.cfg.Seed^0xda3e39cb94b95bdb))
	chain := newChain(nSteps, s.nWalkers, s.nDim)
	half := s.nWalkers / 2

	props := make([]proposal, half)
	for i := range props {
		props[i].theta = make([]float64, s.nDim)
	}

	for step := 0; step < nSteps; step++ {
		if err := ctx.Err(); err != nil {
			chain.truncate(step)
			return chain, err
		}

		// Update the two half-ensembles in turn. Walkers [0, half) move
		// against [half, nWalkers) and vice versa.
		for _, first := range []int{0, half} {
			other := half - first

			// Draw all randomness sequentially so that results do not
			// depend on evaluation order.
			for i := 0; i < half; i++ {
				p := &props[i]
				p.walker = first + i
				p.z = s.drawStretch(rng)
				partner := pos[other+rng.IntN(half)]
				cur := pos[p.walker]
				for d := 0; d < s.nDim; d++ {
					p.theta[d] = partner[d] + p.z*(cur[d]-partner[d])
				}
			}

			s.evalProposals(props)

			for i := range props {
				p := &props[i]
				logAccept := float64(s.nDim-1)*math.Log(p.z) + p.logP - logP[p.walker]
				if logAccept > 0 || math.Log(rng.Float64()) < logAccept {
					copy(pos[p.walker], p.theta)
					logP[p.walker] = p.logP
					chain.accepted[p.walker]++
				}
			}
		}

		chain.record(step, pos, logP)
	}

	return chain, nil
}

// drawStretch samples z from g(z) ~ 1/sqrt(z) on [1/a, a] via inverse
// transform: z = ((a-1)u + 1)^2 / a.
func (s *Sampler) drawStretch(rng *rand.Rand) float64 {
	a := s.cfg.StretchScale
	u := rng.Float64()
	v := (a-1)*u + 1
	return v * v / a
}

// eval calls the target, mapping NaN to -Inf so a misbehaving density
// cannot poison the chain.
func (s *Sampler) eval(theta []float64) float64 {
	lp := s.fn(theta)
	if math.IsNaN(lp) {
		return math.Inf(-1)
	}
	return lp
}

// evalProposals evaluates all pending proposals, concurrently up to the
// configured parallelism.
func (s *Sampler) evalProposals(props []proposal) {
	if s.cfg.Parallel <= 1 || len(props) == 1 {
		for i := range props {
			props[i].logP = s.eval(props[i].theta)
		}
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Parallel)
	for i := range props {
		p := &props[i]
		g.Go(func() error {
			p.logP = s.eval(p.theta)
			return nil
		})
	}
	_ = g.Wait()
}
