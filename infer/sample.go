package infer

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ruffinevans/sivtempfit/ensemble"
	"github.com/ruffinevans/sivtempfit/fit"
	"github.com/ruffinevans/sivtempfit/likelihood"
	"github.com/ruffinevans/sivtempfit/spectrum"
)

// ErrBallRejected is returned when no viable walker ball could be drawn
// around the starting guess.
var ErrBallRejected = errors.New("infer: could not place walkers at nonzero probability")

// maxBallTries bounds the redraws used to replace walker positions that
// land outside the support of the model.
const maxBallTries = 100

type config struct {
	walkers   int
	steps     int
	seed      uint64
	parallel  int
	convRange float64
	priors    *likelihood.Priors
	guess     *Guess
	refine    bool
}

// Option adjusts a sampling run.
type Option func(*config)

// WithWalkers sets the walker count (default 20).
func WithWalkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.walkers = n
		}
	}
}

// WithSteps sets the number of sampler steps (default 2000).
func WithSteps(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.steps = n
		}
	}
}

// WithSeed sets the random seed for ball generation and sampling.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed }
}

// WithParallel caps concurrent likelihood evaluations.
func WithParallel(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.parallel = n
		}
	}
}

// WithConvRange overrides the likelihood's count marginalization window.
func WithConvRange(r float64) Option {
	return func(c *config) { c.convRange = r }
}

// WithPriors samples the posterior instead of the bare likelihood.
func WithPriors(pr *likelihood.Priors) Option {
	return func(c *config) { c.priors = pr }
}

// WithGuess replaces the heuristic starting guess.
func WithGuess(g Guess) Option {
	return func(c *config) { c.guess = &g }
}

// WithLMRefinement refines the ball center with a least-squares fit
// before sampling.
func WithLMRefinement() Option {
	return func(c *config) { c.refine = true }
}

// SampleLikelihood runs the ensemble sampler on the two-peak CCD model
// over the spectrum and returns the chain of posterior samples.
//
// calibPos is the approximate calibration-line position; the remaining
// starting guesses are derived from the spectrum (see [GenerateGuess])
// unless overridden. Without priors the bare likelihood is sampled,
// matching the single-spectrum analysis where temperature scaling is
// applied downstream.
func SampleLikelihood(ctx context.Context, s *spectrum.Spectrum, calibPos float64, opts ...Option) (*ensemble.Chain, error) {
	cfg := config{
		walkers:  20,
		steps:    2000,
		seed:     1,
		parallel: 0,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	guess := cfg.guess
	if guess == nil {
		g := GenerateGuess(s.Summary(), calibPos)
		guess = &g
	}
	if cfg.refine {
		refined, err := fit.TwoPeakLS(s, guess.Center)
		if err != nil {
			return nil, fmt.Errorf("infer: guess refinement failed: %w", err)
		}
		guess.Center = refined
	}

	model := likelihood.Model{ConvRange: cfg.convRange}
	logProb := func(theta []float64) float64 {
		p, err := likelihood.FromVector(theta)
		if err != nil {
			return math.Inf(-1)
		}
		return model.LogPosterior(s, cfg.priors, p)
	}

	start, err := viableBall(logProb, guess, cfg.walkers, cfg.seed)
	if err != nil {
		return nil, err
	}

	ensOpts := []ensemble.Option{ensemble.WithSeed(cfg.seed)}
	if cfg.parallel > 0 {
		ensOpts = append(ensOpts, ensemble.WithParallel(cfg.parallel))
	}

	sampler, err := ensemble.New(cfg.walkers, likelihood.NumParams, logProb, ensOpts...)
	if err != nil {
		return nil, err
	}
	return sampler.Run(ctx, start, cfg.steps)
}

// viableBall draws walker positions from the guess ball, redrawing any
// that land at zero probability (negative widths or noise levels, say)
// until the full ensemble is viable.
func viableBall(logProb ensemble.LogProbFunc, g *Guess, nWalkers int, seed uint64) ([][]float64, error) {
	center := g.Center.Vector()
	spread := g.Spread.Vector()
	for d, v := range spread {
		if v < 0 {
			spread[d] = -v
		}
	}

	valid := make([][]float64, 0, nWalkers)
	for try := 0; try < maxBallTries && len(valid) < nWalkers; try++ {
		ball, err := ensemble.SampleBall(center, spread, nWalkers, seed+uint64(try))
		if err != nil {
			return nil, err
		}
		for _, pos := range ball {
			if len(valid) == nWalkers {
				break
			}
			if !math.IsInf(logProb(pos), -1) {
				valid = append(valid, pos)
			}
		}
	}

	if len(valid) < nWalkers {
		return nil, fmt.Errorf("%w: placed %d of %d walkers", ErrBallRejected, len(valid), nWalkers)
	}
	return valid, nil
}
