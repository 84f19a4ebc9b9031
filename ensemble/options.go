package ensemble

import "runtime"

// Config holds sampler tuning knobs.
type Config struct {
	// StretchScale is the stretch-move scale parameter a. Proposals draw
	// z from g(z) ~ 1/sqrt(z) on [1/a, a]. Larger values take bolder
	// steps at the cost of acceptance rate.
	StretchScale float64
	// Seed initializes the sampler's random generator.
	Seed uint64
	// Parallel caps the number of concurrent log-probability evaluations.
	Parallel int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the sampler defaults: the canonical a=2 stretch
// scale and one evaluation goroutine per available CPU.
func DefaultConfig() Config {
	return Config{
		StretchScale: 2,
		Seed:         1,
		Parallel:     runtime.GOMAXPROCS(0),
	}
}

// WithStretchScale sets the stretch-move scale parameter. Values <= 1 are
// ignored.
func WithStretchScale(a float64) Option {
	return func(cfg *Config) {
		if a > 1 {
			cfg.StretchScale = a
		}
	}
}

// WithSeed sets the random seed.
func WithSeed(seed uint64) Option {
	return func(cfg *Config) {
		cfg.Seed = seed
	}
}

// WithParallel sets the maximum number of concurrent log-probability
// evaluations. Values < 1 are ignored.
func WithParallel(n int) Option {
	return func(cfg *Config) {
		if n >= 1 {
			cfg.Parallel = n
		}
	}
}

// applyOptions applies zero or more options to the default config.
func applyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
