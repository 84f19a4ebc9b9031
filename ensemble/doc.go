// Package ensemble implements an affine-invariant ensemble MCMC sampler
// using the Goodman-Weare stretch move.
//
// The sampler walks an ensemble of K walkers through an N-dimensional
// parameter space. Each update proposes a stretch of one walker along the
// line to a randomly chosen walker from the complementary half-ensemble,
// which makes the algorithm invariant under affine transformations of the
// space and therefore insensitive to parameter scaling and correlation.
//
// The target density is supplied as a [LogProbFunc] returning the
// unnormalized log probability; -Inf marks zero-density regions.
// Proposal evaluations within a half-ensemble update are independent and
// run concurrently; all random draws happen on a single seeded generator
// beforehand, so results are reproducible for a fixed seed at any
// parallelism level.
package ensemble
