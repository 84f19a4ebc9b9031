// Package posterior turns raw MCMC chains into parameter estimates.
//
// It provides per-dimension summaries (mean, spread, credible intervals,
// and a kernel-density mode estimate) and sampling diagnostics: the
// integrated autocorrelation time of a chain, computed from its FFT
// autocorrelation with Sokal's automatic windowing, and the effective
// sample size derived from it.
package posterior
