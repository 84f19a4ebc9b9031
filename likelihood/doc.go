// Package likelihood implements the statistical model tying the two-peak
// lineshape to measured CCD spectra.
//
// The noise model treats each observed count as a Poisson-distributed photon
// number (shot noise from the light signal plus stray-light background)
// offset by a CCD pedestal and smeared by Gaussian read noise. The photon
// number is marginalized over a truncated window, giving the
// Poisson-Gaussian convolution likelihood evaluated in log space.
//
// [Model.LogLikelihood] is the sampler-facing entry point: it never panics
// and returns -Inf for any parameter vector outside the support of the
// model, so it can be handed directly to an MCMC sampler. [Priors] adds
// per-parameter prior distributions for posterior sampling.
package likelihood
