// Package infer wires measured spectra to the ensemble sampler.
//
// It generates physically motivated starting guesses for the nine model
// parameters, builds the log-probability closure over a spectrum, and
// drives a sampling run, so that estimating a peak position with
// uncertainty is a single call:
//
//	chain, err := infer.SampleLikelihood(ctx, spec, 770)
//
// followed by posterior.Summarize on the returned chain.
package infer
