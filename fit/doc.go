// Package fit provides a deterministic least-squares fit of the two-peak
// model, used to sharpen starting guesses before MCMC sampling and as a
// quick maximum-likelihood point estimate.
//
// The fit is a weighted Levenberg-Marquardt minimization with a numerical
// Jacobian. Only the mean-shape parameters are fitted: the CCD read-noise
// level does not enter the expected spectrum, and the two background
// contributions are degenerate in the mean, so the CCD pedestal is held
// at its initial guess and only the light background is adjusted.
package fit
