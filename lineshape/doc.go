// Package lineshape evaluates the parametric spectral models used for SiV
// fluorescence fitting.
//
// The elementary shape is a unit-area Lorentzian parameterized by center and
// FWHM. [OnePeak] models an isolated emission line over a flat background;
// [TwoPeak] adds a narrow calibration line, with the signal center encoded
// as an offset from the calibration center so that absolute referencing
// falls out of the parameterization.
package lineshape
