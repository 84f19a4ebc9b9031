// Package spectrum provides the measured-spectrum container used throughout
// the module.
//
// A [Spectrum] pairs a strictly increasing wavelength axis with CCD counts
// and optional acquisition metadata. The package validates data on
// construction so that downstream model and likelihood code can assume
// finite, well-ordered input.
package spectrum
