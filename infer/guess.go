package infer

import (
	"math"

	"github.com/ruffinevans/sivtempfit/likelihood"
	"github.com/ruffinevans/sivtempfit/spectrum"
)

// Guess is a starting region in parameter space: the center of the walker
// ball and the per-parameter spread of the ball.
type Guess struct {
	Center likelihood.Params
	Spread likelihood.Params
}

// Heuristic constants for SiV spectra: the zero-phonon line sits near
// 739 nm with a width of a few nm, while a laser calibration line is
// orders of magnitude narrower.
const (
	nominalSiVCenter  = 739.0
	defaultFWHM1      = 2.0
	defaultFWHM2      = 0.02
	defaultCCDStdev   = 10.0
	lightBackgroundFr = 0.05 // fraction of the median count level
	ccdBackgroundFr   = 0.8  // fraction of the median count level
)

// GenerateGuess builds a starting guess from the spectrum's summary
// statistics and the approximate calibration-line position, which must be
// supplied because the calibration line is too narrow to locate reliably
// from coarse statistics.
//
// The amplitude guess inverts the unit-area Lorentzian peak height
// (2A/(pi*FWHM)), the center offset assumes the SiV line near its nominal
// position, and the background level is split between stray light and the
// CCD pedestal. Callers are free to overwrite individual fields before
// sampling.
func GenerateGuess(st spectrum.Stats, calibPos float64) Guess {
	amp1 := math.Pi / 2 * st.Max * defaultFWHM1

	center := likelihood.Params{
		Amp1:            amp1,
		Amp2:            amp1,
		CenterOffset:    nominalSiVCenter - calibPos,
		CalibCenter:     calibPos,
		FWHM1:           defaultFWHM1,
		FWHM2:           defaultFWHM2,
		LightBackground: lightBackgroundFr * st.Median,
		CCDBackground:   ccdBackgroundFr * st.Median,
		CCDStdev:        defaultCCDStdev,
	}

	spread := likelihood.Params{
		Amp1:            0.8 * amp1,
		Amp2:            0.8 * amp1,
		CenterOffset:    3,
		CalibCenter:     0.5,
		FWHM1:           2,
		FWHM2:           0.05,
		LightBackground: center.LightBackground,
		CCDBackground:   0.5 * center.CCDBackground,
		CCDStdev:        10,
	}

	return Guess{Center: center, Spread: spread}
}
