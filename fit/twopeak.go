package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/maorshutman/lm"

	"github.com/ruffinevans/sivtempfit/likelihood"
	"github.com/ruffinevans/sivtempfit/lineshape"
	"github.com/ruffinevans/sivtempfit/spectrum"
)

// ErrDegenerateFit is returned when the optimizer lands on non-finite
// parameters.
var ErrDegenerateFit = errors.New("fit: optimizer produced non-finite parameters")

// lsDim is the number of least-squares parameters: both amplitudes, both
// centers, both widths, and the light background.
const lsDim = 7

// Settings controls the Levenberg-Marquardt run.
type Settings struct {
	MaxIterations int
	ObjectiveTol  float64
}

// DefaultSettings returns the iteration budget used when none is given.
func DefaultSettings() Settings {
	return Settings{MaxIterations: 200, ObjectiveTol: 1e-16}
}

// TwoPeakLS fits the two-peak model to the spectrum by weighted least
// squares, starting from initial, and returns the refined parameters.
//
// Counts are weighted by the shot-noise estimate sqrt(max(y,1)) plus the
// initial read-noise guess. CCDStdev and the CCD pedestal are passed
// through unchanged; only the light background is adjusted, since the two
// background contributions are degenerate in the expected spectrum.
func TwoPeakLS(s *spectrum.Spectrum, initial likelihood.Params, settings ...Settings) (likelihood.Params, error) {
	if err := initial.TwoPeak().Validate(); err != nil {
		return likelihood.Params{}, fmt.Errorf("fit: invalid initial guess: %w", err)
	}

	cfg := DefaultSettings()
	if len(settings) > 0 {
		cfg = settings[0]
	}
	if cfg.MaxIterations < 1 {
		return likelihood.Params{}, fmt.Errorf("fit: iteration budget must be >= 1: %d", cfg.MaxIterations)
	}

	x := s.Wavelength
	y := s.Counts

	// Fixed per-point inverse weights: shot noise on the counts plus the
	// read-noise floor.
	invSigma := make([]float64, len(y))
	for i, yi := range y {
		shot := yi
		if shot < 1 {
			shot = 1
		}
		invSigma[i] = 1 / (math.Sqrt(shot) + math.Abs(initial.CCDStdev))
	}

	pedestal := initial.CCDBackground
	residuals := func(dst, p []float64) {
		model := lineshape.TwoPeak{
			Amp1:         p[0],
			Amp2:         p[1],
			CenterOffset: p[2],
			CalibCenter:  p[3],
			FWHM1:        math.Abs(p[4]),
			FWHM2:        math.Abs(p[5]),
			Background:   0,
		}
		bg := p[6]
		for i := range x {
			dst[i] = (model.At(x[i]) + bg + pedestal - y[i]) * invSigma[i]
		}
	}

	jac := &lm.NumJac{Func: residuals}
	problem := lm.LMProblem{
		Dim:  lsDim,
		Size: s.Len(),
		Func: residuals,
		Jac:  jac.Jac,
		InitParams: []float64{
			initial.Amp1, initial.Amp2,
			initial.CenterOffset, initial.CalibCenter,
			initial.FWHM1, initial.FWHM2,
			initial.LightBackground,
		},
		Tau:  1e-6,
		Eps1: 1e-8,
		Eps2: 1e-8,
	}

	result, err := lm.LM(problem, &lm.Settings{
		Iterations:   cfg.MaxIterations,
		ObjectiveTol: cfg.ObjectiveTol,
	})
	if err != nil {
		return likelihood.Params{}, fmt.Errorf("fit: optimization failed: %w", err)
	}

	for _, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return likelihood.Params{}, ErrDegenerateFit
		}
	}

	out := initial
	out.Amp1 = result.X[0]
	out.Amp2 = result.X[1]
	out.CenterOffset = result.X[2]
	out.CalibCenter = result.X[3]
	out.FWHM1 = math.Abs(result.X[4])
	out.FWHM2 = math.Abs(result.X[5])
	out.LightBackground = result.X[6]
	return out, nil
}
