package likelihood

import (
	"errors"
	"fmt"
	"math"

	"github.com/ruffinevans/sivtempfit/lineshape"
)

// NumParams is the dimensionality of the sampled parameter vector.
const NumParams = 9

// ErrDimensionMismatch is returned when a raw vector does not have
// NumParams elements.
var ErrDimensionMismatch = errors.New("likelihood: parameter vector must have 9 elements")

// Params is the full parameter set of the two-peak CCD model.
//
// The vector order is fixed and shared with the sampler:
// Amp1, Amp2, CenterOffset, CalibCenter, FWHM1, FWHM2, LightBackground,
// CCDBackground, CCDStdev.
type Params struct {
	Amp1            float64 // integrated amplitude of the SiV line
	Amp2            float64 // integrated amplitude of the calibration line
	CenterOffset    float64 // SiV center relative to the calibration line (nm)
	CalibCenter     float64 // calibration line position (nm)
	FWHM1           float64 // SiV line FWHM (nm)
	FWHM2           float64 // calibration line FWHM (nm)
	LightBackground float64 // stray-light background (counts, Poisson)
	CCDBackground   float64 // CCD readout pedestal (counts, deterministic)
	CCDStdev        float64 // CCD read noise standard deviation (counts)
}

// Vector returns the parameters in sampler order.
func (p Params) Vector() []float64 {
	return []float64{
		p.Amp1, p.Amp2, p.CenterOffset, p.CalibCenter,
		p.FWHM1, p.FWHM2, p.LightBackground, p.CCDBackground, p.CCDStdev,
	}
}

// FromVector builds Params from a sampler-order vector.
func FromVector(v []float64) (Params, error) {
	if len(v) != NumParams {
		return Params{}, fmt.Errorf("%w: got %d", ErrDimensionMismatch, len(v))
	}
	return Params{
		Amp1:            v[0],
		Amp2:            v[1],
		CenterOffset:    v[2],
		CalibCenter:     v[3],
		FWHM1:           v[4],
		FWHM2:           v[5],
		LightBackground: v[6],
		CCDBackground:   v[7],
		CCDStdev:        v[8],
	}, nil
}

// TwoPeak returns the lineshape model implied by the parameters. The
// Poisson-contributing stray-light background becomes the flat background
// of the lineshape; the CCD pedestal is handled by the noise model, not
// the lineshape.
func (p Params) TwoPeak() lineshape.TwoPeak {
	return lineshape.TwoPeak{
		Amp1:         p.Amp1,
		Amp2:         p.Amp2,
		CenterOffset: p.CenterOffset,
		CalibCenter:  p.CalibCenter,
		FWHM1:        p.FWHM1,
		FWHM2:        p.FWHM2,
		Background:   p.LightBackground,
	}
}

// SignalCenter returns the absolute SiV line position.
func (p Params) SignalCenter() float64 { return p.CalibCenter + p.CenterOffset }

// Bounds holds per-parameter lower and upper limits in sampler order.
type Bounds struct {
	Lower [NumParams]float64
	Upper [NumParams]float64
}

// Contains reports whether every parameter lies within its bounds.
func (b Bounds) Contains(p Params) bool {
	v := p.Vector()
	for i := range v {
		if v[i] < b.Lower[i] || v[i] > b.Upper[i] {
			return false
		}
	}
	return true
}

// supported reports whether the parameters lie inside the support of the
// noise model: positive widths and read noise, finite everything.
func (p Params) supported() bool {
	if !(p.FWHM1 > 0) || !(p.FWHM2 > 0) || !(p.CCDStdev > 0) {
		return false
	}
	for _, v := range p.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
