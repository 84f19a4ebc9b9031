package likelihood

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ruffinevans/sivtempfit/spectrum"
)

// DefaultConvRange is the half-width of the photon-count marginalization
// window, in units of the CCD read-noise standard deviation. Six sigma
// keeps the truncation error far below the sampler's resolution.
const DefaultConvRange = 6

// Model is the two-peak + CCD noise likelihood.
//
// The zero value is ready to use and selects [DefaultConvRange].
type Model struct {
	// ConvRange overrides the count marginalization half-width, in units
	// of CCDStdev. Values <= 0 select DefaultConvRange.
	ConvRange float64
}

func (m Model) convRange() float64 {
	if m.ConvRange > 0 {
		return m.ConvRange
	}
	return DefaultConvRange
}

// LogLikelihood returns the log-likelihood of the spectrum under the
// two-peak CCD model with parameters p.
//
// Parameter vectors outside the support of the model (nonpositive widths
// or read noise, nonpositive model intensity anywhere, non-finite values)
// yield -Inf rather than an error, so the method can be passed directly
// to a sampler.
func (m Model) LogLikelihood(s *spectrum.Spectrum, p Params) float64 {
	return m.logLikelihoodXY(s.Wavelength, s.Counts, p)
}

// LogLikelihoodXY is LogLikelihood over raw x/y slices of equal length.
func (m Model) LogLikelihoodXY(x, y []float64, p Params) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return math.Inf(-1)
	}
	return m.logLikelihoodXY(x, y, p)
}

func (m Model) logLikelihoodXY(x, y []float64, p Params) float64 {
	if !p.supported() {
		return math.Inf(-1)
	}

	sigma := p.CCDStdev
	span := m.convRange() * sigma

	// The Gaussian read-noise factor depends only on the window offset,
	// not on the data point, so its log-weights are computed once.
	// Offsets step by one count across [-span, span].
	nOffsets := int(2*span) + 1
	if nOffsets < 1 {
		nOffsets = 1
	}
	offsets := make([]float64, 0, nOffsets)
	gaussLog := make([]float64, 0, nOffsets)
	logNorm := -math.Log(sigma * math.Sqrt(2*math.Pi))
	for off := -span; off <= span+0.01; off++ {
		offsets = append(offsets, off)
		gaussLog = append(gaussLog, logNorm-0.5*(off/sigma)*(off/sigma))
	}

	model := p.TwoPeak()

	var total float64
	terms := make([]float64, 0, len(offsets))

	for i, xi := range x {
		lam := model.At(xi)
		if !(lam > 0) {
			// Poisson rate must be positive wherever data exists.
			return math.Inf(-1)
		}
		logLam := math.Log(lam)
		base := y[i] - p.CCDBackground

		// Marginalize the photon count n = base + offset over the window,
		// dropping unphysical negative counts.
		terms = terms[:0]
		for k, off := range offsets {
			n := base + off
			if n < 0 {
				continue
			}
			lg, _ := math.Lgamma(n + 1)
			terms = append(terms, n*logLam-lam-lg+gaussLog[k])
		}
		if len(terms) == 0 {
			return math.Inf(-1)
		}

		total += floats.LogSumExp(terms)
		if math.IsInf(total, -1) {
			return math.Inf(-1)
		}
	}

	return total
}
