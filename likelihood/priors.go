package likelihood

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ruffinevans/sivtempfit/spectrum"
)

// Priors holds one prior distribution per model parameter. A nil entry is
// an improper flat prior (log-density zero everywhere), which reduces
// posterior sampling to likelihood sampling for that parameter.
type Priors struct {
	Amp1            distuv.LogProber
	Amp2            distuv.LogProber
	CenterOffset    distuv.LogProber
	CalibCenter     distuv.LogProber
	FWHM1           distuv.LogProber
	FWHM2           distuv.LogProber
	LightBackground distuv.LogProber
	CCDBackground   distuv.LogProber
	CCDStdev        distuv.LogProber
}

// nominalSiVCenter is the room-temperature SiV zero-phonon line position.
const nominalSiVCenter = 739.0

// DefaultPriors returns a weakly informative prior set anchored on the
// spectrum's summary statistics and an approximate calibration-line
// position. Amplitudes, widths, and noise levels get broad uniform
// supports covering the physically plausible range; the two center
// parameters get loose Gaussians.
func DefaultPriors(st spectrum.Stats, calibPos float64) *Priors {
	ampMax := 1000 * st.Max
	if ampMax <= 0 {
		ampMax = 1
	}
	bgMax := 10 * st.Max
	if bgMax <= 0 {
		bgMax = 1
	}

	return &Priors{
		Amp1:            distuv.Uniform{Min: 0, Max: ampMax},
		Amp2:            distuv.Uniform{Min: 0, Max: ampMax},
		CenterOffset:    distuv.Normal{Mu: nominalSiVCenter - calibPos, Sigma: 10},
		CalibCenter:     distuv.Normal{Mu: calibPos, Sigma: 1},
		FWHM1:           distuv.Uniform{Min: 0, Max: 50},
		FWHM2:           distuv.Uniform{Min: 0, Max: 1},
		LightBackground: distuv.Uniform{Min: 0, Max: bgMax},
		CCDBackground:   distuv.Uniform{Min: 0, Max: bgMax},
		CCDStdev:        distuv.Uniform{Min: 0, Max: 100},
	}
}

// LogPrior returns the summed log prior density for p.
func (pr *Priors) LogPrior(p Params) float64 {
	if pr == nil {
		return 0
	}

	dists := [NumParams]distuv.LogProber{
		pr.Amp1, pr.Amp2, pr.CenterOffset, pr.CalibCenter,
		pr.FWHM1, pr.FWHM2, pr.LightBackground, pr.CCDBackground, pr.CCDStdev,
	}
	v := p.Vector()

	var sum float64
	for i, d := range dists {
		if d == nil {
			continue
		}
		lp := d.LogProb(v[i])
		if math.IsInf(lp, -1) {
			return math.Inf(-1)
		}
		sum += lp
	}
	return sum
}

// LogPosterior returns the unnormalized log posterior: LogPrior + the
// model log-likelihood. The likelihood is skipped when the prior already
// excludes the point.
func (m Model) LogPosterior(s *spectrum.Spectrum, pr *Priors, p Params) float64 {
	lp := pr.LogPrior(p)
	if math.IsInf(lp, -1) {
		return math.Inf(-1)
	}
	return lp + m.LogLikelihood(s, p)
}
