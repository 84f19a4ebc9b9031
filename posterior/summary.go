package posterior

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ruffinevans/sivtempfit/ensemble"
)

// Summary describes the marginal posterior of one parameter.
type Summary struct {
	Mean   float64
	StdDev float64
	Median float64
	// CredLo and CredHi bound the central credible interval.
	CredLo float64
	CredHi float64
	// Mode is a Gaussian-KDE estimate of the marginal density maximum.
	Mode float64
}

// defaultCredMass is the probability mass of the reported credible
// interval: the 16th to 84th percentile, the MCMC analogue of +/- 1 sigma.
const defaultCredMass = 0.68

// kdeGridPoints is the resolution of the KDE mode search grid.
const kdeGridPoints = 512

// Summarize computes a Summary for every dimension of the chain after
// discarding burnIn steps and thinning by thin.
func Summarize(c *ensemble.Chain, burnIn, thin int) ([]Summary, error) {
	out := make([]Summary, c.NDim())
	for d := range out {
		samples, err := c.FlatDim(d, burnIn, thin)
		if err != nil {
			return nil, err
		}
		s, err := SummarizeSamples(samples)
		if err != nil {
			return nil, fmt.Errorf("posterior: dimension %d: %w", d, err)
		}
		out[d] = s
	}
	return out, nil
}

// SummarizeSamples computes a Summary from a flat sample slice.
func SummarizeSamples(samples []float64) (Summary, error) {
	if len(samples) < 2 {
		return Summary{}, fmt.Errorf("%w: %d", ErrSeriesTooShort, len(samples))
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Summary{}, fmt.Errorf("%w: index %d", ErrNonFinite, i)
		}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	lo := (1 - defaultCredMass) / 2
	hi := 1 - lo

	s := Summary{
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		CredLo: stat.Quantile(lo, stat.Empirical, sorted, nil),
		CredHi: stat.Quantile(hi, stat.Empirical, sorted, nil),
	}
	s.Mode = kdeMode(sorted, s.StdDev)
	return s, nil
}

// kdeMode locates the maximum of a Gaussian kernel density estimate over
// the sorted samples, using Silverman's rule-of-thumb bandwidth and a
// fixed evaluation grid.
func kdeMode(sorted []float64, stddev float64) float64 {
	n := len(sorted)
	lo := sorted[0]
	hi := sorted[n-1]
	if !(hi > lo) || stddev == 0 {
		return sorted[0]
	}

	bw := 1.06 * stddev * math.Pow(float64(n), -0.2)
	step := (hi - lo) / (kdeGridPoints - 1)
	invBW := 1 / bw

	best := lo
	bestDensity := math.Inf(-1)
	for g := 0; g < kdeGridPoints; g++ {
		x := lo + step*float64(g)

		// Samples beyond a few bandwidths contribute nothing; restrict
		// the kernel sum to the +/- 5 bw window around x.
		i0 := sort.SearchFloat64s(sorted, x-5*bw)
		i1 := sort.SearchFloat64s(sorted, x+5*bw)

		var density float64
		for _, v := range sorted[i0:i1] {
			u := (x - v) * invBW
			density += math.Exp(-0.5 * u * u)
		}
		if density > bestDensity {
			bestDensity = density
			best = x
		}
	}
	return best
}
