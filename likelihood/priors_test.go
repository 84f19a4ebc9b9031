package likelihood

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ruffinevans/sivtempfit/internal/testutil"
)

func TestDefaultPriorsAtTruth(t *testing.T) {
	s := simulated(t)
	pr := DefaultPriors(s.Summary(), 770)

	lp := pr.LogPrior(truthParams())
	testutil.RequireFiniteLogProb(t, lp)
	if math.IsInf(lp, -1) {
		t.Fatalf("truth params excluded by default priors")
	}
}

func TestLogPriorExclusion(t *testing.T) {
	s := simulated(t)
	pr := DefaultPriors(s.Summary(), 770)

	p := truthParams()
	p.Amp1 = -5 // outside the uniform support
	if got := pr.LogPrior(p); !math.IsInf(got, -1) {
		t.Fatalf("negative amplitude: got %g, want -Inf", got)
	}

	p = truthParams()
	p.FWHM2 = 5 // calibration line prior caps at 1 nm
	if got := pr.LogPrior(p); !math.IsInf(got, -1) {
		t.Fatalf("wide calibration line: got %g, want -Inf", got)
	}
}

func TestNilPriorsAreFlat(t *testing.T) {
	var pr *Priors
	if got := pr.LogPrior(truthParams()); got != 0 {
		t.Fatalf("nil priors: got %g, want 0", got)
	}

	// Partially specified priors only score the set fields.
	partial := &Priors{CalibCenter: distuv.Normal{Mu: 770, Sigma: 1}}
	want := distuv.Normal{Mu: 770, Sigma: 1}.LogProb(770)
	testutil.RequireNearlyEqual(t, partial.LogPrior(truthParams()), want, 1e-12)
}

func TestLogPosterior(t *testing.T) {
	s := simulated(t)
	var m Model
	pr := DefaultPriors(s.Summary(), 770)
	p := truthParams()

	want := pr.LogPrior(p) + m.LogLikelihood(s, p)
	testutil.RequireNearlyEqual(t, m.LogPosterior(s, pr, p), want, 1e-9)

	// Nil priors reduce the posterior to the likelihood.
	testutil.RequireNearlyEqual(t, m.LogPosterior(s, nil, p), m.LogLikelihood(s, p), 0)

	// Prior exclusion short-circuits without evaluating the likelihood.
	p.Amp1 = -1
	if got := m.LogPosterior(s, pr, p); !math.IsInf(got, -1) {
		t.Fatalf("excluded point: got %g, want -Inf", got)
	}
}
