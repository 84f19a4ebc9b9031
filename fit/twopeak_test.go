package fit

import (
	"testing"

	"github.com/ruffinevans/sivtempfit/internal/testutil"
	"github.com/ruffinevans/sivtempfit/likelihood"
	"github.com/ruffinevans/sivtempfit/spectrum"
)

// truth matches testutil.DefaultSynthConfig.
func truth() likelihood.Params {
	return likelihood.Params{
		Amp1:            500,
		Amp2:            10,
		CenterOffset:    -30,
		CalibCenter:     770,
		FWHM1:           20,
		FWHM2:           0.1,
		LightBackground: 1,
		CCDBackground:   1,
		CCDStdev:        0.5,
	}
}

func simulated(t *testing.T) *spectrum.Spectrum {
	t.Helper()
	s, err := testutil.SimulateSiVSpectrum(testutil.DefaultSynthConfig(), 77)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	return s
}

func TestTwoPeakLSRecoversTruth(t *testing.T) {
	s := simulated(t)

	// Start displaced from the truth within the convergence basin.
	initial := truth()
	initial.Amp1 = 300
	initial.Amp2 = 5
	initial.CenterOffset = -28
	initial.CalibCenter = 769.9
	initial.FWHM1 = 15
	initial.FWHM2 = 0.15
	initial.LightBackground = 3

	got, err := TwoPeakLS(s, initial)
	if err != nil {
		t.Fatalf("TwoPeakLS failed: %v", err)
	}

	want := truth()
	testutil.RequireNearlyEqual(t, got.Amp1, want.Amp1, 25)
	testutil.RequireNearlyEqual(t, got.Amp2, want.Amp2, 2)
	testutil.RequireNearlyEqual(t, got.CenterOffset, want.CenterOffset, 0.5)
	testutil.RequireNearlyEqual(t, got.CalibCenter, want.CalibCenter, 0.05)
	testutil.RequireNearlyEqual(t, got.FWHM1, want.FWHM1, 1.5)
	testutil.RequireNearlyEqual(t, got.FWHM2, want.FWHM2, 0.08)

	// Untouched noise parameters pass through.
	if got.CCDBackground != initial.CCDBackground || got.CCDStdev != initial.CCDStdev {
		t.Fatalf("noise parameters modified: %+v", got)
	}
}

func TestTwoPeakLSImprovesLikelihood(t *testing.T) {
	s := simulated(t)

	initial := truth()
	initial.Amp1 = 350
	initial.FWHM1 = 26

	refined, err := TwoPeakLS(s, initial)
	if err != nil {
		t.Fatalf("TwoPeakLS failed: %v", err)
	}

	var m likelihood.Model
	before := m.LogLikelihood(s, initial)
	after := m.LogLikelihood(s, refined)
	if !(after > before) {
		t.Fatalf("refined fit did not improve likelihood: %g -> %g", before, after)
	}
}

func TestTwoPeakLSValidation(t *testing.T) {
	s := simulated(t)

	bad := truth()
	bad.FWHM1 = 0
	if _, err := TwoPeakLS(s, bad); err == nil {
		t.Fatalf("expected error for invalid initial widths")
	}

	if _, err := TwoPeakLS(s, truth(), Settings{MaxIterations: 0}); err == nil {
		t.Fatalf("expected error for zero iteration budget")
	}
}
