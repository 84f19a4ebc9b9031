package likelihood

import (
	"errors"
	"testing"

	"github.com/ruffinevans/sivtempfit/internal/testutil"
)

func TestParamsVectorRoundTrip(t *testing.T) {
	p := truthParams()

	v := p.Vector()
	if len(v) != NumParams {
		t.Fatalf("vector length %d, want %d", len(v), NumParams)
	}

	back, err := FromVector(v)
	if err != nil {
		t.Fatalf("FromVector failed: %v", err)
	}
	if back != p {
		t.Fatalf("round trip mismatch: %+v != %+v", back, p)
	}

	if _, err := FromVector(v[:5]); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestParamsTwoPeak(t *testing.T) {
	p := truthParams()
	m := p.TwoPeak()

	if m.Background != p.LightBackground {
		t.Fatalf("lineshape background %g, want light background %g", m.Background, p.LightBackground)
	}
	testutil.RequireNearlyEqual(t, m.SignalCenter(), 740, 1e-12)
	testutil.RequireNearlyEqual(t, p.SignalCenter(), 740, 1e-12)
}

func TestBoundsContains(t *testing.T) {
	var b Bounds
	for i := 0; i < NumParams; i++ {
		b.Lower[i] = -1000
		b.Upper[i] = 1000
	}

	if !b.Contains(truthParams()) {
		t.Fatalf("truth params should be inside wide bounds")
	}

	p := truthParams()
	p.CCDStdev = 2000
	if b.Contains(p) {
		t.Fatalf("out-of-range stdev should be outside bounds")
	}
}
