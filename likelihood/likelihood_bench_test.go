package likelihood

import (
	"testing"

	"github.com/ruffinevans/sivtempfit/internal/testutil"
)

func BenchmarkLogLikelihood(b *testing.B) {
	s, err := testutil.SimulateSiVSpectrum(testutil.DefaultSynthConfig(), 1234)
	if err != nil {
		b.Fatalf("simulate failed: %v", err)
	}

	var m Model
	p := truthParams()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = m.LogLikelihood(s, p)
	}
}
