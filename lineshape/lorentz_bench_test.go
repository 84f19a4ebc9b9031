package lineshape

import "testing"

func BenchmarkTwoPeakEval(b *testing.B) {
	m := TwoPeak{
		Amp1: 500, Amp2: 10,
		CenterOffset: -30, CalibCenter: 770,
		FWHM1: 20, FWHM2: 0.1,
		Background: 1,
	}

	x := make([]float64, 1340)
	for i := range x {
		x[i] = 700 + 0.05*float64(i)
	}
	dst := make([]float64, len(x))

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = m.Eval(dst, x)
	}
}
