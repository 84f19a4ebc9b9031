package ensemble

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ruffinevans/sivtempfit/internal/testutil"
	"gonum.org/v1/gonum/stat"
)

// logProbGauss is an uncorrelated Gaussian with per-dimension sigmas.
func logProbGauss(sigmas []float64) LogProbFunc {
	return func(theta []float64) float64 {
		var lp float64
		for d, x := range theta {
			lp -= 0.5 * (x / sigmas[d]) * (x / sigmas[d])
		}
		return lp
	}
}

func TestNewValidation(t *testing.T) {
	fn := logProbGauss([]float64{1})

	if _, err := New(4, 1, nil); !errors.Is(err, ErrNilTarget) {
		t.Fatalf("expected ErrNilTarget, got %v", err)
	}
	if _, err := New(5, 1, fn); !errors.Is(err, ErrOddWalkers) {
		t.Fatalf("expected ErrOddWalkers, got %v", err)
	}
	if _, err := New(2, 2, fn); !errors.Is(err, ErrTooFewWalkers) {
		t.Fatalf("expected ErrTooFewWalkers, got %v", err)
	}
	if _, err := New(4, 0, fn); err == nil {
		t.Fatalf("expected error for zero dimensions")
	}

	s, err := New(4, 1, fn)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.NWalkers() != 4 || s.NDim() != 1 {
		t.Fatalf("unexpected shape: %d walkers, %d dims", s.NWalkers(), s.NDim())
	}
}

func TestRunValidation(t *testing.T) {
	fn := logProbGauss([]float64{1, 1})
	s, err := New(8, 2, fn, WithSeed(3))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	start, err := SampleBall([]float64{0, 0}, []float64{0.1, 0.1}, 8, 3)
	if err != nil {
		t.Fatalf("SampleBall failed: %v", err)
	}

	if _, err := s.Run(context.Background(), start, 0); err == nil {
		t.Fatalf("expected error for zero steps")
	}
	if _, err := s.Run(context.Background(), start[:4], 10); !errors.Is(err, ErrBadStart) {
		t.Fatalf("expected ErrBadStart, got %v", err)
	}

	bad := [][]float64{{0}, {0}, {0}, {0}, {0}, {0}, {0}, {0}}
	if _, err := s.Run(context.Background(), bad, 10); !errors.Is(err, ErrBadStart) {
		t.Fatalf("expected ErrBadStart for wrong dim, got %v", err)
	}

	// Zero-density start.
	zero, err := New(8, 2, func(theta []float64) float64 { return math.Inf(-1) }, WithSeed(3))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := zero.Run(context.Background(), start, 10); !errors.Is(err, ErrZeroDensity) {
		t.Fatalf("expected ErrZeroDensity, got %v", err)
	}
}

func TestRunRecoversGaussian(t *testing.T) {
	sigmas := []float64{10, 0.1}
	s, err := New(16, 2, logProbGauss(sigmas), WithSeed(99))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	start, err := SampleBall([]float64{1, 0.01}, []float64{1, 0.01}, 16, 99)
	if err != nil {
		t.Fatalf("SampleBall failed: %v", err)
	}

	chain, err := s.Run(context.Background(), start, 4000)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	acc := chain.MeanAcceptance()
	if acc < 0.1 || acc > 0.9 {
		t.Fatalf("implausible acceptance fraction %g", acc)
	}

	for d, sigma := range sigmas {
		samples, err := chain.FlatDim(d, 1000, 1)
		if err != nil {
			t.Fatalf("FlatDim failed: %v", err)
		}
		testutil.RequireFinite(t, samples)

		mean := stat.Mean(samples, nil)
		sd := stat.StdDev(samples, nil)

		if math.Abs(mean) > 0.2*sigma {
			t.Fatalf("dim %d: mean=%g want ~0 (sigma %g)", d, mean, sigma)
		}
		if math.Abs(sd-sigma) > 0.2*sigma {
			t.Fatalf("dim %d: stddev=%g want ~%g", d, sd, sigma)
		}
	}
}

func TestRunDeterministicAcrossParallelism(t *testing.T) {
	fn := logProbGauss([]float64{1, 2})

	run := func(parallel int) *Chain {
		s, err := New(12, 2, fn, WithSeed(7), WithParallel(parallel))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		start, err := SampleBall([]float64{0, 0}, []float64{0.5, 0.5}, 12, 7)
		if err != nil {
			t.Fatalf("SampleBall failed: %v", err)
		}
		chain, err := s.Run(context.Background(), start, 200)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return chain
	}

	serial := run(1)
	parallel := run(8)

	for step := 0; step < serial.NSteps(); step++ {
		for k := 0; k < serial.NWalkers(); k++ {
			testutil.RequireSliceNearlyEqual(t, parallel.At(step, k), serial.At(step, k), 0)
		}
	}
}

func TestRunContextCancellation(t *testing.T) {
	fn := logProbGauss([]float64{1})
	s, err := New(4, 1, fn, WithSeed(11))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	start, err := SampleBall([]float64{0}, []float64{0.1}, 4, 11)
	if err != nil {
		t.Fatalf("SampleBall failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain, err := s.Run(ctx, start, 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if chain == nil || chain.NSteps() != 0 {
		t.Fatalf("expected empty truncated chain, got %+v", chain)
	}
}

func TestNaNTargetTreatedAsZeroDensity(t *testing.T) {
	// A target that returns NaN away from the origin must not poison the
	// chain: every recorded log probability stays finite or -Inf.
	fn := func(theta []float64) float64 {
		if math.Abs(theta[0]) > 2 {
			return math.NaN()
		}
		return -0.5 * theta[0] * theta[0]
	}

	s, err := New(6, 1, fn, WithSeed(5))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	start, err := SampleBall([]float64{0}, []float64{0.1}, 6, 5)
	if err != nil {
		t.Fatalf("SampleBall failed: %v", err)
	}

	chain, err := s.Run(context.Background(), start, 500)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for step := 0; step < chain.NSteps(); step++ {
		for k := 0; k < chain.NWalkers(); k++ {
			lp := chain.LogProb(step, k)
			if math.IsNaN(lp) {
				t.Fatalf("NaN log probability recorded at step %d walker %d", step, k)
			}
			if math.Abs(chain.At(step, k)[0]) > 2 {
				t.Fatalf("walker escaped into the NaN region at step %d", step)
			}
		}
	}
}
