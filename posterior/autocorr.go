package posterior

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/ruffinevans/sivtempfit/ensemble"
)

var (
	ErrSeriesTooShort = errors.New("posterior: series must have at least 2 points")
	ErrNonFinite      = errors.New("posterior: non-finite value in series")
)

// sokalFactor is the window criterion constant: the autocorrelation sum is
// truncated at the smallest lag M with M >= sokalFactor * tau(M).
const sokalFactor = 5.0

// Autocorr returns the normalized autocorrelation function of the series
// at lags 0..len(series)-1, computed with a zero-padded FFT.
func Autocorr(series []float64) ([]float64, error) {
	n := len(series)
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", ErrSeriesTooShort, n)
	}

	var mean float64
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: index %d", ErrNonFinite, i)
		}
		mean += v
	}
	mean /= float64(n)

	// Zero-pad to 2n to avoid circular wrap-around.
	fftSize := nextPowerOf2(2 * n)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("posterior: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range series {
		padded[i] = complex(v-mean, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("posterior: forward FFT failed: %w", err)
	}

	for i, c := range freq {
		re := real(c)
		im := imag(c)
		freq[i] = complex(re*re+im*im, 0)
	}

	if err := plan.Inverse(padded, freq); err != nil {
		return nil, fmt.Errorf("posterior: inverse FFT failed: %w", err)
	}

	acf := make([]float64, n)
	zeroLag := real(padded[0])
	if zeroLag == 0 {
		// Constant series: define rho(0)=1, everything else zero.
		acf[0] = 1
		return acf, nil
	}
	for k := range acf {
		acf[k] = real(padded[k]) / zeroLag
	}
	return acf, nil
}

// IntegratedAutocorrTime estimates the integrated autocorrelation time
//
//	tau = 1 + 2 * sum_k rho(k)
//
// of the series, truncating the sum with Sokal's automatic window. The
// estimate is clamped below at 1 (an uncorrelated series).
func IntegratedAutocorrTime(series []float64) (float64, error) {
	acf, err := Autocorr(series)
	if err != nil {
		return 0, err
	}

	tau := 1.0
	for m := 1; m < len(acf); m++ {
		tau += 2 * acf[m]
		if float64(m) >= sokalFactor*tau {
			break
		}
	}
	if tau < 1 {
		tau = 1
	}
	return tau, nil
}

// EffectiveSampleSize estimates the number of independent samples a chain
// carries for one dimension after burn-in. The walker-averaged trajectory
// is used for the autocorrelation estimate, and the total post-burn-in
// sample count is divided by the resulting time constant.
func EffectiveSampleSize(c *ensemble.Chain, dim, burnIn int) (float64, error) {
	if burnIn < 0 || burnIn >= c.NSteps() {
		return 0, fmt.Errorf("posterior: burn-in %d out of range for %d steps", burnIn, c.NSteps())
	}

	steps := c.NSteps() - burnIn
	avg := make([]float64, steps)
	for step := 0; step < steps; step++ {
		var sum float64
		for k := 0; k < c.NWalkers(); k++ {
			sum += c.At(burnIn+step, k)[dim]
		}
		avg[step] = sum / float64(c.NWalkers())
	}

	tau, err := IntegratedAutocorrTime(avg)
	if err != nil {
		return 0, err
	}
	return float64(steps*c.NWalkers()) / tau, nil
}

// nextPowerOf2 returns the smallest power of two >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
