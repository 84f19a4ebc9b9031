package spectrum

import "sort"

// Stats holds summary statistics of the counts in a spectrum. They feed
// heuristic starting guesses for the sampler, so robustness matters more
// than higher moments here.
type Stats struct {
	Length     int
	Min        float64
	Max        float64
	MaxPos     int     // index of the maximum count
	PeakNM     float64 // wavelength at the maximum count
	Mean       float64
	Median     float64
	Total      float64 // sum of counts
	SpanNM     float64 // wavelength extent
	StepNM     float64 // mean wavelength step
}

// Summary computes summary statistics for the spectrum in a single pass
// plus one sort for the median.
func (s *Spectrum) Summary() Stats {
	n := s.Len()

	st := Stats{
		Length: n,
		Min:    s.Counts[0],
		Max:    s.Counts[0],
	}

	// Kahan summation for the total.
	var sum, comp float64
	for i, c := range s.Counts {
		y := c - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t

		if c > st.Max {
			st.Max = c
			st.MaxPos = i
		}
		if c < st.Min {
			st.Min = c
		}
	}

	st.Total = sum
	st.Mean = sum / float64(n)
	st.PeakNM = s.Wavelength[st.MaxPos]
	st.SpanNM = s.Wavelength[n-1] - s.Wavelength[0]
	if n > 1 {
		st.StepNM = st.SpanNM / float64(n-1)
	}

	sorted := make([]float64, n)
	copy(sorted, s.Counts)
	sort.Float64s(sorted)
	if n%2 == 1 {
		st.Median = sorted[n/2]
	} else {
		st.Median = 0.5 * (sorted[n/2-1] + sorted[n/2])
	}

	return st
}
