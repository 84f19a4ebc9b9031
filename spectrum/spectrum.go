package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrEmptyInput     = errors.New("spectrum: empty input")
	ErrLengthMismatch = errors.New("spectrum: wavelength/counts length mismatch")
	ErrNotIncreasing  = errors.New("spectrum: wavelength axis must be strictly increasing")
	ErrNonFinite      = errors.New("spectrum: non-finite value")
	ErrEmptyWindow    = errors.New("spectrum: crop window contains no points")
)

// Spectrum is a single measured spectrum: a strictly increasing wavelength
// axis in nanometers, the corresponding CCD counts, and free-form
// acquisition metadata.
//
// The slices are owned by the Spectrum after construction; callers must not
// mutate them.
type Spectrum struct {
	Wavelength []float64
	Counts     []float64
	Metadata   map[string]string
}

// Option mutates a Spectrum during construction.
type Option func(*Spectrum)

// WithMetadata attaches a single metadata key/value pair.
func WithMetadata(key, value string) Option {
	return func(s *Spectrum) {
		if s.Metadata == nil {
			s.Metadata = make(map[string]string)
		}
		s.Metadata[key] = value
	}
}

// New constructs a validated Spectrum from a wavelength axis and counts.
//
// wavelength must be strictly increasing and both slices must be non-empty,
// of equal length, and free of NaN/Inf values. The slices are not copied.
func New(wavelength, counts []float64, opts ...Option) (*Spectrum, error) {
	if len(wavelength) == 0 || len(counts) == 0 {
		return nil, ErrEmptyInput
	}
	if len(wavelength) != len(counts) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(wavelength), len(counts))
	}
	for i, w := range wavelength {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: wavelength[%d]=%v", ErrNonFinite, i, w)
		}
		if i > 0 && !(w > wavelength[i-1]) {
			return nil, fmt.Errorf("%w: index %d", ErrNotIncreasing, i)
		}
	}
	for i, c := range counts {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: counts[%d]=%v", ErrNonFinite, i, c)
		}
	}

	s := &Spectrum{Wavelength: wavelength, Counts: counts}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Len returns the number of points in the spectrum.
func (s *Spectrum) Len() int { return len(s.Wavelength) }

// Crop returns the sub-spectrum with wavelengths in [loNM, hiNM].
//
// The returned Spectrum shares the underlying slices. Metadata is shared,
// not copied.
func (s *Spectrum) Crop(loNM, hiNM float64) (*Spectrum, error) {
	if !(hiNM > loNM) {
		return nil, fmt.Errorf("spectrum: invalid crop window [%g, %g]", loNM, hiNM)
	}
	i0 := sort.SearchFloat64s(s.Wavelength, loNM)
	i1 := sort.Search(len(s.Wavelength), func(k int) bool { return s.Wavelength[k] > hiNM })
	if i0 >= i1 {
		return nil, ErrEmptyWindow
	}
	return &Spectrum{
		Wavelength: s.Wavelength[i0:i1],
		Counts:     s.Counts[i0:i1],
		Metadata:   s.Metadata,
	}, nil
}
