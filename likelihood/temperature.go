package likelihood

import (
	"errors"
	"fmt"
)

// ErrNoSlope is returned when a temperature map with zero slope is inverted.
var ErrNoSlope = errors.New("likelihood: temperature map slope must be non-zero")

// TemperatureModel is the linear map between sample temperature and the
// SiV line position relative to the calibration line:
//
//	centerOffset(T) = C0 + M*T
//
// M is the line shift per kelvin (nm/K) and C0 the zero-temperature offset
// (nm). Both come from an independent calibration of the setup.
type TemperatureModel struct {
	M  float64 // nm per kelvin
	C0 float64 // nm
}

// Offset returns the center offset predicted at temperature t.
func (tm TemperatureModel) Offset(t float64) float64 { return tm.C0 + tm.M*t }

// Temperature inverts the map for a measured center offset.
func (tm TemperatureModel) Temperature(centerOffset float64) (float64, error) {
	if tm.M == 0 {
		return 0, ErrNoSlope
	}
	return (centerOffset - tm.C0) / tm.M, nil
}

// Temperatures converts a slice of center-offset posterior samples to
// temperature samples, for downstream uncertainty estimation.
func (tm TemperatureModel) Temperatures(centerOffsets []float64) ([]float64, error) {
	if tm.M == 0 {
		return nil, ErrNoSlope
	}
	if len(centerOffsets) == 0 {
		return nil, fmt.Errorf("likelihood: no center-offset samples")
	}
	out := make([]float64, len(centerOffsets))
	inv := 1 / tm.M
	for i, c := range centerOffsets {
		out[i] = (c - tm.C0) * inv
	}
	return out, nil
}

// Pin returns a copy of p with the center offset pinned to the value the
// temperature map predicts at temperature t.
func (tm TemperatureModel) Pin(p Params, t float64) Params {
	p.CenterOffset = tm.Offset(t)
	return p
}
