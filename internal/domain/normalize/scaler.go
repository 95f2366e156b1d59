// Package normalize rescales feature columns to [0,1].
package normalize

import (
	"fmt"
	"math"
)

// Scaler holds the per-dimension range learned by Fit.
// The zero value is an unfitted scaler.
type Scaler struct {
	min []float64
	max []float64
}

// Fit learns the minimum and maximum of every column of X. NaN and ±Inf
// cells are rejected with ErrNonFinite.
func Fit(X [][]float64) (Scaler, error) {
	if len(X) == 0 || len(X[0]) == 0 {
		return Scaler{}, ErrEmptyInput
	}
	width := len(X[0])
	lo := make([]float64, width)
	hi := make([]float64, width)
	copy(lo, X[0])
	copy(hi, X[0])

	for i, row := range X {
		if len(row) != width {
			return Scaler{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), width)
		}
		if err := checkFinite(i, row); err != nil {
			return Scaler{}, err
		}
		for j, v := range row {
			if v < lo[j] {
				lo[j] = v
			}
			if v > hi[j] {
				hi[j] = v
			}
		}
	}
	return Scaler{min: lo, max: hi}, nil
}

// Fitted reports whether the scaler holds a learned range.
func (s Scaler) Fitted() bool {
	return len(s.min) > 0
}

// Width returns the number of dimensions the scaler was fitted on.
func (s Scaler) Width() int {
	return len(s.min)
}

// Range returns the learned bounds of dimension i.
func (s Scaler) Range(i int) (lo, hi float64) {
	return s.min[i], s.max[i]
}

// Transform maps every value v of column i to (v-min_i)/(max_i-min_i).
// Columns with max_i == min_i map to 0. Values outside the fitted range
// are not clipped.
func (s Scaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.min) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), len(s.min))
		}
		if err := checkFinite(i, row); err != nil {
			return nil, err
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			span := s.max[j] - s.min[j]
			if span == 0 {
				continue
			}
			scaled[j] = (v - s.min[j]) / span
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits a scaler on X and returns it along with the scaled X.
func FitTransform(X [][]float64) (Scaler, [][]float64, error) {
	s, err := Fit(X)
	if err != nil {
		return Scaler{}, nil, err
	}
	scaled, err := s.Transform(X)
	if err != nil {
		return Scaler{}, nil, err
	}
	return s, scaled, nil
}

func checkFinite(i int, row []float64) error {
	for j, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: row %d column %d is %v", ErrNonFinite, i, j, v)
		}
	}
	return nil
}
