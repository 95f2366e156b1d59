// Package correlation computes the pairwise Pearson correlation of the
// feature columns and the target.
package correlation

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrShape is returned for empty or ragged columns.
var ErrShape = errors.New("correlation: bad column shape")

// Matrix is a labelled square correlation matrix.
type Matrix struct {
	Labels []string
	Values [][]float64
}

// At returns the correlation between columns i and j.
func (m Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Compute correlates every pair of columns. Columns with zero variance
// correlate as NaN with every other column, including themselves.
func Compute(labels []string, columns [][]float64) (Matrix, error) {
	if len(labels) != len(columns) || len(columns) == 0 {
		return Matrix{}, fmt.Errorf("%w: %d labels, %d columns", ErrShape, len(labels), len(columns))
	}
	n := len(columns[0])
	if n < 2 {
		return Matrix{}, fmt.Errorf("%w: need at least 2 rows, got %d", ErrShape, n)
	}
	for i, c := range columns {
		if len(c) != n {
			return Matrix{}, fmt.Errorf("%w: column %s has %d rows, want %d", ErrShape, labels[i], len(c), n)
		}
	}

	k := len(columns)
	values := make([][]float64, k)
	for i := range values {
		values[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			r := stat.Correlation(columns[i], columns[j], nil)
			values[i][j] = r
			values[j][i] = r
		}
	}
	return Matrix{Labels: append([]string(nil), labels...), Values: values}, nil
}

// FromRows transposes row-major data plus a target column into labelled
// columns and correlates them.
func FromRows(labels []string, rows [][]float64, target []float64, targetLabel string) (Matrix, error) {
	if len(rows) != len(target) {
		return Matrix{}, fmt.Errorf("%w: %d rows, %d targets", ErrShape, len(rows), len(target))
	}
	cols := make([][]float64, len(labels)+1)
	for j := range labels {
		cols[j] = make([]float64, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(labels) {
			return Matrix{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), len(labels))
		}
		for j, v := range row {
			cols[j][i] = v
		}
	}
	cols[len(labels)] = append([]float64(nil), target...)
	all := append(append([]string(nil), labels...), targetLabel)
	return Compute(all, cols)
}
