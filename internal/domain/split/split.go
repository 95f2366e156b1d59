// Package split partitions labeled data into training and holdout subsets.
package split

import (
	"fmt"
	"math"
	"math/rand"
)

// roundingSlack absorbs float error in fraction*n before rounding up,
// so 0.1*100 yields 10 test rows rather than 11.
const roundingSlack = 1e-9

// Result is a train/test partition. TrainIndex and TestIndex hold the
// positions of the rows in the input.
type Result struct {
	TrainX     [][]float64
	TestX      [][]float64
	TrainY     []float64
	TestY      []float64
	TrainIndex []int
	TestIndex  []int
}

// TestSize returns the number of holdout rows for n rows: ceil(fraction*n).
func TestSize(n int, fraction float64) int {
	return int(math.Ceil(fraction*float64(n) - roundingSlack))
}

// Split shuffles row positions with a source seeded by seed and assigns the
// first TestSize positions to the test partition and the rest to training.
// The same seed and input always give the same partition.
func Split(X [][]float64, y []float64, holdoutFraction float64, seed int64) (Result, error) {
	if !(holdoutFraction > 0 && holdoutFraction < 1) {
		return Result{}, fmt.Errorf("%w: got %v", ErrInvalidFraction, holdoutFraction)
	}
	if len(X) != len(y) {
		return Result{}, fmt.Errorf("%w: %d rows, %d labels", ErrLengthMismatch, len(X), len(y))
	}
	n := len(X)
	if n < 2 {
		return Result{}, fmt.Errorf("%w: need at least 2 rows, got %d", ErrInsufficientData, n)
	}
	nTest := TestSize(n, holdoutFraction)
	if nTest < 1 || nTest >= n {
		return Result{}, fmt.Errorf("%w: %d rows with fraction %v leaves an empty partition", ErrInsufficientData, n, holdoutFraction)
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic split
	perm := rng.Perm(n)

	res := Result{
		TestIndex:  perm[:nTest],
		TrainIndex: perm[nTest:],
	}
	res.TestX, res.TestY = take(X, y, res.TestIndex)
	res.TrainX, res.TrainY = take(X, y, res.TrainIndex)
	return res, nil
}

func take(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
