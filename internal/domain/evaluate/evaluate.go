// Package evaluate scores trained models on the holdout partition.
package evaluate

import (
	"fmt"
	"math"
)

// Predictor is the part of a trained model the evaluator needs.
type Predictor interface {
	Name() string
	Predict(X [][]float64) ([]float64, error)
}

// Scores holds the regression metrics of one model.
type Scores struct {
	MSE float64
	MAE float64
	R2  float64
}

// Metrics computes MSE, MAE and R2 of pred against truth.
// When truth has zero variance R2 is 1 for a perfect fit and 0 otherwise.
func Metrics(truth, pred []float64) (Scores, error) {
	if len(truth) == 0 {
		return Scores{}, ErrEmptyEvaluationSet
	}
	if len(truth) != len(pred) {
		return Scores{}, fmt.Errorf("%w: %d targets, %d predictions", ErrLengthMismatch, len(truth), len(pred))
	}
	n := float64(len(truth))

	var mean float64
	for i, p := range pred {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return Scores{}, fmt.Errorf("%w: row %d is %v", ErrNonFinite, i, p)
		}
		mean += truth[i]
	}
	mean /= n

	var sse, sae, sst float64
	for i, t := range truth {
		r := t - pred[i]
		sse += r * r
		sae += math.Abs(r)
		d := t - mean
		sst += d * d
	}

	s := Scores{MSE: sse / n, MAE: sae / n}
	switch {
	case sst != 0:
		s.R2 = 1 - sse/sst
	case sse == 0:
		s.R2 = 1
	default:
		s.R2 = 0
	}
	return s, nil
}

// Evaluate predicts X with m and scores the predictions against y.
func Evaluate(m Predictor, X [][]float64, y []float64) (Scores, error) {
	if len(X) == 0 || len(y) == 0 {
		return Scores{}, ErrEmptyEvaluationSet
	}
	pred, err := m.Predict(X)
	if err != nil {
		return Scores{}, fmt.Errorf("predict %s: %w", m.Name(), err)
	}
	s, err := Metrics(y, pred)
	if err != nil {
		return Scores{}, fmt.Errorf("score %s: %w", m.Name(), err)
	}
	return s, nil
}

// EvaluateAll scores every model on the same holdout and returns a report in
// model order. It stops at the first failure.
func EvaluateAll[M Predictor](models []M, X [][]float64, y []float64) (Report, error) {
	if len(X) == 0 || len(y) == 0 {
		return Report{}, ErrEmptyEvaluationSet
	}
	var b Builder
	for _, m := range models {
		s, err := Evaluate(m, X, y)
		if err != nil {
			return Report{}, err
		}
		if err := b.Add(m.Name(), s); err != nil {
			return Report{}, err
		}
	}
	return b.Report(), nil
}
