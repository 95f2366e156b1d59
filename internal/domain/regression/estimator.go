// Package regression holds the bank of regression estimators trained on the
// labeled feature matrix.
package regression

import (
	"context"
	"fmt"
)

// Kind names an estimator in the registry.
type Kind string

// Registered estimator kinds, in report order.
const (
	KindLinear   Kind = "LinearRegression"
	KindForest   Kind = "RandomForest"
	KindBoosting Kind = "GradientBoosting"
)

// Estimator is a regression model that learns from a feature matrix.
type Estimator interface {
	// Name returns the estimator kind.
	Name() string
	// Fit learns parameters from X and y. Estimators are fitted once.
	Fit(X [][]float64, y []float64) error
	// Predict returns one value per row of X. It fails with ErrNotFitted
	// before Fit succeeded.
	Predict(X [][]float64) ([]float64, error)
}

// Model is a fitted estimator as returned by Train.
type Model struct {
	Kind Kind
	est  Estimator
}

// Predict returns the model's predictions for X.
func (m Model) Predict(X [][]float64) ([]float64, error) {
	if m.est == nil {
		return nil, ErrNotFitted
	}
	return m.est.Predict(X)
}

// Name returns the model kind as a string.
func (m Model) Name() string {
	return string(m.Kind)
}

// Entry binds a kind to a constructor taking the random seed.
type Entry struct {
	Kind Kind
	New  func(seed int64) Estimator
}

// Registry is an ordered set of estimator constructors.
type Registry struct {
	entries []Entry
}

// NewRegistry builds a registry iterated in the given order.
func NewRegistry(entries ...Entry) *Registry {
	return &Registry{entries: entries}
}

// DefaultRegistry returns linear regression, random forest and gradient
// boosting, in that order.
func DefaultRegistry(opts ...Option) *Registry {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return NewRegistry(
		Entry{Kind: KindLinear, New: func(int64) Estimator { return NewLinearRegression() }},
		Entry{Kind: KindForest, New: func(seed int64) Estimator { return NewRandomForest(seed, p.forest) }},
		Entry{Kind: KindBoosting, New: func(seed int64) Estimator { return NewGradientBoosting(seed, p.boost) }},
	)
}

// Kinds lists the registered kinds in order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, len(r.entries))
	for i, e := range r.entries {
		kinds[i] = e.Kind
	}
	return kinds
}

// Len returns the number of registered estimators.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Lookup returns the entry registered for kind.
func (r *Registry) Lookup(kind Kind) (Entry, bool) {
	for _, e := range r.entries {
		if e.Kind == kind {
			return e, true
		}
	}
	return Entry{}, false
}

// Train constructs the estimator registered for kind and fits it on X and y.
func (r *Registry) Train(ctx context.Context, kind Kind, X [][]float64, y []float64, seed int64) (Model, error) {
	e, ok := r.Lookup(kind)
	if !ok {
		return Model{}, fmt.Errorf("%w: %s", ErrUnknownModel, kind)
	}
	if err := ctx.Err(); err != nil {
		return Model{}, fmt.Errorf("train %s: %w", kind, err)
	}
	est := e.New(seed)
	if err := est.Fit(X, y); err != nil {
		return Model{}, fmt.Errorf("train %s: %w", kind, err)
	}
	return Model{Kind: kind, est: est}, nil
}

// checkData validates a training set and returns its width.
func checkData(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, len(X), len(y))
	}
	width := len(X[0])
	if width == 0 {
		return 0, fmt.Errorf("%w: rows have no columns", ErrDimensionMismatch)
	}
	for i, row := range X {
		if len(row) != width {
			return 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), width)
		}
	}
	return width, nil
}

// checkRows validates a prediction matrix against the fitted width.
func checkRows(X [][]float64, width int) error {
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), width)
		}
	}
	return nil
}
