// Package features derives per-row numeric features from reconciled rows.
package features

import (
	"fmt"

	"github.com/okian/tbtl/internal/domain/record"
)

// Dimension indexes of a Vector.
const (
	Coefficient = iota
	StatusEncoded
	IsFinal
	SubmissionCount
	AvgPreScore
	PreScoreRatio

	NumFeatures
)

// Names lists the feature names in Vector order.
var Names = [NumFeatures]string{
	"coefficient",
	"status_encoded",
	"is_final",
	"submission_count",
	"avg_pre_score",
	"pre_score_ratio",
}

// Vector is the derived feature tuple of one row.
type Vector [NumFeatures]float64

// Stats holds the per-username aggregates.
type Stats struct {
	Count       int
	AvgPreScore float64
}

// Aggregates maps a username to its aggregates.
type Aggregates map[string]Stats

type builder struct {
	epsilon float64
	aggs    Aggregates
}

// Aggregate groups rows by username and computes submission count and mean
// pre_score per group.
func Aggregate(rows []record.ReconciledRow) (Aggregates, error) {
	type acc struct {
		n   int
		sum float64
	}
	groups := make(map[string]*acc)
	for i, r := range rows {
		if err := checkRow(i, r); err != nil {
			return nil, err
		}
		a, ok := groups[r.Username]
		if !ok {
			a = &acc{}
			groups[r.Username] = a
		}
		a.n++
		a.sum += *r.PreScore
	}

	aggs := make(Aggregates, len(groups))
	for user, a := range groups {
		aggs[user] = Stats{Count: a.n, AvgPreScore: a.sum / float64(a.n)}
	}
	return aggs, nil
}

// Build derives one Vector per row, in input order. Aggregates are computed
// over rows unless WithAggregates supplies them.
func Build(rows []record.ReconciledRow, opts ...Option) ([]Vector, error) {
	b := &builder{epsilon: DefaultEpsilon}
	for _, opt := range opts {
		opt(b)
	}

	for i, r := range rows {
		if err := checkRow(i, r); err != nil {
			return nil, err
		}
	}

	aggs := b.aggs
	if aggs == nil {
		var err error
		if aggs, err = Aggregate(rows); err != nil {
			return nil, err
		}
	}

	out := make([]Vector, len(rows))
	for i, r := range rows {
		st, ok := aggs[r.Username]
		if !ok {
			return nil, fmt.Errorf("%w: row %d (%q)", ErrUnknownUsername, i, r.Username)
		}
		out[i] = Vector{
			Coefficient:     *r.Coefficient,
			StatusEncoded:   *r.StatusEncoded,
			IsFinal:         *r.IsFinal,
			SubmissionCount: float64(st.Count),
			AvgPreScore:     st.AvgPreScore,
			// No clamping: a coefficient of exactly -epsilon yields ±Inf (or NaN for 0/0).
			PreScoreRatio: *r.PreScore / (*r.Coefficient + b.epsilon),
		}
	}
	return out, nil
}

// Matrix copies vectors into a row-major matrix.
func Matrix(vs []Vector) [][]float64 {
	out := make([][]float64, len(vs))
	for i := range vs {
		row := make([]float64, NumFeatures)
		copy(row, vs[i][:])
		out[i] = row
	}
	return out
}

// Targets extracts the final scores of labeled rows.
func Targets(rows []record.ReconciledRow) ([]float64, error) {
	y := make([]float64, len(rows))
	for i, r := range rows {
		if r.TBTL == nil {
			return nil, fmt.Errorf("%w: row %d (%s) has no %s", ErrMissingColumn, i, r.Username, record.ColTBTL)
		}
		y[i] = *r.TBTL
	}
	return y, nil
}

func checkRow(i int, r record.ReconciledRow) error {
	missing := ""
	switch {
	case r.PreScore == nil:
		missing = record.ColPreScore
	case r.Coefficient == nil:
		missing = record.ColCoefficient
	case r.IsFinal == nil:
		missing = record.ColIsFinal
	case r.StatusEncoded == nil:
		missing = record.ColStatusEncoded
	default:
		return nil
	}
	return fmt.Errorf("%w: row %d (%s) has no %s", ErrMissingColumn, i, r.Username, missing)
}
