// Package reconcile joins submission records with known final scores.
package reconcile

import (
	"fmt"

	"github.com/okian/tbtl/internal/domain/record"
)

// Reconcile left-joins submissions onto scores by username.
// Every submission is kept. A submission whose student appears k times in the
// score table is emitted k times, once per score row, in score-table order.
func Reconcile(subs record.SubmissionTable, scores record.ScoreTable) ([]record.ReconciledRow, error) {
	if !record.HasColumn(subs.Columns, record.ColUsername) {
		return nil, fmt.Errorf("%w: submissions have no %q column", ErrSchema, record.ColUsername)
	}
	if !record.HasColumn(scores.Columns, record.ColUsername) {
		return nil, fmt.Errorf("%w: scores have no %q column", ErrSchema, record.ColUsername)
	}

	index := make(map[string][]int, len(scores.Rows))
	for i, s := range scores.Rows {
		index[s.Username] = append(index[s.Username], i)
	}

	out := make([]record.ReconciledRow, 0, len(subs.Rows))
	for _, sub := range subs.Rows {
		matches := index[sub.Username]
		if len(matches) == 0 {
			out = append(out, record.ReconciledRow{SubmissionRecord: sub})
			continue
		}
		for _, i := range matches {
			out = append(out, record.ReconciledRow{
				SubmissionRecord: sub,
				TBTL:             scores.Rows[i].TBTL,
			})
		}
	}
	return out, nil
}

// Partition splits rows into those with and without a final score.
// Both outputs keep input order.
func Partition(rows []record.ReconciledRow) (labeled, unlabeled []record.ReconciledRow) {
	for _, r := range rows {
		if r.Labeled() {
			labeled = append(labeled, r)
		} else {
			unlabeled = append(unlabeled, r)
		}
	}
	return labeled, unlabeled
}
