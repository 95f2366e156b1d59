// Package record contains the row types passed between pipeline stages.
package record

// Column names shared by the loaders and the reconciler.
const (
	ColUsername      = "username"
	ColPreScore      = "pre_score"
	ColCoefficient   = "coefficient"
	ColStatusEncoded = "status_encoded"
	ColIsFinal       = "is_final"
	ColTBTL          = "tbtl"
)

// SubmissionRecord is one student activity event.
// A nil numeric field means the value was absent in the source.
type SubmissionRecord struct {
	Username      string
	PreScore      *float64
	Coefficient   *float64
	StatusEncoded *float64
	IsFinal       *float64
}

// ScoreRecord is the final score of a student that completed the course.
type ScoreRecord struct {
	Username string
	TBTL     *float64
}

// SubmissionTable is a loaded submission dataset together with its header.
type SubmissionTable struct {
	Columns []string
	Rows    []SubmissionRecord
}

// ScoreTable is a loaded score dataset together with its header.
type ScoreTable struct {
	Columns []string
	Rows    []ScoreRecord
}

// ReconciledRow is a submission with the final score of its student, if known.
type ReconciledRow struct {
	SubmissionRecord
	TBTL *float64
}

// Labeled reports whether the row carries a final score.
func (r ReconciledRow) Labeled() bool {
	return r.TBTL != nil
}

// HasColumn reports whether name appears in columns.
func HasColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

// Float returns a pointer to v. Handy when building records in code.
func Float(v float64) *float64 {
	return &v
}

// Prediction is the estimated final score of a student without one.
type Prediction struct {
	Username string
	TBTL     float64
	// Rows is the number of submissions the estimate was averaged over.
	Rows int
}
