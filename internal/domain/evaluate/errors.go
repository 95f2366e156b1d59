package evaluate

import "errors"

// Sentinel error kinds for this package.
var (
	ErrEmptyEvaluationSet = errors.New("empty evaluation set")
	ErrLengthMismatch     = errors.New("predictions and targets differ in length")
	ErrNonFinite          = errors.New("non-finite prediction")
	ErrDuplicateModel     = errors.New("duplicate model name")
)
