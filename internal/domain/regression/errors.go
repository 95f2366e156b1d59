package regression

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotFitted         = errors.New("model not fitted")
	ErrUnknownModel      = errors.New("unknown model kind")
	ErrEmptyTrainingSet  = errors.New("empty training set")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrSolve             = errors.New("least squares solve failed")
)
