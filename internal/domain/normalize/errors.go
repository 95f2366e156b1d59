package normalize

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotFitted         = errors.New("scaler not fitted")
	ErrEmptyInput        = errors.New("empty input")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrNonFinite         = errors.New("non-finite value")
)
