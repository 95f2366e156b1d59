package split

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidFraction  = errors.New("holdout fraction must be in (0,1)")
	ErrInsufficientData = errors.New("insufficient data")
	ErrLengthMismatch   = errors.New("features and labels differ in length")
)
