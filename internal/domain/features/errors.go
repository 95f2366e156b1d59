package features

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMissingColumn   = errors.New("missing column")
	ErrUnknownUsername = errors.New("no aggregates for username")
)
