package reconcile

import "errors"

// Sentinel error kinds for this package.
var (
	ErrSchema = errors.New("schema error")
)
