package dataset

import "errors"

// Sentinel error kinds for this package.
var (
	ErrOpen   = errors.New("open dataset failed")
	ErrHeader = errors.New("dataset has no header")
	ErrParse  = errors.New("parse dataset value failed")
)
