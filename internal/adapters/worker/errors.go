package worker

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoKinds  = errors.New("no models to train")
	ErrTraining = errors.New("model training failed")
)
