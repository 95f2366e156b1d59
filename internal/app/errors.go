package app

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	ErrNoBestModel = errors.New("no model to predict with")
)

// Stage names a pipeline step.
type Stage string

// Pipeline stages in execution order.
const (
	StageReconcile   Stage = "reconcile"
	StageFeatures    Stage = "features"
	StageNormalize   Stage = "normalize"
	StageSplit       Stage = "split"
	StageTrain       Stage = "train"
	StageEvaluate    Stage = "evaluate"
	StageCorrelation Stage = "correlation"
	StagePredict     Stage = "predict"
)

// StageError reports which stage failed. errors.Is reaches the cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
