package app

import (
	"github.com/okian/tbtl/internal/domain/regression"
	"github.com/okian/tbtl/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRegistry replaces the model bank.
func WithRegistry(r *regression.Registry) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithHoldoutFraction sets the share of labeled rows used for evaluation.
// Range checks happen in the splitter so a bad value fails the split stage.
func WithHoldoutFraction(f float64) Option {
	return func(p *Pipeline) {
		p.holdout = f
	}
}

// WithSplitSeed seeds the train/test shuffle.
func WithSplitSeed(seed int64) Option {
	return func(p *Pipeline) {
		p.splitSeed = seed
	}
}

// WithModelSeed seeds the estimators.
func WithModelSeed(seed int64) Option {
	return func(p *Pipeline) {
		p.modelSeed = seed
	}
}

// WithEpsilon sets the pre_score ratio guard.
func WithEpsilon(eps float64) Option {
	return func(p *Pipeline) {
		if eps > 0 {
			p.epsilon = eps
		}
	}
}

// WithWorkerCount sets how many models train at once.
func WithWorkerCount(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithPredictUnlabeled enables the prediction pass over unlabeled rows.
func WithPredictUnlabeled(on bool) Option {
	return func(p *Pipeline) {
		p.predictUnlabeled = on
	}
}
