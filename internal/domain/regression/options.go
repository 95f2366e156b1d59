package regression

// ForestConfig configures a random forest.
type ForestConfig struct {
	Trees int
	// MaxDepth limits tree depth; 0 grows trees until leaves are pure.
	MaxDepth       int
	MinSamplesLeaf int
	// FeatureFraction is the share of features considered at each split.
	FeatureFraction float64
}

// BoostConfig configures gradient boosting.
type BoostConfig struct {
	Rounds       int
	LearningRate float64
	MaxDepth     int
	// Lambda is the L2 penalty on leaf values.
	Lambda float64
	// Subsample is the share of rows drawn (without replacement) per round.
	Subsample float64
}

// DefaultForestConfig mirrors the usual random forest regressor defaults.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 100, MaxDepth: 0, MinSamplesLeaf: 1, FeatureFraction: 1}
}

// DefaultBoostConfig mirrors the usual XGBoost regressor defaults.
func DefaultBoostConfig() BoostConfig {
	return BoostConfig{Rounds: 100, LearningRate: 0.3, MaxDepth: 6, Lambda: 1, Subsample: 1}
}

type params struct {
	forest ForestConfig
	boost  BoostConfig
}

func defaultParams() params {
	return params{forest: DefaultForestConfig(), boost: DefaultBoostConfig()}
}

// Option applies a configuration option to the default registry.
type Option func(*params)

// WithForestTrees sets the number of trees in the forest.
func WithForestTrees(n int) Option {
	return func(p *params) {
		if n > 0 {
			p.forest.Trees = n
		}
	}
}

// WithForestMaxDepth limits forest tree depth; 0 means unlimited.
func WithForestMaxDepth(depth int) Option {
	return func(p *params) {
		if depth >= 0 {
			p.forest.MaxDepth = depth
		}
	}
}

// WithForestMinSamplesLeaf sets the minimum number of samples in a forest leaf.
func WithForestMinSamplesLeaf(n int) Option {
	return func(p *params) {
		if n > 0 {
			p.forest.MinSamplesLeaf = n
		}
	}
}

// WithForestFeatureFraction sets the share of features tried at each split.
func WithForestFeatureFraction(f float64) Option {
	return func(p *params) {
		if f > 0 && f <= 1 {
			p.forest.FeatureFraction = f
		}
	}
}

// WithBoostRounds sets the number of boosting rounds.
func WithBoostRounds(n int) Option {
	return func(p *params) {
		if n > 0 {
			p.boost.Rounds = n
		}
	}
}

// WithBoostLearningRate sets the shrinkage applied to every round.
func WithBoostLearningRate(rate float64) Option {
	return func(p *params) {
		if rate > 0 {
			p.boost.LearningRate = rate
		}
	}
}

// WithBoostMaxDepth limits boosted tree depth.
func WithBoostMaxDepth(depth int) Option {
	return func(p *params) {
		if depth > 0 {
			p.boost.MaxDepth = depth
		}
	}
}

// WithBoostLambda sets the L2 penalty on leaf values.
func WithBoostLambda(lambda float64) Option {
	return func(p *params) {
		if lambda >= 0 {
			p.boost.Lambda = lambda
		}
	}
}

// WithBoostSubsample sets the share of rows used per round.
func WithBoostSubsample(f float64) Option {
	return func(p *params) {
		if f > 0 && f <= 1 {
			p.boost.Subsample = f
		}
	}
}
