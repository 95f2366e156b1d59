// Package config defines pipeline configuration and its loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and TBTL_ environment variables on top.
// - Validate reports the first out-of-range setting wrapped in ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// SubmissionsPath and ScoresPath locate the two input tables.
	SubmissionsPath string `koanf:"submissions_path"`
	ScoresPath      string `koanf:"scores_path"`

	// HoldoutFraction is the share of labeled rows kept for evaluation.
	HoldoutFraction float64 `koanf:"holdout_fraction"`

	// SplitSeed drives the train/test shuffle; ModelSeed drives the estimators.
	SplitSeed int64 `koanf:"split_seed"`
	ModelSeed int64 `koanf:"model_seed"`

	// WorkerCount bounds how many models train concurrently.
	WorkerCount int `koanf:"worker_count"`

	ForestTrees          int `koanf:"forest_trees"`
	ForestMaxDepth       int `koanf:"forest_max_depth"`
	ForestMinSamplesLeaf int `koanf:"forest_min_samples_leaf"`

	// ForestFeatureFraction is the share of features tried at each forest split.
	ForestFeatureFraction float64 `koanf:"forest_feature_fraction"`

	BoostRounds       int     `koanf:"boost_rounds"`
	BoostLearningRate float64 `koanf:"boost_learning_rate"`
	BoostMaxDepth     int     `koanf:"boost_max_depth"`
	BoostLambda       float64 `koanf:"boost_lambda"`
	BoostSubsample    float64 `koanf:"boost_subsample"`

	// Epsilon guards the pre_score ratio denominator.
	Epsilon float64 `koanf:"epsilon"`

	// ShowCorrelation prints the correlation heatmap after the metrics.
	ShowCorrelation bool `koanf:"show_correlation"`

	// PredictUnlabeled scores the unlabeled partition with the best model.
	PredictUnlabeled bool   `koanf:"predict_unlabeled"`
	PredictionsPath  string `koanf:"predictions_path"`

	// MetricsPath, when set, receives a Prometheus text dump after the run.
	MetricsPath string `koanf:"metrics_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		HoldoutFraction:       0.1,
		SplitSeed:             42,
		ModelSeed:             42,
		WorkerCount:           3,
		ForestTrees:           100,
		ForestMaxDepth:        0,
		ForestMinSamplesLeaf:  1,
		ForestFeatureFraction: 1,
		BoostRounds:           100,
		BoostLearningRate:     0.3,
		BoostMaxDepth:         6,
		BoostLambda:           1,
		BoostSubsample:        1,
		Epsilon:               1e-5,
		ShowCorrelation:       true,
	}
}

// Validate checks ranges. Input paths are not required here because the
// command line may still supply them.
func (c *Config) Validate() error {
	switch {
	case c.HoldoutFraction <= 0 || c.HoldoutFraction >= 1:
		return invalid("holdout_fraction must be in (0, 1), got %v", c.HoldoutFraction)
	case c.WorkerCount < 1:
		return invalid("worker_count must be positive, got %d", c.WorkerCount)
	case c.ForestTrees < 1:
		return invalid("forest_trees must be positive, got %d", c.ForestTrees)
	case c.ForestMaxDepth < 0:
		return invalid("forest_max_depth must not be negative, got %d", c.ForestMaxDepth)
	case c.ForestMinSamplesLeaf < 1:
		return invalid("forest_min_samples_leaf must be positive, got %d", c.ForestMinSamplesLeaf)
	case c.ForestFeatureFraction <= 0 || c.ForestFeatureFraction > 1:
		return invalid("forest_feature_fraction must be in (0, 1], got %v", c.ForestFeatureFraction)
	case c.BoostRounds < 1:
		return invalid("boost_rounds must be positive, got %d", c.BoostRounds)
	case c.BoostLearningRate <= 0:
		return invalid("boost_learning_rate must be positive, got %v", c.BoostLearningRate)
	case c.BoostMaxDepth < 1:
		return invalid("boost_max_depth must be positive, got %d", c.BoostMaxDepth)
	case c.BoostLambda < 0:
		return invalid("boost_lambda must not be negative, got %v", c.BoostLambda)
	case c.BoostSubsample <= 0 || c.BoostSubsample > 1:
		return invalid("boost_subsample must be in (0, 1], got %v", c.BoostSubsample)
	case c.Epsilon <= 0:
		return invalid("epsilon must be positive, got %v", c.Epsilon)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	}

	if c.PredictUnlabeled && c.PredictionsPath == "" {
		return invalid("predictions_path is required when predict_unlabeled is set")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
