package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/okian/tbtl/internal/adapters/dataset"
	"github.com/okian/tbtl/internal/adapters/report"
	"github.com/okian/tbtl/internal/app"
	"github.com/okian/tbtl/internal/config"
	"github.com/okian/tbtl/internal/domain/regression"
	"github.com/okian/tbtl/pkg/logger"
	"github.com/okian/tbtl/pkg/metrics"
)

const fileMode = 0o644

// ErrMissingInput is returned when an input table path is not configured.
var ErrMissingInput = errors.New("input path not set")

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML config file (overrides $" + config.EnvFile + ")",
	}
	submissionsFlag = &cli.StringFlag{
		Name:    "submissions",
		Aliases: []string{"s"},
		Usage:   "Submission table (CSV)",
	}
	scoresFlag = &cli.StringFlag{
		Name:  "scores",
		Usage: "Final score table (CSV)",
	}
	holdoutFlag = &cli.FloatFlag{
		Name:  "holdout",
		Usage: "Share of labeled rows held out for evaluation",
	}
	splitSeedFlag = &cli.Int64Flag{
		Name:  "split-seed",
		Usage: "Seed of the train/test shuffle",
	}
	modelSeedFlag = &cli.Int64Flag{
		Name:  "model-seed",
		Usage: "Seed of the random forest and boosting models",
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Models trained concurrently",
	}
	treesFlag = &cli.IntFlag{
		Name:  "trees",
		Usage: "Random forest size",
	}
	roundsFlag = &cli.IntFlag{
		Name:  "rounds",
		Usage: "Gradient boosting rounds",
	}
	correlationFlag = &cli.BoolFlag{
		Name:  "correlation",
		Usage: "Print the feature correlation heatmap",
	}
	predictFlag = &cli.BoolFlag{
		Name:  "predict",
		Usage: "Predict scores of students without one",
	}
	predictionsFlag = &cli.StringFlag{
		Name:  "predictions",
		Usage: "CSV file receiving predictions",
	}
	metricsFlag = &cli.StringFlag{
		Name:  "metrics",
		Usage: "Prometheus text file written after the run",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "debug, info, warn or error",
	}
	logFormatFlag = &cli.StringFlag{
		Name:  "log-format",
		Usage: "text or json",
	}
)

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "tbtl",
		Version:   fmt.Sprintf("%s (commit: %s)", version, commit),
		Usage:     "Train and compare final score regressors on course submissions",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			configFlag,
			submissionsFlag,
			scoresFlag,
			holdoutFlag,
			splitSeedFlag,
			modelSeedFlag,
			workersFlag,
			treesFlag,
			roundsFlag,
			correlationFlag,
			predictFlag,
			predictionsFlag,
			metricsFlag,
			logLevelFlag,
			logFormatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.LoadFrom(ctx, cmd.String(configFlag.Name))
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(ctx, cfg, stdout, stderr)
		},
	}
}

// applyFlags overrides file and env values with the flags set on the command line.
func applyFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet(submissionsFlag.Name) {
		cfg.SubmissionsPath = cmd.String(submissionsFlag.Name)
	}
	if cmd.IsSet(scoresFlag.Name) {
		cfg.ScoresPath = cmd.String(scoresFlag.Name)
	}
	if cmd.IsSet(holdoutFlag.Name) {
		cfg.HoldoutFraction = cmd.Float(holdoutFlag.Name)
	}
	if cmd.IsSet(splitSeedFlag.Name) {
		cfg.SplitSeed = cmd.Int64(splitSeedFlag.Name)
	}
	if cmd.IsSet(modelSeedFlag.Name) {
		cfg.ModelSeed = cmd.Int64(modelSeedFlag.Name)
	}
	if cmd.IsSet(workersFlag.Name) {
		cfg.WorkerCount = cmd.Int(workersFlag.Name)
	}
	if cmd.IsSet(treesFlag.Name) {
		cfg.ForestTrees = cmd.Int(treesFlag.Name)
	}
	if cmd.IsSet(roundsFlag.Name) {
		cfg.BoostRounds = cmd.Int(roundsFlag.Name)
	}
	if cmd.IsSet(correlationFlag.Name) {
		cfg.ShowCorrelation = cmd.Bool(correlationFlag.Name)
	}
	if cmd.IsSet(predictFlag.Name) {
		cfg.PredictUnlabeled = cmd.Bool(predictFlag.Name)
	}
	if cmd.IsSet(predictionsFlag.Name) {
		cfg.PredictionsPath = cmd.String(predictionsFlag.Name)
	}
	if cmd.IsSet(metricsFlag.Name) {
		cfg.MetricsPath = cmd.String(metricsFlag.Name)
	}
	if cmd.IsSet(logLevelFlag.Name) {
		cfg.LogLevel = cmd.String(logLevelFlag.Name)
	}
	if cmd.IsSet(logFormatFlag.Name) {
		cfg.LogFormat = cmd.String(logFormatFlag.Name)
	}
}

// pipelineOptions maps the config onto the pipeline and its model bank.
func pipelineOptions(cfg *config.Config, l logger.Logger) []app.Option {
	bank := regression.DefaultRegistry(
		regression.WithForestTrees(cfg.ForestTrees),
		regression.WithForestMaxDepth(cfg.ForestMaxDepth),
		regression.WithForestMinSamplesLeaf(cfg.ForestMinSamplesLeaf),
		regression.WithForestFeatureFraction(cfg.ForestFeatureFraction),
		regression.WithBoostRounds(cfg.BoostRounds),
		regression.WithBoostLearningRate(cfg.BoostLearningRate),
		regression.WithBoostMaxDepth(cfg.BoostMaxDepth),
		regression.WithBoostLambda(cfg.BoostLambda),
		regression.WithBoostSubsample(cfg.BoostSubsample),
	)
	return []app.Option{
		app.WithLogger(l),
		app.WithRegistry(bank),
		app.WithHoldoutFraction(cfg.HoldoutFraction),
		app.WithSplitSeed(cfg.SplitSeed),
		app.WithModelSeed(cfg.ModelSeed),
		app.WithEpsilon(cfg.Epsilon),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithPredictUnlabeled(cfg.PredictUnlabeled),
	}
}

func run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	if cfg.SubmissionsPath == "" {
		return fmt.Errorf("%w: submissions", ErrMissingInput)
	}
	if cfg.ScoresPath == "" {
		return fmt.Errorf("%w: scores", ErrMissingInput)
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(logger.Format(cfg.LogFormat))); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	subs, err := dataset.LoadSubmissions(ctx, cfg.SubmissionsPath)
	if err != nil {
		return fmt.Errorf("load submissions: %w", err)
	}
	scores, err := dataset.LoadScores(ctx, cfg.ScoresPath)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}

	res, runErr := app.New(pipelineOptions(cfg, log)...).Run(ctx, subs, scores)

	// The metrics file records failed runs too.
	if cfg.MetricsPath != "" {
		if err := metrics.WriteTextfile(cfg.MetricsPath); err != nil {
			log.Error(ctx, "metrics dump failed", logger.String("path", cfg.MetricsPath), logger.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	if err := report.WriteMetrics(stdout, res.Report); err != nil {
		return err
	}
	if cfg.ShowCorrelation {
		if _, err := fmt.Fprintln(stdout); err != nil {
			return err
		}
		if err := report.WriteHeatmap(stdout, res.Correlation); err != nil {
			return err
		}
	}

	if cfg.PredictUnlabeled {
		if err := writePredictions(cfg.PredictionsPath, res); err != nil {
			return err
		}
		log.Info(ctx, "predictions written",
			logger.String("path", cfg.PredictionsPath),
			logger.Int("students", len(res.Predictions)),
		)
	}
	return nil
}

func writePredictions(path string, res app.Result) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode) //nolint:gosec // path comes from operator config
	if err != nil {
		return fmt.Errorf("write predictions: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("write predictions: %w", cerr)
		}
	}()
	return report.WritePredictions(f, res.Predictions)
}
