// Package app wires the domain stages into a single batch run.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tbtl/internal/adapters/worker"
	"github.com/okian/tbtl/internal/domain/correlation"
	"github.com/okian/tbtl/internal/domain/evaluate"
	"github.com/okian/tbtl/internal/domain/features"
	"github.com/okian/tbtl/internal/domain/normalize"
	"github.com/okian/tbtl/internal/domain/reconcile"
	"github.com/okian/tbtl/internal/domain/record"
	"github.com/okian/tbtl/internal/domain/regression"
	"github.com/okian/tbtl/internal/domain/split"
	"github.com/okian/tbtl/pkg/logger"
	"github.com/okian/tbtl/pkg/metrics"
)

// Default run parameters.
const (
	DefaultHoldoutFraction = 0.1
	DefaultSeed            = 42
	defaultWorkers         = 3
)

// Counts records partition sizes of a run.
type Counts struct {
	Submissions int
	Reconciled  int
	Labeled     int
	Unlabeled   int
	Train       int
	Test        int
}

// Result is everything a run produced.
type Result struct {
	RunID       string
	Counts      Counts
	Report      evaluate.Report
	Correlation correlation.Matrix
	Scaler      normalize.Scaler
	Models      []regression.Model
	// Predictions is empty unless the prediction pass is enabled.
	Predictions []record.Prediction
}

// Pipeline runs the stages over one dataset snapshot.
type Pipeline struct {
	registry         *regression.Registry
	holdout          float64
	splitSeed        int64
	modelSeed        int64
	epsilon          float64
	workers          int
	predictUnlabeled bool
	logger           logger.Logger
}

// New constructs a Pipeline with default configuration.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:  regression.DefaultRegistry(),
		holdout:   DefaultHoldoutFraction,
		splitSeed: DefaultSeed,
		modelSeed: DefaultSeed,
		epsilon:   features.DefaultEpsilon,
		workers:   defaultWorkers,
		logger:    logger.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.Named("pipeline")
	return p
}

// Run executes every stage in order and stops at the first failure. The
// returned error is a *StageError naming the failed stage.
func (p *Pipeline) Run(ctx context.Context, subs record.SubmissionTable, scores record.ScoreTable) (Result, error) {
	runID := uuid.NewString()
	log := p.logger.With(logger.String("run_id", runID))

	metrics.RecordRunStarted()
	start := time.Now()
	log.Info(ctx, "pipeline started",
		logger.Int("submissions", len(subs.Rows)),
		logger.Int("scores", len(scores.Rows)),
		logger.Any("models", p.registry.Kinds()),
		logger.Bool("predict_unlabeled", p.predictUnlabeled),
	)

	res, err := p.run(ctx, log, subs, scores)
	metrics.RecordRunFinished(time.Now(), err != nil)
	if err != nil {
		log.Error(ctx, "pipeline failed", logger.Error(err))
		return Result{}, err
	}

	res.RunID = runID
	log.Info(ctx, "pipeline finished",
		logger.Int("models", res.Report.Len()),
		logger.Int("predictions", len(res.Predictions)),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, log logger.Logger, subs record.SubmissionTable, scores record.ScoreTable) (Result, error) {
	var (
		res                Result
		rows               []record.ReconciledRow
		labeled, unlabeled []record.ReconciledRow
		X                  [][]float64
		y                  []float64
		scaled             [][]float64
		parts              split.Result
	)
	res.Counts.Submissions = len(subs.Rows)
	metrics.SetRows("submissions", len(subs.Rows))

	err := p.stage(ctx, log, StageReconcile, func() error {
		var err error
		if rows, err = reconcile.Reconcile(subs, scores); err != nil {
			return err
		}
		labeled, unlabeled = reconcile.Partition(rows)
		res.Counts.Reconciled = len(rows)
		res.Counts.Labeled = len(labeled)
		res.Counts.Unlabeled = len(unlabeled)
		metrics.SetRows("reconciled", len(rows))
		metrics.SetRows("labeled", len(labeled))
		metrics.SetRows("unlabeled", len(unlabeled))
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	err = p.stage(ctx, log, StageFeatures, func() error {
		vs, err := features.Build(labeled, features.WithEpsilon(p.epsilon))
		if err != nil {
			return err
		}
		if y, err = features.Targets(labeled); err != nil {
			return err
		}
		X = features.Matrix(vs)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	err = p.stage(ctx, log, StageNormalize, func() error {
		var err error
		if res.Scaler, scaled, err = normalize.FitTransform(X); err != nil {
			return err
		}
		for i := 0; i < res.Scaler.Width(); i++ {
			lo, hi := res.Scaler.Range(i)
			log.Debug(ctx, "feature range",
				logger.String("feature", features.Names[i]),
				logger.Float64("min", lo),
				logger.Float64("max", hi),
			)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	err = p.stage(ctx, log, StageSplit, func() error {
		var err error
		if parts, err = split.Split(scaled, y, p.holdout, p.splitSeed); err != nil {
			return err
		}
		res.Counts.Train = len(parts.TrainX)
		res.Counts.Test = len(parts.TestX)
		metrics.SetRows("train", len(parts.TrainX))
		metrics.SetRows("test", len(parts.TestX))
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	err = p.stage(ctx, log, StageTrain, func() error {
		pool := worker.NewPool(p.registry, worker.WithWorkerCount(p.workers), worker.WithLogger(log))
		log.Debug(ctx, "training models",
			logger.Int("workers", pool.Workers()),
			logger.Int("rows", len(parts.TrainX)),
		)
		var err error
		res.Models, err = pool.TrainAll(ctx, p.registry.Kinds(), parts.TrainX, parts.TrainY, p.modelSeed)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	err = p.stage(ctx, log, StageEvaluate, func() error {
		var err error
		if res.Report, err = evaluate.EvaluateAll(res.Models, parts.TestX, parts.TestY); err != nil {
			return err
		}
		for _, e := range res.Report.Entries() {
			metrics.SetEvaluation(e.Name, "mse", e.Scores.MSE)
			metrics.SetEvaluation(e.Name, "mae", e.Scores.MAE)
			metrics.SetEvaluation(e.Name, "r2", e.Scores.R2)
			log.Info(ctx, "model evaluated",
				logger.String("model", e.Name),
				logger.Float64("mse", e.Scores.MSE),
				logger.Float64("mae", e.Scores.MAE),
				logger.Float64("r2", e.Scores.R2),
			)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	err = p.stage(ctx, log, StageCorrelation, func() error {
		var err error
		res.Correlation, err = correlation.FromRows(features.Names[:], X, y, record.ColTBTL)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	if !p.predictUnlabeled {
		return res, nil
	}

	err = p.stage(ctx, log, StagePredict, func() error {
		var err error
		res.Predictions, err = p.predict(unlabeled, res)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// predict scores unlabeled rows with the best holdout model and averages
// per username in first-seen order. Aggregates come from the unlabeled rows
// themselves; scaling reuses the labeled fit.
func (p *Pipeline) predict(unlabeled []record.ReconciledRow, res Result) ([]record.Prediction, error) {
	if len(unlabeled) == 0 {
		return []record.Prediction{}, nil
	}

	best, ok := res.Report.Best()
	if !ok {
		return nil, ErrNoBestModel
	}
	var model regression.Model
	for _, m := range res.Models {
		if m.Name() == best.Name {
			model = m
			break
		}
	}

	vs, err := features.Build(unlabeled, features.WithEpsilon(p.epsilon))
	if err != nil {
		return nil, err
	}
	X, err := res.Scaler.Transform(features.Matrix(vs))
	if err != nil {
		return nil, err
	}
	pred, err := model.Predict(X)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", best.Name, err)
	}

	index := make(map[string]int)
	var out []record.Prediction
	for i, r := range unlabeled {
		j, ok := index[r.Username]
		if !ok {
			j = len(out)
			index[r.Username] = j
			out = append(out, record.Prediction{Username: r.Username})
		}
		out[j].TBTL += pred[i]
		out[j].Rows++
	}
	for i := range out {
		out[i].TBTL /= float64(out[i].Rows)
	}
	return out, nil
}

func (p *Pipeline) stage(ctx context.Context, log logger.Logger, name Stage, fn func() error) error {
	if err := ctx.Err(); err != nil {
		metrics.RecordStageError(string(name))
		return &StageError{Stage: name, Err: err}
	}

	start := time.Now()
	err := fn()
	took := time.Since(start)
	metrics.ObserveStage(string(name), took)
	if err != nil {
		metrics.RecordStageError(string(name))
		return &StageError{Stage: name, Err: err}
	}

	log.Debug(ctx, "stage finished",
		logger.String("stage", string(name)),
		logger.Duration("took", took),
	)
	return nil
}
