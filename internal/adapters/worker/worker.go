// Package worker trains the model bank concurrently.
package worker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/tbtl/internal/domain/regression"
	"github.com/okian/tbtl/pkg/logger"
	"github.com/okian/tbtl/pkg/metrics"
)

const defaultWorkers = 3

// Trainer fits one model kind on a training set.
type Trainer interface {
	Train(ctx context.Context, kind regression.Kind, X [][]float64, y []float64, seed int64) (regression.Model, error)
}

// Pool runs training jobs on a bounded number of goroutines.
type Pool struct {
	trainer Trainer
	workers int
	logger  logger.Logger
}

// NewPool creates a pool backed by trainer.
func NewPool(trainer Trainer, opts ...Option) *Pool {
	p := &Pool{
		trainer: trainer,
		workers: defaultWorkers,
		logger:  logger.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.Named("worker")
	return p
}

// Workers reports the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

// TrainAll fits every kind on the same data and seed. Models come back in
// the order of kinds regardless of which finishes first. The first failure
// cancels the jobs that have not started yet.
func (p *Pool) TrainAll(ctx context.Context, kinds []regression.Kind, X [][]float64, y []float64, seed int64) ([]regression.Model, error) {
	if len(kinds) == 0 {
		return nil, ErrNoKinds
	}

	models := make([]regression.Model, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, kind := range kinds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			metrics.TrainingStarted()
			defer metrics.TrainingFinished()

			start := time.Now()
			m, err := p.trainer.Train(gctx, kind, X, y, seed)
			took := time.Since(start)
			if err != nil {
				p.logger.Error(gctx, "training failed",
					logger.String("model", string(kind)),
					logger.Error(err),
				)
				return fmt.Errorf("%w: %s: %w", ErrTraining, kind, err)
			}

			metrics.SetTrainDuration(string(kind), took)
			p.logger.Debug(gctx, "model trained",
				logger.String("model", string(kind)),
				logger.Int("rows", len(X)),
				logger.Duration("took", took),
			)
			models[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}
