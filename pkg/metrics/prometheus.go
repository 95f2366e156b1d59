// Package metrics provides Prometheus metrics for the TBTL prediction pipeline.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the pipeline metrics.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Run metrics
	runsTotal        prometheus.Counter
	runFailures      prometheus.Counter
	lastRunTimestamp prometheus.Gauge

	// Stage metrics
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	rows          *prometheus.GaugeVec

	// Model metrics
	trainDuration   *prometheus.GaugeVec
	evaluationScore *prometheus.GaugeVec
	trainingActive  prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tbtl",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of pipeline runs started",
	})

	m.runFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_failures_total",
		Help:      "Total number of pipeline runs that failed",
	})

	m.lastRunTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last pipeline run finished",
	})

	m.stageDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"stage"},
	)

	m.stageErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "stage_errors_total",
			Help:      "Number of failures by pipeline stage",
		},
		[]string{"stage"},
	)

	m.rows = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows",
			Help:      "Row count of each dataset partition in the last run",
		},
		[]string{"partition"},
	)

	m.trainDuration = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "model_train_duration_seconds",
			Help:      "Training time of each model in the last run",
		},
		[]string{"model"},
	)

	m.evaluationScore = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "model_evaluation",
			Help:      "Holdout metric of each model in the last run",
		},
		[]string{"model", "metric"},
	)

	m.trainingActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_jobs_active",
		Help:      "Number of models currently training",
	})
}

// RecordRunStarted increments the run counter.
func (m *Manager) RecordRunStarted() {
	m.runsTotal.Inc()
}

// RecordRunFinished stamps the finish time and counts failures.
func (m *Manager) RecordRunFinished(at time.Time, failed bool) {
	if failed {
		m.runFailures.Inc()
	}
	m.lastRunTimestamp.Set(float64(at.Unix()))
}

// ObserveStage records how long a stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordStageError counts a stage failure.
func (m *Manager) RecordStageError(stage string) {
	m.stageErrors.WithLabelValues(stage).Inc()
}

// SetRows records the size of a partition.
func (m *Manager) SetRows(partition string, n int) {
	m.rows.WithLabelValues(partition).Set(float64(n))
}

// SetTrainDuration records how long a model took to fit.
func (m *Manager) SetTrainDuration(model string, d time.Duration) {
	m.trainDuration.WithLabelValues(model).Set(d.Seconds())
}

// SetEvaluation records one holdout metric of a model.
func (m *Manager) SetEvaluation(model, metric string, v float64) {
	m.evaluationScore.WithLabelValues(model, metric).Set(v)
}

// TrainingStarted marks a training job as running.
func (m *Manager) TrainingStarted() { m.trainingActive.Inc() }

// TrainingFinished marks a training job as done.
func (m *Manager) TrainingFinished() { m.trainingActive.Dec() }

// RecordRunStarted increments the global run counter.
func RecordRunStarted() { globalManager.RecordRunStarted() }

// RecordRunFinished stamps the global finish time and counts failures.
func RecordRunFinished(at time.Time, failed bool) { globalManager.RecordRunFinished(at, failed) }

// ObserveStage records a stage duration on the global manager.
func ObserveStage(stage string, d time.Duration) { globalManager.ObserveStage(stage, d) }

// RecordStageError counts a stage failure on the global manager.
func RecordStageError(stage string) { globalManager.RecordStageError(stage) }

// SetRows records a partition size on the global manager.
func SetRows(partition string, n int) { globalManager.SetRows(partition, n) }

// SetTrainDuration records a model's training time on the global manager.
func SetTrainDuration(model string, d time.Duration) { globalManager.SetTrainDuration(model, d) }

// SetEvaluation records a holdout metric on the global manager.
func SetEvaluation(model, metric string, v float64) { globalManager.SetEvaluation(model, metric, v) }

// TrainingStarted marks a training job as running on the global manager.
func TrainingStarted() { globalManager.TrainingStarted() }

// TrainingFinished marks a training job as done on the global manager.
func TrainingFinished() { globalManager.TrainingFinished() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the registry in the text exposition format, for a
// node_exporter textfile collector to pick up after the run exits.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteMetrics, err)
	}
	return nil
}
