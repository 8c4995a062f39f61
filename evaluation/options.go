package evaluation

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sartorproj/saeval/accuracy"
	"github.com/sartorproj/saeval/benchmark"
	"github.com/sartorproj/saeval/internal/metrics"
)

// Options configures an Orchestrator.
type Options struct {
	// Workers bounds the concurrent scenarios of one series.
	Workers int
	// SeriesWorkers bounds the concurrent series of EvaluateAll.
	SeriesWorkers int
	// TaskTimeout bounds each scenario when positive.
	TaskTimeout time.Duration
	Scenarios   []Scenario
	Weighting   benchmark.Weighting
	// Weights are used by the Fixed weighting.
	Weights   []float64
	Evaluator accuracy.Evaluator
	Log       logrus.FieldLogger
	Metrics   *metrics.Recorder
}

// DefaultOptions returns four scenario workers, sequential series, equal
// benchmark weights and two-sided fixed-b tests.
func DefaultOptions() Options {
	return Options{
		Workers:       4,
		SeriesWorkers: 1,
		Scenarios:     DefaultScenarios(),
		Weighting:     benchmark.Equal,
		Evaluator:     accuracy.Evaluator{Asymptotics: accuracy.DefaultAsymptotics, TwoSided: true},
	}
}

// Option modifies Options.
type Option func(*Options)

// WithWorkers bounds the scenario tasks run at once for one series.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithSeriesWorkers bounds the series evaluated at once by EvaluateAll.
func WithSeriesWorkers(n int) Option {
	return func(o *Options) { o.SeriesWorkers = n }
}

// WithTaskTimeout cancels a scenario task after d. Zero disables the limit.
func WithTaskTimeout(d time.Duration) Option {
	return func(o *Options) { o.TaskTimeout = d }
}

// WithScenarios replaces the default scenarios.
func WithScenarios(s ...Scenario) Option {
	return func(o *Options) { o.Scenarios = s }
}

// WithWeighting selects the benchmark weighting; weights are only read by
// benchmark.Fixed.
func WithWeighting(w benchmark.Weighting, weights ...float64) Option {
	return func(o *Options) {
		o.Weighting = w
		o.Weights = weights
	}
}

// WithEvaluator sets the accuracy tests applied to every scenario.
func WithEvaluator(ev accuracy.Evaluator) Option {
	return func(o *Options) { o.Evaluator = ev }
}

// WithLogger sets the logger of the orchestrator and the rolling builders.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Options) { o.Log = log }
}

// WithMetrics records progress to rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(o *Options) { o.Metrics = rec }
}
