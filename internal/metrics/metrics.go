// Package metrics exposes Prometheus instrumentation for evaluation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the evaluation metrics. A nil *Recorder records nothing.
type Recorder struct {
	droppedObservations *prometheus.CounterVec
	stepDuration        *prometheus.HistogramVec
	scenarios           *prometheus.CounterVec
	series              *prometheus.CounterVec
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		droppedObservations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saeval_rolling_dropped_observations_total",
				Help: "Rolling observations dropped after a failed re-estimation",
			},
			[]string{"method", "stage"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "saeval_rolling_step_duration_seconds",
				Help:    "Duration of one rolling re-estimation step",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"method", "policy"},
		),
		scenarios: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saeval_scenarios_total",
				Help: "Evaluated scenarios by outcome",
			},
			[]string{"scenario", "status"},
		),
		series: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saeval_series_total",
				Help: "Evaluated series by outcome",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(
		r.droppedObservations,
		r.stepDuration,
		r.scenarios,
		r.series,
	)

	return r
}

// ObservationDropped counts a rolling observation lost at stage.
func (r *Recorder) ObservationDropped(method, stage string) {
	if r == nil {
		return
	}
	r.droppedObservations.WithLabelValues(method, stage).Inc()
}

// StepDone records the duration of a rolling step.
func (r *Recorder) StepDone(method, policy string, d time.Duration) {
	if r == nil {
		return
	}
	r.stepDuration.WithLabelValues(method, policy).Observe(d.Seconds())
}

// ScenarioDone counts a scenario outcome.
func (r *Recorder) ScenarioDone(scenario string, err error) {
	if r == nil {
		return
	}
	r.scenarios.WithLabelValues(scenario, status(err)).Inc()
}

// SeriesDone counts a series outcome.
func (r *Recorder) SeriesDone(err error) {
	if r == nil {
		return
	}
	r.series.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
