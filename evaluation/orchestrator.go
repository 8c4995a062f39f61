// Package evaluation runs the rolling accuracy evaluation of three seasonal
// adjustment methods on a series, one task per scenario.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/saeval/accuracy"
	"github.com/sartorproj/saeval/benchmark"
	"github.com/sartorproj/saeval/rolling"
	"github.com/sartorproj/saeval/sa"
	"github.com/sartorproj/saeval/timeseries"
)

// ErrFatalFit is returned when a full-sample fit fails; no report is produced.
var ErrFatalFit = errors.New("evaluation: full-sample fit failed")

// Orchestrator evaluates series against three injected methods. It is safe
// for concurrent use.
type Orchestrator struct {
	methods [3]sa.Method
	opts    Options
	builder *rolling.Builder
	log     logrus.FieldLogger
}

// New returns an Orchestrator comparing methods[0] and methods[1], with
// methods[2] as the benchmark method.
func New(methods [3]sa.Method, opts ...Option) *Orchestrator {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.SeriesWorkers < 1 {
		o.SeriesWorkers = 1
	}
	if len(o.Scenarios) == 0 {
		o.Scenarios = DefaultScenarios()
	}

	log := o.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Orchestrator{
		methods: methods,
		opts:    o,
		builder: rolling.NewBuilder(log, o.Metrics),
		log:     log,
	}
}

// Evaluate fits the three methods on the full series, builds the benchmark,
// then runs every scenario. Scenario failures are recorded in their outcome;
// only a full-sample fit failure, an invalid benchmark or a cancelled context
// fail the call.
func (o *Orchestrator) Evaluate(ctx context.Context, series *timeseries.Series) (*Report, error) {
	log := o.log.WithField("series", series.Name)
	clean := series.CleanExtremities()
	clean.Name = series.Name
	if clean.Len() == 0 {
		return nil, fmt.Errorf("%w: series %q has no observations", ErrFatalFit, series.Name)
	}

	report := &Report{Series: series.Name}
	var adjusted [3]*timeseries.Series
	for i, m := range o.methods {
		report.Methods[i] = m.Name
		model, err := m.Fit(ctx, clean)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrFatalFit, m.Name, err)
		}
		report.Diagnostics[i] = model.Diagnostics()
		adjusted[i] = model.SA()
	}

	weights, err := o.weights(ctx, clean)
	if err != nil {
		return nil, err
	}
	report.Weights = weights
	bench, err := benchmark.Combine(weights, adjusted[:]...)
	if err != nil {
		return nil, fmt.Errorf("evaluation: benchmark: %w", err)
	}

	report.Outcomes = make([]Outcome, len(o.opts.Scenarios))
	var g errgroup.Group
	g.SetLimit(o.opts.Workers)
	for i, sc := range o.opts.Scenarios {
		g.Go(func() error {
			report.Outcomes[i] = o.run(ctx, log, sc, clean, bench, report.Diagnostics)
			return nil
		})
	}
	_ = g.Wait()

	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, log logrus.FieldLogger, sc Scenario, series, bench *timeseries.Series, diags [3]sa.Diagnostics) (out Outcome) {
	out.Scenario = sc
	log = log.WithField("scenario", sc.Label)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.row = nil
			out.Err = fmt.Errorf("evaluation: scenario %s panicked: %v", sc.Label, r)
		}
		o.opts.Metrics.ScenarioDone(sc.Label, out.Err)
		if out.Err != nil {
			log.WithError(out.Err).Warn("scenario failed")
			return
		}
		log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("scenario done")
	}()

	if o.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.TaskTimeout)
		defer cancel()
	}

	out.Truth = series
	if sc.Kind == Revision {
		out.Truth = bench
	}
	for i, m := range o.methods {
		r, err := o.build(ctx, sc, series, m)
		if err != nil {
			out.Err = fmt.Errorf("%s: %w", m.Name, err)
			return out
		}
		out.Rolling[i] = r
	}

	res, err := o.opts.Evaluator.Evaluate(out.Rolling[0], out.Rolling[1], out.Rolling[2], out.Truth)
	if err != nil {
		out.Err = err
		return out
	}
	out.row = &Row{
		series:      series.Name,
		scenario:    sc.Label,
		result:      res,
		diagnostics: diags,
	}
	return out
}

func (o *Orchestrator) build(ctx context.Context, sc Scenario, series *timeseries.Series, m sa.Method) (*timeseries.Series, error) {
	if sc.Kind == Forecast {
		return o.builder.Forecast(ctx, series, m, sc.Horizon)
	}
	return o.builder.Revision(ctx, series, m, sc.Horizon)
}

// weights returns the benchmark weights for the configured weighting.
func (o *Orchestrator) weights(ctx context.Context, series *timeseries.Series) ([]float64, error) {
	n := len(o.methods)
	switch o.opts.Weighting {
	case benchmark.Fixed:
		if err := benchmark.ValidateWeights(o.opts.Weights, n); err != nil {
			return nil, err
		}
		return o.opts.Weights, nil
	case benchmark.Encompassing:
		beta, err := o.encompassingWeight(ctx, series)
		if err != nil {
			return nil, fmt.Errorf("evaluation: encompassing weight: %w", err)
		}
		return benchmark.EncompassingWeights(beta, n), nil
	default:
		return benchmark.EqualWeights(n), nil
	}
}

// encompassingWeight is the weight of the first method in the optimal
// combination of the one-step-ahead forecasts of the first two methods.
func (o *Orchestrator) encompassingWeight(ctx context.Context, series *timeseries.Series) (float64, error) {
	var fcts [2]*timeseries.Series
	for i := range fcts {
		f, err := o.builder.Forecast(ctx, series, o.methods[i], 1)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", o.methods[i].Name, err)
		}
		fcts[i] = f
	}
	errs, _, err := accuracy.Errors(series, fcts[0], fcts[1])
	if err != nil {
		return 0, err
	}
	return accuracy.EncompassingWeight(errs[1], errs[0])
}

// EvaluateAll evaluates every series with up to SeriesWorkers in parallel. It
// returns the reports of the series that could be evaluated, in input order,
// and the failures of the others as a *multierror.Error.
func (o *Orchestrator) EvaluateAll(ctx context.Context, series []*timeseries.Series) ([]*Report, error) {
	reports := make([]*Report, len(series))
	var (
		mu   sync.Mutex
		merr *multierror.Error
	)

	var g errgroup.Group
	g.SetLimit(o.opts.SeriesWorkers)
	for i, s := range series {
		g.Go(func() error {
			log := o.log.WithField("series", s.Name)
			log.Infof("computing series %d/%d", i+1, len(series))

			report, err := o.Evaluate(ctx, s)
			o.opts.Metrics.SeriesDone(err)
			if err != nil {
				log.WithError(err).Error("series failed")
				mu.Lock()
				merr = multierror.Append(merr, fmt.Errorf("series %q: %w", s.Name, err))
				mu.Unlock()
				return nil
			}
			log.WithField("rows", len(report.Rows())).Info("series done")
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*Report, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, merr.ErrorOrNil()
}
