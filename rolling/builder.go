package rolling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sartorproj/saeval/internal/metrics"
	"github.com/sartorproj/saeval/sa"
	"github.com/sartorproj/saeval/timeseries"
)

var (
	// ErrReferenceFit is returned when the reference model of a pass cannot be fitted.
	ErrReferenceFit = errors.New("rolling: reference fit failed")
	// ErrNoObservations is returned when every step of both passes was dropped.
	ErrNoObservations = errors.New("rolling: no observation collected")
	// ErrHorizon is returned for a horizon the requested kind cannot use.
	ErrHorizon = errors.New("rolling: invalid horizon")

	errEmptyExtension = errors.New("rolling: engine returned an empty extension")
)

// Builder runs rolling re-estimations. The zero value is usable and logs nothing.
type Builder struct {
	Log     logrus.FieldLogger
	Metrics *metrics.Recorder
}

// NewBuilder returns a Builder logging to log and recording to rec.
func NewBuilder(log logrus.FieldLogger, rec *metrics.Recorder) *Builder {
	return &Builder{Log: log, Metrics: rec}
}

func (b *Builder) logger() logrus.FieldLogger {
	if b.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return b.Log
}

// extractor reads the observation a fitted window contributes.
type extractor func(model sa.Model, window *timeseries.Series) (timeseries.Period, float64, error)

type pass struct {
	name      string
	reference *timeseries.Series
	windows   iter.Seq[Window]
	cut       func(n int) *timeseries.Series
	extract   extractor
}

// Revision collects, for every window, the seasonally adjusted value horizon
// periods before the window end (prefix pass) and after the window start
// (suffix pass). horizon must be zero or negative.
func (b *Builder) Revision(ctx context.Context, series *timeseries.Series, method sa.Method, horizon int) (*timeseries.Series, error) {
	if horizon > 0 {
		return nil, fmt.Errorf("%w: revision horizon %d is positive", ErrHorizon, horizon)
	}
	length := series.Len()
	half := Half(length)

	saAt := func(target func(w *timeseries.Series) timeseries.Period) extractor {
		return func(model sa.Model, w *timeseries.Series) (timeseries.Period, float64, error) {
			p := target(w)
			v, _ := model.SA().Get(p)
			return p, v, nil
		}
	}

	return b.collect(ctx, series, method, []pass{
		{
			name:      "prefix",
			reference: series.First(half),
			windows:   FirstHalf(length, 0),
			cut:       series.First,
			extract:   saAt(func(w *timeseries.Series) timeseries.Period { return w.End().Plus(horizon) }),
		},
		{
			name:      "suffix",
			reference: series.Last(length - half),
			windows:   SecondHalf(length, 0),
			cut:       series.Last,
			extract:   saAt(func(w *timeseries.Series) timeseries.Period { return w.Start.Minus(horizon) }),
		},
	})
}

// Forecast collects the |horizon|-step-ahead forecast of every prefix window
// and the |horizon|-step-back backcast of every suffix window.
func (b *Builder) Forecast(ctx context.Context, series *timeseries.Series, method sa.Method, horizon int) (*timeseries.Series, error) {
	if horizon == 0 {
		return nil, fmt.Errorf("%w: forecast horizon must not be zero", ErrHorizon)
	}
	h := horizon
	if h < 0 {
		h = -h
	}
	length := series.Len()
	half := Half(length)

	return b.collect(ctx, series, method, []pass{
		{
			name:      "prefix",
			reference: series.First(half),
			windows:   FirstHalf(length, h),
			cut:       series.First,
			extract: func(model sa.Model, _ *timeseries.Series) (timeseries.Period, float64, error) {
				fc, err := model.Forecast(h)
				if err != nil {
					return timeseries.Period{}, 0, err
				}
				if fc.Len() == 0 {
					return timeseries.Period{}, 0, errEmptyExtension
				}
				return fc.End(), fc.Values[fc.Len()-1], nil
			},
		},
		{
			name:      "suffix",
			reference: series.Last(length - half),
			windows:   SecondHalf(length, h),
			cut:       series.Last,
			extract: func(model sa.Model, _ *timeseries.Series) (timeseries.Period, float64, error) {
				bc, err := model.Backcast(h)
				if err != nil {
					return timeseries.Period{}, 0, err
				}
				if bc.Len() == 0 {
					return timeseries.Period{}, 0, errEmptyExtension
				}
				return bc.Start, bc.Values[0], nil
			},
		},
	})
}

func (b *Builder) collect(ctx context.Context, series *timeseries.Series, method sa.Method, passes []pass) (*timeseries.Series, error) {
	var c timeseries.Collector
	for _, p := range passes {
		if err := b.run(ctx, series.Freq(), method, p, &c); err != nil {
			return nil, err
		}
	}
	out, err := c.Make(series.Freq(), timeseries.AggregationFirst)
	if errors.Is(err, timeseries.ErrEmptyCollector) {
		return nil, ErrNoObservations
	}
	if err != nil {
		return nil, err
	}
	out.Name = method.Name
	return out, nil
}

func (b *Builder) run(ctx context.Context, freq int, method sa.Method, p pass, c *timeseries.Collector) error {
	log := b.logger().WithFields(logrus.Fields{"method": method.Name, "pass": p.name})

	reference, err := method.Fit(ctx, p.reference)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %w", ErrReferenceFit, method.Name, p.name, err)
	}

	for w := range p.windows {
		if err := ctx.Err(); err != nil {
			return err
		}
		policy := PolicyFor(w.Step, freq)
		stepLog := log.WithFields(logrus.Fields{"step": w.Step, "policy": policy.String()})
		drop := func(stage string, err error) {
			stepLog.WithError(err).Debugf("dropping observation at %s", stage)
			b.Metrics.ObservationDropped(method.Name, stage)
		}

		start := time.Now()
		spec, err := method.Engine.DeriveSpec(reference, policy)
		if err != nil {
			drop("derive", err)
			continue
		}
		window := p.cut(w.Length)
		model, err := method.Engine.Fit(ctx, window, spec)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			drop("fit", err)
			continue
		}
		at, v, err := p.extract(model, window)
		if err != nil {
			drop("extract", err)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			drop("missing", fmt.Errorf("no value at %s", at))
			continue
		}
		c.Add(at.Middle(), v)
		b.Metrics.StepDone(method.Name, policy.String(), time.Since(start))
	}
	return nil
}
