// Package arimasa is a model-based seasonal adjustment engine: a SARIMA model
// extends the series with forecasts and backcasts, and a classical or STL
// decomposition of the extended series gives the seasonal component.
package arimasa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/saeval/autoarima"
	"github.com/sartorproj/saeval/sa"
	"github.com/sartorproj/saeval/sarima"
	"github.com/sartorproj/saeval/stats"
	"github.com/sartorproj/saeval/timeseries"
)

// logCorrelation is the level/spread correlation above which TransformAuto logs.
const logCorrelation = 0.5

// Engine implements sa.Engine. It holds no state across fits.
type Engine struct {
	Log logrus.FieldLogger
}

// New returns an Engine logging fits at debug level to log, which may be nil.
func New(log logrus.FieldLogger) *Engine {
	return &Engine{Log: log}
}

var _ sa.Engine = (*Engine)(nil)

// Fit adjusts series with spec, which must be a Spec.
func (e *Engine) Fit(ctx context.Context, series *timeseries.Series, spec sa.Spec) (sa.Model, error) {
	s, ok := spec.(Spec)
	if !ok {
		return nil, fmt.Errorf("arimasa: unsupported specification %T", spec)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if series.Count() != series.Len() {
		return nil, errors.New("arimasa: series has missing values")
	}

	freq := series.Freq()
	logged, err := decideLog(series, s.Transform)
	if err != nil {
		return nil, err
	}
	y := series
	if logged {
		y = series.Log()
	}

	fit, err := e.fitOrder(y, s)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seasonal, err := e.seasonal(fit, y, s)
	if err != nil {
		return nil, err
	}
	adjusted := y.Copy()
	for i := range adjusted.Values {
		adjusted.Values[i] -= seasonal[i]
	}
	if logged {
		adjusted = adjusted.Exp()
	}
	adjusted.Name = series.Name

	summary := fit.Summary()
	fields := logrus.Fields{
		"spec":  s.Label,
		"order": fit.Order.String(),
		"log":   logged,
		"n":     series.Len(),
		"freq":  freq,
		"aicc":  summary.AICc,
	}
	if lb := summary.LjungBox; lb != nil {
		fields["ljung_box_q"] = lb.Q
		fields["ljung_box_pvalue"] = lb.PValue
	}
	e.log().WithFields(fields).Debug("fitted")

	return &model{spec: s, fit: fit, logged: logged, sa: adjusted}, nil
}

func (e *Engine) log() logrus.FieldLogger {
	if e.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return e.Log
}

// DeriveSpec returns the reference specification for Complete, and the
// reference specification with its order and transform pinned for FreeParameters.
func (e *Engine) DeriveSpec(reference sa.Model, policy sa.Policy) (sa.Spec, error) {
	ref, ok := reference.(*model)
	if !ok {
		return nil, fmt.Errorf("arimasa: unsupported model %T", reference)
	}
	s := ref.spec
	switch policy {
	case sa.Complete:
		s.fixed, s.order = false, sarima.Order{}
	case sa.FreeParameters:
		s.fixed, s.order = true, ref.fit.Order
		s.Transform = TransformNone
		if ref.logged {
			s.Transform = TransformLog
		}
	default:
		return nil, fmt.Errorf("arimasa: unknown policy %s", policy)
	}
	return s, nil
}

func (e *Engine) fitOrder(y *timeseries.Series, s Spec) (*sarima.Model, error) {
	freq := y.Freq()
	var order sarima.Order
	switch {
	case s.fixed:
		order = s.order
	case s.Model == AirlineModel:
		order = sarima.Airline(freq)
		if freq < 2 {
			order = sarima.Order{D: 1, Q: 1, M: 1}
		}
	default:
		cfg := &autoarima.Config{
			MaxP:        3,
			MaxD:        2,
			MaxQ:        3,
			MaxSP:       1,
			MaxSD:       1,
			MaxSQ:       1,
			Seasonal:    freq > 1,
			SeasonalM:   freq,
			Stepwise:    true,
			Criterion:   s.Criterion,
			StationTest: "kpss",
		}
		res, err := autoarima.AutoARIMA(y, cfg)
		if err != nil {
			return nil, fmt.Errorf("arimasa: identification: %w", err)
		}
		return res.Model, nil
	}

	m := sarima.NewWithOrder(order)
	if err := m.Fit(y); err != nil {
		return nil, fmt.Errorf("arimasa: fit %s: %w", order, err)
	}
	return m, nil
}

// seasonal returns the seasonal component of y, on the scale of y.
func (e *Engine) seasonal(fit *sarima.Model, y *timeseries.Series, s Spec) ([]float64, error) {
	freq := y.Freq()
	if freq < 2 {
		return make([]float64, y.Len()), nil
	}

	extended, head := y, 0
	if h := s.ExtensionYears * freq; h > 0 {
		values := slices.Clone(y.Values)
		start := y.Start
		if bc, err := fit.Backcast(h); err == nil {
			values = append(slices.Clone(bc.Values), values...)
			start, head = bc.Start, h
		} else {
			e.log().WithError(err).Debug("backcast extension skipped")
		}
		if fc, err := fit.Forecast(h); err == nil {
			values = append(values, fc.Values...)
		} else {
			e.log().WithError(err).Debug("forecast extension skipped")
		}
		extended = timeseries.NewSeries(start, values)
	}

	var component *timeseries.Series
	switch s.Decomposition {
	case STL:
		if r := stats.STL(extended, freq, 2); r != nil {
			component = r.Seasonal
		}
	default:
		if r := stats.Decompose(extended, freq, "additive"); r != nil {
			component = r.Seasonal
		}
	}
	if component == nil {
		return nil, fmt.Errorf("arimasa: %d observations are too few to decompose at frequency %d", extended.Len(), freq)
	}
	return component.Values[head : head+y.Len()], nil
}

// decideLog applies t; TransformAuto logs positive series whose yearly spread
// grows with their yearly level.
func decideLog(series *timeseries.Series, t Transform) (bool, error) {
	positive := !slices.ContainsFunc(series.Values, func(v float64) bool { return v <= 0 })
	switch t {
	case TransformNone:
		return false, nil
	case TransformLog:
		if !positive {
			return false, errors.New("arimasa: log transform of a non-positive series")
		}
		return true, nil
	}
	if !positive {
		return false, nil
	}

	freq := series.Freq()
	if freq < 2 {
		return false, nil
	}
	var levels, spreads []float64
	for i := 0; i+freq <= series.Len(); i += freq {
		mean, std := stat.MeanStdDev(series.Values[i:i+freq], nil)
		levels = append(levels, mean)
		spreads = append(spreads, std)
	}
	if len(levels) < 3 {
		return false, nil
	}
	corr := stat.Correlation(levels, spreads, nil)
	return !math.IsNaN(corr) && corr > logCorrelation, nil
}

type model struct {
	spec   Spec
	fit    *sarima.Model
	logged bool
	sa     *timeseries.Series
}

func (m *model) Spec() sa.Spec { return m.spec }

func (m *model) SA() *timeseries.Series { return m.sa }

func (m *model) Diagnostics() sa.Diagnostics {
	o := m.fit.Order
	d := sa.Diagnostics{
		P: o.P, D: o.D, Q: o.Q,
		NEffectiveObs: m.fit.NEffectiveObs(),
		NParams:       o.NParams(),
		Log:           m.logged,
	}
	if o.M > 1 {
		d.BP, d.BD, d.BQ = o.SP, o.SD, o.SQ
	}
	return d
}

func (m *model) Forecast(h int) (*timeseries.Series, error) {
	fc, err := m.fit.Forecast(h)
	if err != nil {
		return nil, err
	}
	return m.inverse(fc), nil
}

func (m *model) Backcast(h int) (*timeseries.Series, error) {
	bc, err := m.fit.Backcast(h)
	if err != nil {
		return nil, err
	}
	return m.inverse(bc), nil
}

func (m *model) inverse(s *timeseries.Series) *timeseries.Series {
	if m.logged {
		return s.Exp()
	}
	return s
}
