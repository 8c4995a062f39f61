// Package accuracy compares the errors of competing forecasts or seasonal
// adjustments: relative RMSE, Diebold-Mariano, encompassing, bias and
// efficiency tests.
package accuracy

import (
	"fmt"

	"github.com/sartorproj/saeval/timeseries"
)

// Comparison holds the tests of one method against the benchmark method.
type Comparison struct {
	RelRMSE Value `json:"rel_rmse"`
	// DM is the Diebold-Mariano p-value.
	DM Value `json:"dm"`
	// Encompasses is the p-value of "the method encompasses the benchmark",
	// Weight the matching combination weight.
	Encompasses Value `json:"encompasses"`
	Weight      Value `json:"weight"`
	// EncompassedBy is the p-value of "the benchmark encompasses the method".
	EncompassedBy Value `json:"encompassed_by"`
	WeightBy      Value `json:"weight_by"`
}

// Moment is a statistic with its two-sided p-value.
type Moment struct {
	Statistic Value `json:"statistic"`
	PValue    Value `json:"pvalue"`
}

// Result is the outcome of Evaluate. Bias, Efficiency and YearlyEfficiency
// are indexed first, second, benchmark.
type Result struct {
	Observations     int           `json:"observations"`
	Methods          [2]Comparison `json:"methods"`
	Bias             [3]Moment     `json:"bias"`
	Efficiency       [3]Moment     `json:"efficiency"`
	YearlyEfficiency [3]Moment     `json:"yearly_efficiency"`
}

// Evaluator runs the accuracy tests. The zero value uses fixed-b asymptotics
// and one-sided Diebold-Mariano and encompassing tests.
type Evaluator struct {
	Asymptotics Asymptotics
	// TwoSided applies to the Diebold-Mariano and encompassing p-values only.
	TwoSided bool
}

// Evaluate compares first and second with benchmark, all measured against
// truth on the periods where the four series are defined.
func (ev Evaluator) Evaluate(first, second, benchmark, truth *timeseries.Series) (Result, error) {
	errs, periods, err := Errors(truth, first, second, benchmark)
	if err != nil {
		return Result{}, err
	}
	a := ev.Asymptotics

	res := Result{Observations: len(periods)}
	for i := range res.Methods {
		res.Methods[i] = ev.compare(errs[i], errs[2])
	}
	for i, e := range errs {
		res.Bias[i] = a.bias(e)
		res.Efficiency[i] = a.efficiency(e)
		res.YearlyEfficiency[i] = a.efficiency(yearly(periods, e))
	}
	return res, nil
}

func (ev Evaluator) compare(model, benchmark []float64) Comparison {
	a := ev.Asymptotics
	c := Comparison{RelRMSE: fromResult(RelativeRMSE(model, benchmark))}

	if t, err := a.DieboldMariano(model, benchmark); err == nil {
		c.DM = Some(t.PValue(ev.TwoSided))
	}
	if t, err := a.Encompassing(model, benchmark); err == nil {
		c.Encompasses = Some(t.PValue(ev.TwoSided))
	}
	c.Weight = fromResult(EncompassingWeight(model, benchmark))
	if t, err := a.Encompassing(benchmark, model); err == nil {
		c.EncompassedBy = Some(t.PValue(ev.TwoSided))
	}
	c.WeightBy = fromResult(EncompassingWeight(benchmark, model))
	return c
}

func (a Asymptotics) bias(e []float64) Moment {
	t, err := a.Bias(e)
	if err != nil {
		return Moment{}
	}
	return Moment{Statistic: Some(t.Mean), PValue: Some(t.PValue(true))}
}

func (a Asymptotics) efficiency(e []float64) Moment {
	corr, t, err := a.Efficiency(e)
	if err != nil {
		return Moment{}
	}
	return Moment{Statistic: Some(corr), PValue: Some(t.PValue(true))}
}

// Errors returns the errors of each series against truth, restricted to the
// periods where truth and every series are defined, along with those periods.
// It fails with ErrInsufficientData when fewer than two periods remain.
func Errors(truth *timeseries.Series, series ...*timeseries.Series) ([][]float64, []timeseries.Period, error) {
	if truth == nil {
		return nil, nil, fmt.Errorf("%w: missing truth", ErrInsufficientData)
	}
	for _, s := range series {
		if s == nil {
			return nil, nil, fmt.Errorf("%w: missing input", ErrInsufficientData)
		}
		if s.Freq() != truth.Freq() {
			return nil, nil, fmt.Errorf("accuracy: frequency mismatch %d and %d", s.Freq(), truth.Freq())
		}
	}

	errs := make([][]float64, len(series))
	var periods []timeseries.Period
	row := make([]float64, len(series))
	for i := range truth.Len() {
		p := truth.PeriodAt(i)
		t, ok := truth.Get(p)
		for k := 0; ok && k < len(series); k++ {
			var v float64
			v, ok = series[k].Get(p)
			row[k] = v - t
		}
		if !ok {
			continue
		}
		periods = append(periods, p)
		for k, e := range row {
			errs[k] = append(errs[k], e)
		}
	}
	if len(periods) < 2 {
		return nil, nil, fmt.Errorf("%w: %d common periods", ErrInsufficientData, len(periods))
	}
	return errs, periods, nil
}

// yearly keeps one error per year, at the position within the year of the
// last period.
func yearly(periods []timeseries.Period, e []float64) []float64 {
	last := periods[len(periods)-1].Position()
	var out []float64
	for i, p := range periods {
		if p.Position() == last {
			out = append(out, e[i])
		}
	}
	return out
}
