package evaluation

import (
	"encoding/json"

	"github.com/sartorproj/saeval/accuracy"
	"github.com/sartorproj/saeval/sa"
	"github.com/sartorproj/saeval/timeseries"
)

// Row is the result of one scenario for one series. Rows are built once by
// the orchestrator and expose their content through accessors only.
type Row struct {
	series      string
	scenario    string
	result      accuracy.Result
	diagnostics [3]sa.Diagnostics
}

// Series is the name of the evaluated series.
func (r Row) Series() string { return r.series }

// Scenario is the scenario label, such as SA(0) or Fcts(12).
func (r Row) Scenario() string { return r.scenario }

// Result holds the accuracy statistics of the scenario.
func (r Row) Result() accuracy.Result { return r.result }

// Diagnostics returns the full-sample diagnostics of the three methods.
func (r Row) Diagnostics() [3]sa.Diagnostics { return r.diagnostics }

// MarshalJSON encodes the row with its unexported fields.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Series      string            `json:"series"`
		Scenario    string            `json:"scenario"`
		Result      accuracy.Result   `json:"result"`
		Diagnostics [3]sa.Diagnostics `json:"diagnostics"`
	}{r.series, r.scenario, r.result, r.diagnostics})
}

// Outcome is the fate of one scenario: a row, or the error that left it absent.
type Outcome struct {
	Scenario Scenario
	// Rolling holds the rolling series of the three methods, when built.
	Rolling [3]*timeseries.Series
	// Truth is the series the rolling series were scored against.
	Truth *timeseries.Series
	Err   error

	row *Row
}

// Row returns the scenario row and whether the scenario succeeded.
func (o Outcome) Row() (Row, bool) {
	if o.row == nil {
		return Row{}, false
	}
	return *o.row, true
}

// Report is the evaluation of one series.
type Report struct {
	Series      string
	Methods     [3]string
	Diagnostics [3]sa.Diagnostics
	// Weights are the benchmark combination weights.
	Weights  []float64
	Outcomes []Outcome
}

// Rows returns the rows of the successful scenarios, in scenario order.
func (r *Report) Rows() []Row {
	var rows []Row
	for _, o := range r.Outcomes {
		if row, ok := o.Row(); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// Outcome returns the outcome of the scenario with the given label.
func (r *Report) Outcome(label string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Scenario.Label == label {
			return o, true
		}
	}
	return Outcome{}, false
}
