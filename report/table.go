// Package report exports evaluation reports as tables and charts.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/sartorproj/saeval/accuracy"
	"github.com/sartorproj/saeval/evaluation"
	"github.com/sartorproj/saeval/sa"
)

// diagnosticSuffixes name the three methods in the diagnostic column titles.
var diagnosticSuffixes = [3]string{"TS", "X13", "AIR"}

// Titles returns the column titles of a report row.
func Titles() []string {
	titles := []string{
		"SERIES", "METHOD",
		"RMSE1", "RMSE2",
		"DM1", "DM2",
		"ENC1", "WEIGHT1", "ENC2", "WEIGHT2",
		"ENCB1", "WEIGHTB1", "ENCB2", "WEIGHTB2",
		"BIAS1", "BIAS2", "BIAS3", "BIAS-PVAL1", "BIAS-PVAL2", "BIAS-PVAL3",
		"EFF1", "EFF2", "EFF3", "EFF-PVAL1", "EFF-PVAL2", "EFF-PVAL3",
		"EFFY1", "EFFY2", "EFFY3", "EFFY-PVAL1", "EFFY-PVAL2", "EFFY-PVAL3",
	}
	for _, suffix := range diagnosticSuffixes {
		for _, name := range []string{"p", "d", "q", "bp", "bd", "bq", "nobs", "np", "log"} {
			titles = append(titles, fmt.Sprintf("%s(%s)", name, suffix))
		}
	}
	return titles
}

// Record returns the cells of row in Titles order. Absent values are empty.
func Record(row evaluation.Row) []string {
	res := row.Result()
	m1, m2 := res.Methods[0], res.Methods[1]

	values := []accuracy.Value{
		m1.RelRMSE, m2.RelRMSE,
		m1.DM, m2.DM,
		m1.Encompasses, m1.Weight, m2.Encompasses, m2.Weight,
		m1.EncompassedBy, m1.WeightBy, m2.EncompassedBy, m2.WeightBy,
	}
	for _, moments := range [][3]accuracy.Moment{res.Bias, res.Efficiency, res.YearlyEfficiency} {
		for _, m := range moments {
			values = append(values, m.Statistic)
		}
		for _, m := range moments {
			values = append(values, m.PValue)
		}
	}

	record := []string{row.Series(), row.Scenario()}
	for _, v := range values {
		record = append(record, v.String())
	}
	for _, d := range row.Diagnostics() {
		record = append(record, diagnosticCells(d)...)
	}
	return record
}

func diagnosticCells(d sa.Diagnostics) []string {
	return []string{
		strconv.Itoa(d.P), strconv.Itoa(d.D), strconv.Itoa(d.Q),
		strconv.Itoa(d.BP), strconv.Itoa(d.BD), strconv.Itoa(d.BQ),
		strconv.Itoa(d.NEffectiveObs), strconv.Itoa(d.NParams),
		strconv.FormatBool(d.Log),
	}
}

// WriteCSV writes the titles and one record per successful scenario.
func WriteCSV(w io.Writer, reports []*evaluation.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Titles()); err != nil {
		return err
	}
	for _, r := range reports {
		for _, row := range r.Rows() {
			if err := cw.Write(Record(row)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonReport struct {
	Series      string            `json:"series"`
	Methods     [3]string         `json:"methods"`
	Weights     []float64         `json:"weights"`
	Diagnostics [3]sa.Diagnostics `json:"diagnostics"`
	Rows        []evaluation.Row  `json:"rows"`
	// Failures maps the absent scenarios to their error.
	Failures map[string]string `json:"failures,omitempty"`
}

// WriteJSON writes one indented JSON object per report, in an array.
func WriteJSON(w io.Writer, reports []*evaluation.Report) error {
	out := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		jr := jsonReport{
			Series:      r.Series,
			Methods:     r.Methods,
			Weights:     r.Weights,
			Diagnostics: r.Diagnostics,
			Rows:        r.Rows(),
		}
		if jr.Rows == nil {
			jr.Rows = []evaluation.Row{}
		}
		for _, o := range r.Outcomes {
			if o.Err == nil {
				continue
			}
			if jr.Failures == nil {
				jr.Failures = map[string]string{}
			}
			jr.Failures[o.Scenario.Label] = o.Err.Error()
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
