// Package saeval measures the accuracy of seasonal adjustment methods on
// rolling re-estimations.
//
// Two methods are compared with a benchmark, a fixed linear combination of
// three methods' full-sample adjustments. Each method is re-estimated on a
// growing window of the series, and the successive adjusted values or
// forecasts are collected into a rolling series that is scored against the
// benchmark (revisions) or the observed series (forecasts).
//
// # Packages
//
//   - timeseries: periods, regular series, CSV input and output
//   - sa: the engine contract every seasonal adjustment method implements
//   - arimasa: a reference engine built on sarima, autoarima and stats
//   - rolling: window selection and rolling series construction
//   - benchmark: benchmark combination and weights
//   - accuracy: relative RMSE, Diebold-Mariano, encompassing, bias and
//     efficiency tests under standard or fixed-b asymptotics
//   - evaluation: the per-series orchestrator and its report
//   - report: CSV and JSON tables, error charts
//
// # Quick Start
//
// Evaluate the TRAMO-SEATS and X-13 presets against the airline model:
//
//	engine := arimasa.New(logger)
//	var methods [3]sa.Method
//	for i, name := range []string{"tramoseats", "x13", "airline"} {
//	    spec, _ := arimasa.Preset(name)
//	    methods[i] = sa.Method{Name: name, Engine: engine, Spec: spec}
//	}
//
//	o := evaluation.New(methods, evaluation.WithWorkers(4))
//	rep, err := o.Evaluate(ctx, series)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.WriteCSV(os.Stdout, []*evaluation.Report{rep})
//
// The saeval command wraps the same flow for every column of a CSV file:
//
//	saeval run --input retail.csv --output report.csv --type STANDARD
package saeval
