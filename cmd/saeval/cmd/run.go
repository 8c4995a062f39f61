package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sartorproj/saeval/accuracy"
	"github.com/sartorproj/saeval/arimasa"
	"github.com/sartorproj/saeval/evaluation"
	"github.com/sartorproj/saeval/internal/config"
	"github.com/sartorproj/saeval/internal/logging"
	"github.com/sartorproj/saeval/internal/metrics"
	"github.com/sartorproj/saeval/report"
	"github.com/sartorproj/saeval/sa"
	"github.com/sartorproj/saeval/timeseries"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate every series of a CSV file",
	Example: `  saeval run --input retail.csv --output report.csv
  saeval run --input retail.csv --format json --type STANDARD --twosided=false`,
	Args: cobra.NoArgs,
	RunE: runEvaluation,
}

// flagKeys maps the run flags to their configuration keys.
var flagKeys = map[string]string{
	"input":          "input",
	"output":         "output",
	"format":         "format",
	"plots":          "plots",
	"rolling":        "rolling",
	"type":           "type",
	"twosided":       "twosided",
	"metrics-file":   "metrics_file",
	"weighting":      "weighting",
	"workers":        "workers",
	"series-workers": "series_workers",
	"task-timeout":   "task_timeout",
}

func init() {
	f := runCmd.Flags()
	f.StringP("input", "i", "", "CSV file with a date column and one column per series")
	f.StringP("output", "o", "", "Report file (default stdout)")
	f.String("format", "csv", "Report format: csv or json")
	f.String("plots", "", "Directory receiving one error chart per series and scenario")
	f.String("rolling", "", "Directory receiving the rolling series as CSV")
	f.String("type", accuracy.DefaultAsymptotics.String(), "Test asymptotics: STANDARD or STANDARD_FIXED_B")
	f.Bool("twosided", true, "Two-sided Diebold-Mariano and encompassing tests")
	f.String("metrics-file", "", "Write Prometheus metrics to this file at the end of the run")
	f.String("weighting", "equal", "Benchmark weighting: equal, fixed or encompassing")
	f.Int("workers", 4, "Concurrent scenarios per series")
	f.Int("series-workers", 1, "Concurrent series")
	f.Duration("task-timeout", 0, "Timeout of one scenario (0 disables it)")

	for name, key := range flagKeys {
		cobra.CheckErr(v.BindPFlag(key, f.Lookup(name)))
	}
	rootCmd.AddCommand(runCmd)
}

func runEvaluation(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	if cfg.Input == "" {
		return errors.New("--input is required")
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	log := logger.WithField("run_id", uuid.NewString())

	if a, ok := cfg.Asymptotics(); !ok {
		log.Warnf("unknown test type %q, using %s", cfg.Type, a)
	}

	series, err := timeseries.LoadCSV(cfg.Input, nil)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Input, err)
	}
	log.WithField("series", len(series)).Infof("loaded %s", cfg.Input)

	methods, err := presetMethods(cfg.Methods, log)
	if err != nil {
		return err
	}
	opts, err := cfg.EvaluationOptions()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	opts = append(opts, evaluation.WithLogger(log), evaluation.WithMetrics(metrics.New(reg)))

	reports, evalErr := evaluation.New(methods, opts...).EvaluateAll(cmd.Context(), series)
	if evalErr != nil {
		log.WithError(evalErr).Warnf("%d of %d series could not be evaluated", len(series)-len(reports), len(series))
	}

	if err := writeReport(cmd.OutOrStdout(), cfg, reports); err != nil {
		return err
	}
	for _, r := range reports {
		if cfg.Plots != "" {
			if _, err := report.PlotErrors(cfg.Plots, r); err != nil {
				return err
			}
		}
		if cfg.Rolling != "" {
			if _, err := report.DumpRolling(cfg.Rolling, r); err != nil {
				return err
			}
		}
	}
	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if len(reports) == 0 && evalErr != nil {
		return evalErr
	}
	return nil
}

func presetMethods(names []string, log logrus.FieldLogger) ([3]sa.Method, error) {
	var methods [3]sa.Method
	if len(names) != len(methods) {
		return methods, fmt.Errorf("want %d methods, got %d", len(methods), len(names))
	}
	engine := arimasa.New(log)
	for i, name := range names {
		spec, err := arimasa.Preset(name)
		if err != nil {
			return methods, err
		}
		methods[i] = sa.Method{Name: spec.Name(), Engine: engine, Spec: spec}
	}
	return methods, nil
}

func writeReport(stdout io.Writer, cfg *config.Config, reports []*evaluation.Report) error {
	if cfg.Output == "" {
		return encodeReport(stdout, cfg.Format, reports)
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	return writeAndClose(f, func(w io.Writer) error {
		return encodeReport(w, cfg.Format, reports)
	})
}

func encodeReport(w io.Writer, format string, reports []*evaluation.Report) error {
	if format == "json" {
		return report.WriteJSON(w, reports)
	}
	return report.WriteCSV(w, reports)
}

// writeAndClose returns the error of write, or else the error of closing wc.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	err := write(wc)
	if cerr := wc.Close(); err == nil {
		err = cerr
	}
	return err
}
