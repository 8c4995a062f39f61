package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/saeval/internal/config"
	"github.com/sartorproj/saeval/report"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeSeriesCSV(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("date,retail\n")
	for i := range 120 {
		year, month := 2015+i/12, i%12+1
		value := 100 + 0.4*float64(i) + 8*math.Sin(2*math.Pi*float64(i)/12) + 1.5*math.Sin(1.7*float64(i))
		fmt.Fprintf(&b, "%d-%02d-01,%.4f\n", year, month, value)
	}
	path := filepath.Join(dir, "series.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestConfigShow(t *testing.T) {
	output, err := executeCommand(rootCmd, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "format: csv")
	assert.Contains(t, output, "type: STANDARD_FIXED_B")
	assert.Contains(t, output, "- tramoseats")
}

func TestRunRequiresInput(t *testing.T) {
	_, err := executeCommand(rootCmd, "run")
	assert.ErrorContains(t, err, "--input is required")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := writeSeriesCSV(t, dir)
	cfgPath := filepath.Join(dir, "saeval.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
methods: [airline, airline, airline]
scenarios: ["SA(0)", "Fcts(1)"]
log:
  level: error
`), 0o644))
	out := filepath.Join(dir, "report.csv")
	metricsFile := filepath.Join(dir, "metrics.prom")

	_, err := executeCommand(rootCmd, "run",
		"--config", cfgPath,
		"--input", input,
		"--output", out,
		"--type", "nonsense",
		"--metrics-file", metricsFile,
	)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(report.Titles(), ","), lines[0])
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "retail,"), line)
	}

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `saeval_series_total{status="ok"} 1`)
}

type closeErrWriter struct {
	bytes.Buffer
	err error
}

func (w *closeErrWriter) Close() error { return w.err }

func TestWriteAndClose(t *testing.T) {
	errClose := errors.New("disk full")
	w := &closeErrWriter{err: errClose}
	err := writeAndClose(w, func(out io.Writer) error {
		_, err := io.WriteString(out, "SERIES\n")
		return err
	})
	assert.ErrorIs(t, err, errClose)
	assert.Equal(t, "SERIES\n", w.String())

	errWrite := errors.New("encode failed")
	err = writeAndClose(&closeErrWriter{err: errClose}, func(io.Writer) error { return errWrite })
	assert.ErrorIs(t, err, errWrite)

	assert.NoError(t, writeAndClose(&closeErrWriter{}, func(io.Writer) error { return nil }))
}

func TestWriteReportMissingDirectory(t *testing.T) {
	cfg := &config.Config{Output: filepath.Join(t.TempDir(), "missing", "report.csv"), Format: "csv"}
	assert.Error(t, writeReport(io.Discard, cfg, nil))
}
