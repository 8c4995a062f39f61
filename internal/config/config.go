// Package config loads the saeval configuration from a YAML file, SAEVAL_
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/saeval/accuracy"
	"github.com/sartorproj/saeval/arimasa"
	"github.com/sartorproj/saeval/benchmark"
	"github.com/sartorproj/saeval/evaluation"
)

// EnvPrefix prefixes the environment overrides, e.g. SAEVAL_LOG_LEVEL.
const EnvPrefix = "SAEVAL"

// Config is the effective configuration of a run.
type Config struct {
	Input  string `mapstructure:"input" yaml:"input"`
	Output string `mapstructure:"output" yaml:"output"`
	// Format is csv or json.
	Format string `mapstructure:"format" yaml:"format"`
	Plots  string `mapstructure:"plots" yaml:"plots"`
	// Rolling receives one CSV of rolling series per scenario when set.
	Rolling     string `mapstructure:"rolling" yaml:"rolling"`
	Type        string `mapstructure:"type" yaml:"type"`
	TwoSided    bool   `mapstructure:"twosided" yaml:"twosided"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`

	Weighting     string        `mapstructure:"weighting" yaml:"weighting"`
	Weights       []float64     `mapstructure:"weights" yaml:"weights,omitempty"`
	Workers       int           `mapstructure:"workers" yaml:"workers"`
	SeriesWorkers int           `mapstructure:"series_workers" yaml:"series_workers"`
	TaskTimeout   time.Duration `mapstructure:"task_timeout" yaml:"task_timeout"`
	Scenarios     []string      `mapstructure:"scenarios" yaml:"scenarios"`
	// Methods names the arimasa presets of the first, second and benchmark method.
	Methods []string `mapstructure:"methods" yaml:"methods"`

	Log Log `mapstructure:"log" yaml:"log"`
}

// Log configures the logger. Output goes to stderr unless File is set.
type Log struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// NewViper returns a viper instance with the defaults registered and the
// environment overrides enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	scenarios := make([]string, 0, 4)
	for _, s := range evaluation.DefaultScenarios() {
		scenarios = append(scenarios, s.Label)
	}

	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("format", "csv")
	v.SetDefault("plots", "")
	v.SetDefault("rolling", "")
	v.SetDefault("type", accuracy.DefaultAsymptotics.String())
	v.SetDefault("twosided", true)
	v.SetDefault("metrics_file", "")
	v.SetDefault("weighting", string(benchmark.Equal))
	v.SetDefault("weights", []float64{})
	v.SetDefault("workers", 4)
	v.SetDefault("series_workers", 1)
	v.SetDefault("task_timeout", time.Duration(0))
	v.SetDefault("scenarios", scenarios)
	v.SetDefault("methods", []string{"tramoseats", "x13", "airline"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)
}

// Load reads path (when not empty) into v and returns the validated
// configuration.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting. An unknown test type is not an
// error: it falls back to the default asymptotics.
func (c *Config) Validate() error {
	var merr *multierror.Error
	add := func(err error) { merr = multierror.Append(merr, err) }

	switch c.Format {
	case "csv", "json":
	default:
		add(fmt.Errorf("format must be csv or json, got %q", c.Format))
	}
	if c.Workers < 1 {
		add(fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.SeriesWorkers < 1 {
		add(fmt.Errorf("series_workers must be positive, got %d", c.SeriesWorkers))
	}
	if c.TaskTimeout < 0 {
		add(fmt.Errorf("task_timeout must not be negative, got %s", c.TaskTimeout))
	}

	w, err := benchmark.ParseWeighting(c.Weighting)
	if err != nil {
		add(err)
	} else if w == benchmark.Fixed {
		if err := benchmark.ValidateWeights(c.Weights, 3); err != nil {
			add(err)
		}
	}

	if len(c.Scenarios) == 0 {
		add(errors.New("at least one scenario is required"))
	}
	for _, label := range c.Scenarios {
		if _, err := evaluation.ParseScenario(label); err != nil {
			add(err)
		}
	}

	if len(c.Methods) != 3 {
		add(fmt.Errorf("exactly 3 methods are required, got %d", len(c.Methods)))
	}
	for _, name := range c.Methods {
		if _, err := arimasa.Preset(name); err != nil {
			add(err)
		}
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		add(fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add(fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	if err := merr.ErrorOrNil(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Asymptotics returns the configured test asymptotics and whether Type named
// one.
func (c *Config) Asymptotics() (accuracy.Asymptotics, bool) {
	return accuracy.ParseAsymptotics(c.Type)
}

// EvaluationOptions translates the configuration into orchestrator options.
func (c *Config) EvaluationOptions() ([]evaluation.Option, error) {
	scenarios := make([]evaluation.Scenario, 0, len(c.Scenarios))
	for _, label := range c.Scenarios {
		s, err := evaluation.ParseScenario(label)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	w, err := benchmark.ParseWeighting(c.Weighting)
	if err != nil {
		return nil, err
	}
	a, _ := c.Asymptotics()

	return []evaluation.Option{
		evaluation.WithWorkers(c.Workers),
		evaluation.WithSeriesWorkers(c.SeriesWorkers),
		evaluation.WithTaskTimeout(c.TaskTimeout),
		evaluation.WithScenarios(scenarios...),
		evaluation.WithWeighting(w, c.Weights...),
		evaluation.WithEvaluator(accuracy.Evaluator{Asymptotics: a, TwoSided: c.TwoSided}),
	}, nil
}

// YAML renders the configuration in the file format read by Load.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
