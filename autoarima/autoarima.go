// Package autoarima implements automatic SARIMA model selection.
package autoarima

import (
	"errors"
	"math"

	"github.com/sartorproj/saeval/sarima"
	"github.com/sartorproj/saeval/stats"
	"github.com/sartorproj/saeval/timeseries"
)

// ErrNoModel is returned when no candidate order could be fitted.
var ErrNoModel = errors.New("autoarima: no candidate model could be fitted")

// Config holds configuration for auto ARIMA search.
type Config struct {
	MaxP        int    // Maximum AR order (default: 5)
	MaxD        int    // Maximum differencing order (default: 2)
	MaxQ        int    // Maximum MA order (default: 5)
	MaxSP       int    // Maximum seasonal AR order (default: 2)
	MaxSD       int    // Maximum seasonal differencing order (default: 1)
	MaxSQ       int    // Maximum seasonal MA order (default: 2)
	Seasonal    bool   // Whether to consider seasonal models
	SeasonalM   int    // Seasonal period (required if Seasonal=true)
	Stepwise    bool   // Use stepwise search instead of exhaustive
	Criterion   string // Information criterion: "aic", "aicc" or "bic" (default: "aic")
	StationTest string // Stationarity test: "adf" or "kpss" (default: "kpss")
}

// DefaultConfig returns the default auto ARIMA configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:        5,
		MaxD:        2,
		MaxQ:        5,
		MaxSP:       2,
		MaxSD:       1,
		MaxSQ:       2,
		Stepwise:    true,
		Criterion:   "aic",
		StationTest: "kpss",
	}
}

func (c *Config) seasonal() bool {
	return c.Seasonal && c.SeasonalM > 1
}

func (c *Config) score(m *sarima.Model) float64 {
	switch c.Criterion {
	case "bic":
		return m.BIC
	case "aicc":
		return m.AICc
	default:
		return m.AIC
	}
}

func (c *Config) allows(o sarima.Order) bool {
	return o.P >= 0 && o.P <= c.MaxP && o.Q >= 0 && o.Q <= c.MaxQ &&
		o.SP >= 0 && o.SP <= c.MaxSP && o.SQ >= 0 && o.SQ <= c.MaxSQ
}

// Result represents the result of auto ARIMA model selection.
type Result struct {
	Model *sarima.Model
	Order sarima.Order

	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	Criterion float64

	ModelsEvaluated int
	IsSeasonal      bool
}

// AutoARIMA selects the SARIMA order minimizing the configured criterion.
// Non-seasonal searches keep every seasonal order at zero.
func AutoARIMA(series *timeseries.Series, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}

	base := sarima.Order{D: determineDifferencing(series, config.MaxD, config.StationTest), M: 1}
	if config.seasonal() {
		base.M = config.SeasonalM
		base.SD = determineSeasonalDifferencing(series, config.MaxSD, config.SeasonalM)
	} else {
		config = withoutSeasonal(config)
	}

	s := &search{series: series, config: config}
	if config.Stepwise {
		s.stepwise(base)
	} else {
		s.grid(base)
	}
	if s.best == nil {
		return nil, ErrNoModel
	}

	return &Result{
		Model:           s.best,
		Order:           s.best.Order,
		AIC:             s.best.AIC,
		AICc:            s.best.AICc,
		BIC:             s.best.BIC,
		LogLik:          s.best.LogLik,
		Criterion:       s.bestScore,
		ModelsEvaluated: s.evaluated,
		IsSeasonal:      config.seasonal(),
	}, nil
}

func withoutSeasonal(c *Config) *Config {
	out := *c
	out.MaxSP, out.MaxSQ = 0, 0
	return &out
}

// determineDifferencing picks d. With KPSS the series is also checked with ADF:
// both must agree unless KPSS is far from rejecting.
func determineDifferencing(series *timeseries.Series, maxD int, testType string) int {
	if testType == "adf" {
		return stats.NDiffs(series, maxD, "adf")
	}

	current := series
	for d := 0; d < maxD; d++ {
		kpss := stats.KPSS(current, "c", 0)
		adf := stats.ADF(current, 0)

		kpssStationary := kpss != nil && kpss.IsStationary
		adfStationary := adf != nil && adf.IsStationary
		if kpssStationary && (adfStationary || kpss.PValue > 0.1) {
			return d
		}

		current = current.Diff()
		if current.Len() < 10 {
			return d
		}
	}
	return maxD
}

// determineSeasonalDifferencing takes one seasonal difference when the seasonal
// autocorrelation is strong or the seasonal strength calls for it.
func determineSeasonalDifferencing(series *timeseries.Series, maxSD int, period int) int {
	if maxSD <= 0 {
		return 0
	}
	if acf := stats.ACF(series, period*2); len(acf) > period && math.Abs(acf[period]) > 0.5 {
		return 1
	}
	return min(stats.NSDiffs(series, period, maxSD), 1)
}

type search struct {
	series    *timeseries.Series
	config    *Config
	best      *sarima.Model
	bestScore float64
	evaluated int
}

// try fits o and reports whether it improved on the best model.
func (s *search) try(o sarima.Order) bool {
	if !s.config.allows(o) {
		return false
	}
	model := sarima.NewWithOrder(o)
	if err := model.Fit(s.series); err != nil {
		return false
	}
	s.evaluated++

	score := s.config.score(model)
	if math.IsNaN(score) {
		return false
	}
	if s.best == nil || score < s.bestScore {
		s.best, s.bestScore = model, score
		return true
	}
	return false
}

func (s *search) grid(base sarima.Order) {
	for p := 0; p <= s.config.MaxP; p++ {
		for q := 0; q <= s.config.MaxQ; q++ {
			for sp := 0; sp <= s.config.MaxSP; sp++ {
				for sq := 0; sq <= s.config.MaxSQ; sq++ {
					o := base
					o.P, o.Q, o.SP, o.SQ = p, q, sp, sq
					s.try(o)
				}
			}
		}
	}
}

// stepwise follows the Hyndman-Khandakar scheme: a few starting models, then
// moves to the best neighbour until no neighbour improves.
func (s *search) stepwise(base sarima.Order) {
	starts := [][4]int{{0, 0, 0, 0}, {1, 0, 1, 0}, {0, 1, 0, 1}, {1, 1, 1, 1}, {2, 2, 1, 1}}
	for _, st := range starts {
		o := base
		o.P, o.Q, o.SP, o.SQ = st[0], st[1], st[2], st[3]
		if !s.config.seasonal() {
			o.SP, o.SQ = 0, 0
		}
		s.try(o)
	}
	if s.best == nil {
		return
	}

	moves := [][4]int{
		{1, 0, 0, 0}, {-1, 0, 0, 0}, {0, 1, 0, 0}, {0, -1, 0, 0},
		{1, 1, 0, 0}, {-1, -1, 0, 0},
		{0, 0, 1, 0}, {0, 0, -1, 0}, {0, 0, 0, 1}, {0, 0, 0, -1},
	}
	for improved := true; improved; {
		improved = false
		center := s.best.Order
		for _, mv := range moves {
			o := center
			o.P += mv[0]
			o.Q += mv[1]
			o.SP += mv[2]
			o.SQ += mv[3]
			if s.try(o) {
				improved = true
			}
		}
	}
}
