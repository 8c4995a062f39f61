// Package sarima implements Seasonal ARIMA (SARIMA) models.
package sarima

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/saeval/stats"
	"github.com/sartorproj/saeval/timeseries"
)

var (
	// ErrNotFitted is returned when predicting from a model that was never fitted.
	ErrNotFitted = errors.New("sarima: model must be fitted before prediction")
	// ErrInsufficientData is returned when the series is too short for the order.
	ErrInsufficientData = errors.New("sarima: insufficient data points for the specified order")
)

// Order represents SARIMA model order (p, d, q) x (P, D, Q, m).
type Order struct {
	P int // Non-seasonal AR order
	D int // Non-seasonal differencing order
	Q int // Non-seasonal MA order
	// Seasonal components
	SP int // Seasonal AR order
	SD int // Seasonal differencing order
	SQ int // Seasonal MA order
	M  int // Seasonal period (e.g., 12 for monthly data with yearly seasonality)
}

// Airline returns the (0,1,1)(0,1,1) order at period m.
func Airline(m int) Order {
	return Order{D: 1, Q: 1, SD: 1, SQ: 1, M: m}
}

// NParams is the number of estimated parameters, intercept included.
func (o Order) NParams() int {
	return o.P + o.Q + o.SP + o.SQ + 1
}

// ResidualLags is the number of autocorrelations tested on the residuals:
// two years for seasonal orders, ten otherwise.
func (o Order) ResidualLags() int {
	if o.M > 1 {
		return max(2*o.M, 10)
	}
	return 10
}

// MinLength is the shortest series the order can be fitted on.
func (o Order) MinLength() int {
	return o.P + o.Q + o.D + (o.SP+o.SD+o.SQ)*o.M + 20
}

func (o Order) String() string {
	if o.M <= 1 {
		return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
	}
	return fmt.Sprintf("(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// Model represents a SARIMA model.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // Non-seasonal AR coefficients
	MACoeffs  []float64 // Non-seasonal MA coefficients
	SARCoeffs []float64 // Seasonal AR coefficients
	SMACoeffs []float64 // Seasonal MA coefficients
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64 // Corrected AIC for small sample sizes
	BIC       float64
	LogLik    float64

	fitted    bool
	data      *timeseries.Series
	diffData  []float64
	residuals []float64
}

// New creates a new SARIMA model with the specified order.
func New(p, d, q, sp, sd, sq, m int) *Model {
	return NewWithOrder(Order{P: p, D: d, Q: q, SP: sp, SD: sd, SQ: sq, M: m})
}

// NewWithOrder creates a new SARIMA model from an Order.
func NewWithOrder(o Order) *Model {
	if o.SP == 0 && o.SD == 0 && o.SQ == 0 && o.M == 0 {
		o.M = 1
	}
	return &Model{
		Order:     o,
		ARCoeffs:  make([]float64, o.P),
		MACoeffs:  make([]float64, o.Q),
		SARCoeffs: make([]float64, o.SP),
		SMACoeffs: make([]float64, o.SQ),
	}
}

// Fit fits the SARIMA model to the given time series data by conditional sum
// of squares.
func (m *Model) Fit(series *timeseries.Series) error {
	if series.Len() < m.Order.MinLength() {
		return ErrInsufficientData
	}
	if slices.ContainsFunc(series.Values, math.IsNaN) {
		return errors.New("sarima: series has missing values")
	}

	m.data = series

	diffSeries := series
	for i := 0; i < m.Order.D; i++ {
		diffSeries = diffSeries.Diff()
	}
	for i := 0; i < m.Order.SD; i++ {
		diffSeries = diffSeries.SeasonalDiff(m.Order.M)
	}
	if diffSeries.Len() == 0 {
		return errors.New("sarima: differencing resulted in empty series")
	}
	m.diffData = diffSeries.Values

	m.initCoeffs(diffSeries)
	m.optimizeCSS()
	m.calculateIC()

	m.fitted = true
	return nil
}

// initCoeffs seeds AR terms from the sample ACF and MA terms with a small constant.
func (m *Model) initCoeffs(diffSeries *timeseries.Series) {
	m.Intercept = diffSeries.Mean()

	if p := m.Order.P; p > 0 {
		if acf := stats.ACF(diffSeries, p); acf != nil {
			for i := 0; i < p && i+1 < len(acf); i++ {
				m.ARCoeffs[i] = acf[i+1] * 0.5
			}
		}
	}
	if sp, period := m.Order.SP, m.Order.M; sp > 0 {
		if acf := stats.ACF(diffSeries, sp*period); acf != nil {
			for i := 0; i < sp; i++ {
				if idx := (i + 1) * period; idx < len(acf) {
					m.SARCoeffs[i] = acf[idx] * 0.5
				}
			}
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}
	for i := range m.SMACoeffs {
		m.SMACoeffs[i] = 0.1
	}
}

// predictAt returns the one-step prediction of y[t]. Residuals at or after
// known are treated as zero.
func (m *Model) predictAt(y, resid []float64, t, known int) float64 {
	pred := m.Intercept
	period := m.Order.M

	for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.SP; i++ {
		if lag := (i + 1) * period; t-lag >= 0 {
			pred += m.SARCoeffs[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < m.Order.Q && t-i-1 >= 0 && t-i-1 < known; i++ {
		pred += m.MACoeffs[i] * resid[t-i-1]
	}
	for i := 0; i < m.Order.SQ; i++ {
		if lag := (i + 1) * period; t-lag >= 0 && t-lag < known {
			pred += m.SMACoeffs[i] * resid[t-lag]
		}
	}
	return pred
}

// optimizeCSS runs gradient descent with momentum and a decaying learning rate,
// keeping the best coefficients seen.
func (m *Model) optimizeCSS() {
	y := m.diffData
	n := len(y)
	p, q, sp, sq, period := m.Order.P, m.Order.Q, m.Order.SP, m.Order.SQ, m.Order.M

	const (
		maxIter   = 200
		tolerance = 1e-8
		momentum  = 0.9
		decay     = 0.99
	)
	learningRate := 0.005

	startIdx := max(p, q, sp*period, sq*period)
	if startIdx >= n-10 {
		startIdx = 0
	}

	groups := [][]float64{m.ARCoeffs, m.MACoeffs, m.SARCoeffs, m.SMACoeffs}
	velocity := make([][]float64, len(groups))
	best := make([][]float64, len(groups))
	for g, coeffs := range groups {
		velocity[g] = make([]float64, len(coeffs))
		best[g] = slices.Clone(coeffs)
	}

	bestSSE := math.Inf(1)
	noImproveCount := 0
	residuals := make([]float64, n)

	for iter := 0; iter < maxIter; iter++ {
		clear(residuals)
		currentSSE := 0.0
		for t := startIdx; t < n; t++ {
			residuals[t] = y[t] - m.predictAt(y, residuals, t, t)
			currentSSE += residuals[t] * residuals[t]
		}

		if currentSSE < bestSSE {
			bestSSE = currentSSE
			for g, coeffs := range groups {
				copy(best[g], coeffs)
			}
			noImproveCount = 0
		} else {
			noImproveCount++
		}
		if noImproveCount > 20 {
			break
		}

		grads := [][]float64{make([]float64, p), make([]float64, q), make([]float64, sp), make([]float64, sq)}
		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				grads[0][i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				grads[1][i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < sp; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					grads[2][i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < sq; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					grads[3][i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		for g, coeffs := range groups {
			for i := range coeffs {
				velocity[g][i] = momentum*velocity[g][i] + learningRate*grads[g][i]/float64(n)
				coeffs[i] = clamp(coeffs[i]-velocity[g][i], 0.99)
			}
		}
		learningRate *= decay

		if iter > 0 && math.Abs(currentSSE-bestSSE) < tolerance {
			break
		}
	}

	for g, coeffs := range groups {
		copy(coeffs, best[g])
	}

	m.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		m.residuals[t] = y[t] - m.predictAt(y, m.residuals, t, t)
	}

	sse, count := 0.0, 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	if k := m.Order.NParams(); count > k {
		m.Variance = sse / float64(count-k)
	} else {
		m.Variance = sse / float64(count)
	}
}

func (m *Model) calculateIC() {
	n := len(m.residuals)
	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	logLik := math.Inf(-1)
	if m.Variance > 0 {
		logLik = -float64(n)/2*math.Log(2*math.Pi) - float64(n)/2*math.Log(m.Variance) - sse/(2*m.Variance)
	}

	ic := stats.CalculateIC(logLik, n, m.Order.NParams())
	m.LogLik, m.AIC, m.AICc, m.BIC = ic.LogLik, ic.AIC, ic.AICc, ic.BIC
}

// NEffectiveObs is the number of observations left after differencing.
func (m *Model) NEffectiveObs() int {
	return len(m.diffData)
}

// Predict generates forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	forecasts, _, _, err := m.PredictWithInterval(steps, 0.95)
	return forecasts, err
}

// PredictWithInterval generates forecasts with prediction intervals at the
// given confidence level.
func (m *Model) PredictWithInterval(steps int, confidence float64) (forecasts, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, nil, nil, errors.New("sarima: steps must be at least 1")
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	n := len(m.diffData)
	extY := make([]float64, n+steps)
	copy(extY, m.diffData)
	for t := n; t < n+steps; t++ {
		extY[t] = m.predictAt(extY, m.residuals, t, n)
	}

	forecasts = m.integrate(extY[n:])

	z := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := 0; h < steps; h++ {
		// Variance grows with the horizon for integrated series.
		se := math.Sqrt(m.Variance)
		if m.Order.D > 0 {
			se *= math.Sqrt(float64(h + 1))
		}
		if m.Order.SD > 0 && m.Order.M > 0 {
			se *= math.Sqrt(float64(h/m.Order.M + 1))
		}
		lower[h] = forecasts[h] - z*se
		upper[h] = forecasts[h] + z*se
	}

	return forecasts, lower, upper, nil
}

// integrate undoes the seasonal then the non-seasonal differences applied in Fit.
func (m *Model) integrate(forecasts []float64) []float64 {
	levels := [][]float64{m.data.Values}
	for i := 0; i < m.Order.D; i++ {
		levels = append(levels, lagDiff(levels[len(levels)-1], 1))
	}
	for i := 0; i < m.Order.SD; i++ {
		levels = append(levels, lagDiff(levels[len(levels)-1], m.Order.M))
	}

	result := slices.Clone(forecasts)
	for k := len(levels) - 1; k >= 1; k-- {
		lag := 1
		if k > m.Order.D {
			lag = m.Order.M
		}
		history := levels[k-1]
		ext := append(slices.Clone(history), result...)
		base := len(history)
		for j := range result {
			ext[base+j] = result[j] + ext[base+j-lag]
			result[j] = ext[base+j]
		}
	}
	return result
}

func lagDiff(x []float64, lag int) []float64 {
	if len(x) <= lag {
		return nil
	}
	out := make([]float64, len(x)-lag)
	for i := lag; i < len(x); i++ {
		out[i-lag] = x[i] - x[i-lag]
	}
	return out
}

// Forecast returns the next steps predictions dated after the fitted series.
func (m *Model) Forecast(steps int) (*timeseries.Series, error) {
	values, err := m.Predict(steps)
	if err != nil {
		return nil, err
	}
	return timeseries.NewSeries(m.data.End().Plus(1), values), nil
}

// Backcast fits the same order on the time-reversed series and returns the
// steps values preceding the fitted series, oldest first.
func (m *Model) Backcast(steps int) (*timeseries.Series, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	reversed := m.data.Copy()
	slices.Reverse(reversed.Values)

	back := NewWithOrder(m.Order)
	if err := back.Fit(reversed); err != nil {
		return nil, fmt.Errorf("backward model: %w", err)
	}
	values, err := back.Predict(steps)
	if err != nil {
		return nil, err
	}
	slices.Reverse(values)
	return timeseries.NewSeries(m.data.Start.Minus(steps), values), nil
}

// Residuals returns the model residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return slices.Clone(m.residuals)
}

// Summary represents a model summary.
type Summary struct {
	Order     Order
	ARCoeffs  []float64
	MACoeffs  []float64
	SARCoeffs []float64
	SMACoeffs []float64
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	NObs      int
	// LjungBox is nil when the residuals are too few or constant.
	LjungBox  *stats.Portmanteau
}

// Summary returns a summary of the fitted model.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	var lb *stats.Portmanteau
	if p, ok := stats.LjungBox(m.Residuals(), m.Order.ResidualLags(), m.Order.NParams()-1); ok {
		lb = &p
	}

	return &Summary{
		Order:     m.Order,
		ARCoeffs:  m.ARCoeffs,
		MACoeffs:  m.MACoeffs,
		SARCoeffs: m.SARCoeffs,
		SMACoeffs: m.SMACoeffs,
		Intercept: m.Intercept,
		Variance:  m.Variance,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		LogLik:    m.LogLik,
		NObs:      m.data.Len(),
		LjungBox:  lb,
	}
}

func clamp(v, bound float64) float64 {
	return math.Max(-bound, math.Min(bound, v))
}
