package stats

import (
	"math"
	"sort"

	"github.com/sartorproj/saeval/timeseries"
)

// DecompositionResult represents the decomposition of a time series.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Type     string // "additive" or "multiplicative"
}

// Decompose performs classical seasonal decomposition with a centered moving
// average trend. Type can be "additive" (Y = T + S + R) or "multiplicative"
// (Y = T * S * R).
func Decompose(series *timeseries.Series, period int, decompositionType string) *DecompositionResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}
	multiplicative := decompositionType == "multiplicative"
	if !multiplicative {
		decompositionType = "additive"
	}

	trend := centeredMA(series.Values, period)

	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			detrended[i] = math.NaN()
		case multiplicative:
			detrended[i] = series.Values[i] / trend[i]
		default:
			detrended[i] = series.Values[i] - trend[i]
		}
	}

	// Average within each season, then center the pattern.
	offset := seasonOffset(series, period)
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			idx := (i + offset) % period
			pattern[idx] += v
			counts[idx]++
		}
	}
	mean := 0.0
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		mean += pattern[i]
	}
	mean /= float64(period)
	for i := range pattern {
		if multiplicative {
			pattern[i] /= mean
		} else {
			pattern[i] -= mean
		}
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[(i+offset)%period]
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = math.NaN()
		case multiplicative:
			residual[i] = series.Values[i] / (trend[i] * seasonal[i])
		default:
			residual[i] = series.Values[i] - trend[i] - seasonal[i]
		}
	}

	return &DecompositionResult{
		Original: series,
		Trend:    component(series, "trend", trend),
		Seasonal: component(series, "seasonal", seasonal),
		Residual: component(series, "residual", residual),
		Period:   period,
		Type:     decompositionType,
	}
}

// centeredMA is a 2xm moving average for even m and an m moving average otherwise.
// The first and last m/2 values are missing.
func centeredMA(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		sum := 0.0
		if period%2 == 0 {
			sum += 0.5 * (values[i-half] + values[i+half])
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		trend[i] = sum / float64(period)
	}
	return trend
}

// STLResult represents the result of STL decomposition.
type STLResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
}

// STL performs a simplified Seasonal and Trend decomposition using Loess, with
// bisquare robustness weights between iterations.
func STL(series *timeseries.Series, period int, robustIters int) *STLResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}
	if robustIters < 1 {
		robustIters = 2
	}

	offset := seasonOffset(series, period)
	trend := make([]float64, n)
	seasonal := make([]float64, n)
	residual := make([]float64, n)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0
	}

	trendWindow := period
	if trendWindow%2 == 0 {
		trendWindow++
	}
	halfWindow := trendWindow / 2

	for iter := 0; iter < robustIters; iter++ {
		// Seasonal: weighted average of the detrended series per season.
		pattern := make([]float64, period)
		counts := make([]float64, period)
		for i := 0; i < n; i++ {
			idx := (i + offset) % period
			pattern[idx] += (series.Values[i] - trend[i]) * weights[i]
			counts[idx] += weights[i]
		}
		mean := 0.0
		for i := range pattern {
			if counts[i] > 0 {
				pattern[i] /= counts[i]
			}
			mean += pattern[i]
		}
		mean /= float64(period)
		for i := 0; i < n; i++ {
			seasonal[i] = pattern[(i+offset)%period] - mean
		}

		// Trend: triangular weighted smoother of the deseasonalized series.
		for i := 0; i < n; i++ {
			sum, weightSum := 0.0, 0.0
			for j := -halfWindow; j <= halfWindow; j++ {
				idx := i + j
				if idx >= 0 && idx < n {
					w := weights[idx] * (1 - math.Abs(float64(j))/float64(halfWindow+1))
					sum += (series.Values[idx] - seasonal[idx]) * w
					weightSum += w
				}
			}
			if weightSum > 0 {
				trend[i] = sum / weightSum
			}
		}

		for i := 0; i < n; i++ {
			residual[i] = series.Values[i] - trend[i] - seasonal[i]
		}

		if iter < robustIters-1 {
			updateRobustWeights(residual, weights)
		}
	}

	return &STLResult{
		Original: series,
		Trend:    component(series, "trend", trend),
		Seasonal: component(series, "seasonal", seasonal),
		Residual: component(series, "residual", residual),
		Period:   period,
	}
}

func updateRobustWeights(residual, weights []float64) {
	abs := make([]float64, len(residual))
	for i, r := range residual {
		abs[i] = math.Abs(r)
	}
	sort.Float64s(abs)
	h := 6 * abs[len(abs)/2]
	if h <= 0 {
		return
	}
	for i, r := range residual {
		u := math.Abs(r) / h
		if u < 1 {
			weights[i] = (1 - u*u) * (1 - u*u)
		} else {
			weights[i] = 0
		}
	}
}

// seasonOffset aligns season indices on the calendar when the period matches
// the series frequency.
func seasonOffset(series *timeseries.Series, period int) int {
	if series.Freq() == period {
		return series.Start.Position()
	}
	return 0
}

func component(series *timeseries.Series, name string, values []float64) *timeseries.Series {
	s := timeseries.NewSeries(series.Start, values)
	s.Name = name
	return s
}
