// Package stats provides statistical tests and functions for time series analysis.
package stats

import (
	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/saeval/timeseries"
)

// ACF calculates the Autocorrelation Function for the given series.
// Returns ACF values for lags 0 to maxLag.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	return Autocorrelations(series.Values, maxLag)
}

// Autocorrelations is ACF on a raw slice.
func Autocorrelations(x []float64, maxLag int) []float64 {
	n := len(x)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	e := demean(x)
	variance := floats.Dot(e, e)
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := range acf {
		acf[k] = floats.Dot(e[k:], e[:n-k]) / variance
	}
	return acf
}
