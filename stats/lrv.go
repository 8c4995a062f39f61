package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NeweyWestBandwidth returns the usual automatic Bartlett bandwidth
// floor(4 (n/100)^(2/9)).
func NeweyWestBandwidth(n int) int {
	return int(math.Floor(4 * math.Pow(float64(n)/100, 2.0/9.0)))
}

// BartlettLRV estimates the long-run variance of x around its mean with a
// Bartlett kernel truncated at lags.
func BartlettLRV(x []float64, lags int) float64 {
	return bartlett(demean(x), lags)
}

// bartlett expects a centered input.
func bartlett(e []float64, lags int) float64 {
	n := len(e)
	if n == 0 {
		return 0
	}
	if lags >= n {
		lags = n - 1
	}

	s2 := floats.Dot(e, e) / float64(n)
	for l := 1; l <= lags; l++ {
		cov := floats.Dot(e[l:], e[:n-l]) / float64(n)
		weight := 1.0 - float64(l)/float64(lags+1)
		s2 += 2 * weight * cov
	}
	return s2
}

// EWCDegrees returns the number of cosine terms used by EWCLRV,
// round(0.4 n^(2/3)) and at least one.
func EWCDegrees(n int) int {
	b := int(math.Round(0.4 * math.Pow(float64(n), 2.0/3.0)))
	return max(b, 1)
}

// EWCLRV estimates the long-run variance of x with the equal-weighted cosine
// estimator on b frequencies. Tests built on it use Student-t(b) critical values.
func EWCLRV(x []float64, b int) float64 {
	n := len(x)
	if n == 0 || b < 1 {
		return 0
	}
	e := demean(x)
	nf := float64(n)

	lrv := 0.0
	for j := 1; j <= b; j++ {
		proj := 0.0
		for t, v := range e {
			proj += v * math.Cos(math.Pi*float64(j)*(float64(t)+0.5)/nf)
		}
		proj *= math.Sqrt(2 / nf)
		lrv += proj * proj
	}
	return lrv / float64(b)
}

func demean(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	floats.AddConst(-stat.Mean(x, nil), out)
	return out
}
