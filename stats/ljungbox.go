package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Portmanteau is a Ljung-Box test of residual whiteness.
type Portmanteau struct {
	Q      float64
	PValue float64
	Lags   int
	DOF    int
}

// White reports whether the test fails to reject whiteness at level alpha.
func (p Portmanteau) White(alpha float64) bool {
	return p.PValue >= alpha
}

// LjungBox tests the first lags autocorrelations of residuals, with fitdf
// degrees of freedom taken by the estimated coefficients. It returns false on
// fewer than ten residuals or constant residuals.
func LjungBox(residuals []float64, lags, fitdf int) (Portmanteau, bool) {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return Portmanteau{}, false
	}
	lags = min(lags, n-1)

	rho := Autocorrelations(residuals, lags)
	if rho == nil {
		return Portmanteau{}, false
	}

	q := 0.0
	for k, r := range rho[1:] {
		q += r * r / float64(n-k-1)
	}
	q *= float64(n) * float64(n+2)

	dof := max(lags-fitdf, 1)
	return Portmanteau{
		Q:      q,
		PValue: distuv.ChiSquared{K: float64(dof)}.Survival(q),
		Lags:   lags,
		DOF:    dof,
	}, true
}
