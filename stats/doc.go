// Package stats provides statistical tests and analysis functions for time series.
//
// It covers what model identification, decomposition and forecast accuracy
// testing need: unit-root tests, autocorrelations, residual whiteness,
// seasonal decompositions and long-run variances.
//
// # Differencing
//
//	d := stats.NDiffs(series, 2, "kpss")    // regular differences
//	sd := stats.NSDiffs(series, 12, 1)      // seasonal differences
//	adf := stats.ADF(series, 0)             // H0: unit root
//	kpss := stats.KPSS(series, "c", 0)      // H0: stationary
//
// # Decomposition
//
// Both decompositions return trend, seasonal and remainder series aligned
// with the input:
//
//	classical := stats.Decompose(series, 12, "additive")
//	stl := stats.STL(series, 12, 2)
//
// # Residuals
//
//	lb, ok := stats.LjungBox(residuals, 24, p+q)
//	if ok && !lb.White(0.05) {
//	    // remaining autocorrelation
//	}
//
// # Long-Run Variance
//
// Loss differentials of rolling forecasts are autocorrelated, so their
// t-statistics use a HAC variance: Newey-West with a Bartlett kernel, or the
// equally weighted cosine estimator with B degrees of freedom for fixed-b
// inference.
//
//	nw := stats.BartlettLRV(loss, stats.NeweyWestBandwidth(len(loss)))
//	ewc := stats.EWCLRV(loss, stats.EWCDegrees(len(loss)))
package stats
