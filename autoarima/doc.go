// Package autoarima implements automatic SARIMA model selection.
//
// AutoARIMA chooses the differencing orders with unit-root and seasonal
// strength tests, then searches the AR and MA orders that minimize an
// information criterion.
//
// # Identification for seasonal adjustment
//
// The arimasa engine identifies a small seasonal model on every complete
// re-estimation:
//
//	cfg := autoarima.DefaultConfig()
//	cfg.Seasonal = true
//	cfg.SeasonalM = series.Freq()
//	cfg.MaxP, cfg.MaxQ = 3, 3
//	cfg.MaxSP, cfg.MaxSQ = 1, 1
//	cfg.Criterion = "bic"
//
//	res, err := autoarima.AutoARIMA(series, cfg)
//	if errors.Is(err, autoarima.ErrNoModel) {
//	    // no candidate could be fitted on this window
//	}
//	fmt.Println(res.Order, res.ModelsEvaluated)
//
// The selected res.Model is already fitted; its order can be pinned for the
// free-parameter refreshes that follow.
//
// # Search
//
// Stepwise search (the default) walks neighbouring orders from the base
// model and stops when no neighbour improves the criterion. Setting
// Stepwise to false evaluates the full grid up to the configured maxima.
package autoarima
