// Package sarima implements Seasonal ARIMA (SARIMA) models.
//
// A SARIMA(p,d,q)(P,D,Q)[m] model is estimated by conditional sum of
// squares. A non-seasonal ARIMA is the same model with m = 1.
//
// # Airline model
//
// The default model of seasonal adjustment:
//
//	model := sarima.NewWithOrder(sarima.Airline(12))
//	if err := model.Fit(series); err != nil {
//	    return err
//	}
//	fmt.Println(model.Summary().Order) // (0,1,1)(0,1,1)[12]
//
// Fitting needs at least Order.MinLength observations; shorter series fail
// with ErrInsufficientData.
//
// # Dated forecasts
//
// Forecast and Backcast return series dated after the end and before the
// start of the fitted data. Backcasts come from the same order fitted on the
// reversed series. Decompositions use both to extend the series before
// smoothing:
//
//	ahead, _ := model.Forecast(12)
//	behind, _ := model.Backcast(12)
//
// # Effective observations
//
// NEffectiveObs is the number of observations left after regular and
// seasonal differencing, the sample the criteria are computed on:
//
//	model.NEffectiveObs() // n - d - D*m
package sarima
