package stats

import (
	"math"
	"testing"

	"github.com/sartorproj/saeval/timeseries"
)

func TestACF(t *testing.T) {
	// Create a simple AR(1) process
	n := 100
	phi := 0.8
	values := make([]float64, n)
	values[0] = 0
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + (float64(i%10)-5)/10
	}

	series := timeseries.New(values)
	acf := ACF(series, 10)

	if acf == nil {
		t.Fatal("ACF returned nil")
	}

	// ACF at lag 0 should be 1
	if math.Abs(acf[0]-1.0) > 1e-10 {
		t.Errorf("ACF at lag 0 should be 1, got %f", acf[0])
	}

	// ACF values should decay for AR(1)
	for i := 1; i < len(acf)-1; i++ {
		if math.Abs(acf[i]) > math.Abs(acf[i-1])+0.1 {
			// Allow some tolerance, but generally should decay
			t.Logf("ACF may not be decaying properly at lag %d", i)
		}
	}
}

func TestADF(t *testing.T) {
	// Test with stationary data (oscillating around mean)
	n := 200
	stationary := make([]float64, n)
	for i := range stationary {
		stationary[i] = 100 + math.Sin(float64(i)/10)*5 + float64(i%5-2)
	}

	series := timeseries.New(stationary)
	result := ADF(series, 0)

	if result == nil {
		t.Fatal("ADF returned nil for stationary data")
	}

	t.Logf("ADF Statistic: %f, P-Value: %f, IsStationary: %v",
		result.Statistic, result.PValue, result.IsStationary)

	// Test with non-stationary data (trending)
	nonStationary := make([]float64, n)
	for i := 0; i < n; i++ {
		nonStationary[i] = float64(i)*0.5 + float64(i%5-2)
	}

	series2 := timeseries.New(nonStationary)
	result2 := ADF(series2, 0)

	if result2 == nil {
		t.Log("ADF returned nil for non-stationary data (may need more data points)")
	} else {
		t.Logf("ADF Non-Stationary - Statistic: %f, P-Value: %f, IsStationary: %v",
			result2.Statistic, result2.PValue, result2.IsStationary)
	}
}

func TestKPSS(t *testing.T) {
	// Stationary data
	n := 200
	stationary := make([]float64, n)
	for i := range stationary {
		stationary[i] = math.Sin(float64(i)/10) + float64(i%5-2)/5
	}

	series := timeseries.New(stationary)
	result := KPSS(series, "c", 0)

	if result == nil {
		t.Fatal("KPSS returned nil")
	}

	t.Logf("KPSS Stationary - Statistic: %f, P-Value: %f, IsStationary: %v",
		result.Statistic, result.PValue, result.IsStationary)

	// Non-stationary (trend)
	nonStationary := make([]float64, n)
	for i := range nonStationary {
		nonStationary[i] = float64(i) * 0.5
	}

	series2 := timeseries.New(nonStationary)
	result2 := KPSS(series2, "c", 0)

	if result2 == nil {
		t.Fatal("KPSS returned nil for non-stationary data")
	}

	t.Logf("KPSS Non-Stationary - Statistic: %f, P-Value: %f, IsStationary: %v",
		result2.Statistic, result2.PValue, result2.IsStationary)
}

func TestLjungBox(t *testing.T) {
	n := 100
	cycle := make([]float64, n)
	for i := range cycle {
		cycle[i] = float64(i%7-3) / 3
	}
	result, ok := LjungBox(cycle, 10, 0)
	if !ok {
		t.Fatal("LjungBox not computable on a cycle")
	}
	if result.Lags != 10 || result.DOF != 10 {
		t.Errorf("Expected 10 lags and 10 degrees of freedom, got %d and %d", result.Lags, result.DOF)
	}
	t.Logf("Ljung-Box - Q: %f, P-Value: %f", result.Q, result.PValue)

	if _, ok := LjungBox(cycle[:9], 5, 0); ok {
		t.Error("Expected nine residuals to be too few")
	}
	if _, ok := LjungBox(make([]float64, n), 10, 0); ok {
		t.Error("Expected constant residuals to be rejected")
	}

	short, ok := LjungBox(cycle[:12], 24, 3)
	if !ok {
		t.Fatal("LjungBox not computable on twelve residuals")
	}
	if short.Lags != 11 || short.DOF != 8 {
		t.Errorf("Expected lags capped at 11 with 8 degrees of freedom, got %d and %d", short.Lags, short.DOF)
	}
}

func TestDecompose(t *testing.T) {
	// Create data with trend and seasonality
	n := 120 // 10 years of monthly data
	period := 12
	values := make([]float64, n)

	for i := 0; i < n; i++ {
		trend := float64(i) * 0.5                                              // Linear trend
		seasonal := 10 * math.Sin(2*math.Pi*float64(i%period)/float64(period)) // Seasonal
		noise := float64(i%5-2) / 5                                            // Noise
		values[i] = trend + seasonal + noise
	}

	series := timeseries.New(values)
	result := Decompose(series, period, "additive")

	if result == nil {
		t.Fatal("Decompose returned nil")
	}

	if result.Trend.Len() != n {
		t.Errorf("Trend length mismatch: expected %d, got %d", n, result.Trend.Len())
	}

	if result.Seasonal.Len() != n {
		t.Errorf("Seasonal length mismatch: expected %d, got %d", n, result.Seasonal.Len())
	}

	if result.Residual.Len() != n {
		t.Errorf("Residual length mismatch: expected %d, got %d", n, result.Residual.Len())
	}

	// Check that components roughly sum to original (for additive)
	// Skip edges where trend may be NaN
	for i := period; i < n-period; i++ {
		reconstructed := result.Trend.Values[i] + result.Seasonal.Values[i] + result.Residual.Values[i]
		original := series.Values[i]
		if !math.IsNaN(reconstructed) && math.Abs(reconstructed-original) > 1.0 {
			t.Errorf("Reconstruction error at index %d: original=%f, reconstructed=%f",
				i, original, reconstructed)
		}
	}
}

func TestSTL(t *testing.T) {
	n := 120
	period := 12
	values := make([]float64, n)

	for i := 0; i < n; i++ {
		trend := float64(i) * 0.5
		seasonal := 10 * math.Sin(2*math.Pi*float64(i%period)/float64(period))
		values[i] = trend + seasonal + float64(i%5-2)/5
	}

	series := timeseries.New(values)
	result := STL(series, period, 2)

	if result == nil {
		t.Fatal("STL returned nil")
	}

	// Basic length checks
	if result.Trend.Len() != n {
		t.Errorf("STL Trend length mismatch")
	}
	if result.Seasonal.Len() != n {
		t.Errorf("STL Seasonal length mismatch")
	}
	if result.Residual.Len() != n {
		t.Errorf("STL Residual length mismatch")
	}

	// The seasonal component should be periodic
	// Check a few period-apart values
	for i := period; i < n; i += period {
		diff := math.Abs(result.Seasonal.Values[i] - result.Seasonal.Values[i-period])
		if diff > 5.0 {
			t.Logf("Seasonal component may not be periodic: diff at %d = %f", i, diff)
		}
	}
}

func TestLjungBoxPValue(t *testing.T) {
	n := 100
	autocorrelated := make([]float64, n)
	for i := 1; i < n; i++ {
		autocorrelated[i] = 0.9*autocorrelated[i-1] + float64(i%7-3)/10
	}

	result, ok := LjungBox(autocorrelated, 10, 0)
	if !ok {
		t.Fatal("LjungBox not computable")
	}
	if result.White(0.01) {
		t.Errorf("Expected strong rejection for an AR(1) with phi=0.9, got p=%f", result.PValue)
	}
	if result.DOF != 10 {
		t.Errorf("Expected 10 degrees of freedom, got %d", result.DOF)
	}
}

func TestDecomposeCalendarAlignment(t *testing.T) {
	pattern := []float64{5, -5, 3, -3, 1, -1, 2, -2, 4, -4, 0, 0}
	values := make([]float64, 60)
	for i := range values {
		// Series starts in April.
		values[i] = 100 + pattern[(i+3)%12]
	}
	series := timeseries.NewSeries(timeseries.NewPeriod(12, 2000, 3), values)

	result := Decompose(series, 12, "additive")
	if result == nil {
		t.Fatal("Decompose returned nil")
	}
	if result.Seasonal.Start != series.Start {
		t.Errorf("Seasonal component starts at %s, expected %s", result.Seasonal.Start, series.Start)
	}
	for i := 0; i < 12; i++ {
		if math.Abs(result.Seasonal.Values[i]-pattern[(i+3)%12]) > 1e-9 {
			t.Errorf("Seasonal at %d: expected %f, got %f", i, pattern[(i+3)%12], result.Seasonal.Values[i])
		}
	}
}

func TestDecomposeMultiplicative(t *testing.T) {
	factors := []float64{1.2, 0.8, 1.1, 0.9}
	values := make([]float64, 40)
	for i := range values {
		values[i] = 50 * factors[i%4]
	}

	result := Decompose(timeseries.New(values), 4, "multiplicative")
	if result == nil {
		t.Fatal("Decompose returned nil")
	}
	if result.Type != "multiplicative" {
		t.Errorf("Expected multiplicative type, got %s", result.Type)
	}
	for i, f := range factors {
		if math.Abs(result.Seasonal.Values[i]-f) > 1e-9 {
			t.Errorf("Factor %d: expected %f, got %f", i, f, result.Seasonal.Values[i])
		}
	}
}
