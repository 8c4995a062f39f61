package accuracy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/saeval/stats"
)

var (
	// ErrNotComputable is returned when a statistic is undefined for its input.
	ErrNotComputable = errors.New("accuracy: statistic not computable")
	// ErrInsufficientData is returned when fewer than two periods are defined
	// across all inputs of an evaluation.
	ErrInsufficientData = errors.New("accuracy: insufficient aligned data")
)

// Asymptotics selects the long-run variance estimator and the reference
// distribution of the loss tests.
type Asymptotics int

const (
	// FixedB uses the equal-weighted cosine estimator with Student-t critical values.
	FixedB Asymptotics = iota
	// Standard uses the Newey-West estimator with normal critical values.
	Standard
)

// DefaultAsymptotics is used when none or an unknown one is requested.
const DefaultAsymptotics = FixedB

func (a Asymptotics) String() string {
	switch a {
	case Standard:
		return "STANDARD"
	case FixedB:
		return "STANDARD_FIXED_B"
	default:
		return fmt.Sprintf("Asymptotics(%d)", int(a))
	}
}

// ParseAsymptotics parses STANDARD or STANDARD_FIXED_B, case-insensitively.
// Unknown names yield DefaultAsymptotics and false.
func ParseAsymptotics(name string) (Asymptotics, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "STANDARD":
		return Standard, true
	case "STANDARD_FIXED_B":
		return FixedB, true
	default:
		return DefaultAsymptotics, false
	}
}

// Test is a t-test of a zero mean loss.
type Test struct {
	N         int
	Mean      float64
	Statistic float64

	cdf func(float64) float64
}

// PValue returns the p-value of the test. The one-sided alternative is a
// positive mean loss.
func (t Test) PValue(twoSided bool) float64 {
	if twoSided {
		return 2 * (1 - t.cdf(math.Abs(t.Statistic)))
	}
	return 1 - t.cdf(t.Statistic)
}

// LossTest tests whether loss has a zero mean, with a standard error from the
// long-run variance selected by a.
func (a Asymptotics) LossTest(loss []float64) (Test, error) {
	n := len(loss)
	if n < 2 {
		return Test{}, fmt.Errorf("%w: %d observations", ErrNotComputable, n)
	}

	var (
		lrv float64
		cdf func(float64) float64
	)
	switch a {
	case Standard:
		lrv = stats.BartlettLRV(loss, stats.NeweyWestBandwidth(n))
		cdf = distuv.UnitNormal.CDF
	default:
		b := stats.EWCDegrees(n)
		lrv = stats.EWCLRV(loss, b)
		cdf = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(b)}.CDF
	}

	mean := stat.Mean(loss, nil)
	// Rounding leaves a residual variance on constant losses.
	if lrv <= 1e-20*mean*mean {
		lrv = 0
	}
	t := Test{N: n, Mean: mean, cdf: cdf}
	switch {
	case lrv > 0:
		t.Statistic = mean / math.Sqrt(lrv/float64(n))
	case isZero(mean):
		t.Statistic = 0
	default:
		return Test{}, fmt.Errorf("%w: zero long-run variance", ErrNotComputable)
	}
	return t, nil
}

func isZero(v float64) bool {
	return math.Abs(v) < 1e-12
}

// RMSE is the root mean square of e.
func RMSE(e []float64) float64 {
	if len(e) == 0 {
		return math.NaN()
	}
	ss := 0.0
	for _, v := range e {
		ss += v * v
	}
	return math.Sqrt(ss / float64(len(e)))
}

// RelativeRMSE returns RMSE(model)/RMSE(benchmark), or 1 when both are zero.
func RelativeRMSE(model, benchmark []float64) (float64, error) {
	if len(model) == 0 || len(model) != len(benchmark) {
		return 0, fmt.Errorf("%w: %d and %d errors", ErrNotComputable, len(model), len(benchmark))
	}
	m, b := RMSE(model), RMSE(benchmark)
	switch {
	case b > 0:
		return m / b, nil
	case m == 0:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: zero benchmark error", ErrNotComputable)
	}
}

// DieboldMariano tests equal accuracy of two error series with the loss
// model² - benchmark².
func (a Asymptotics) DieboldMariano(model, benchmark []float64) (Test, error) {
	loss := make([]float64, len(model))
	for i := range model {
		loss[i] = model[i]*model[i] - benchmark[i]*benchmark[i]
	}
	return a.LossTest(loss)
}

// Encompassing tests whether x encompasses y, with the loss (x - y)·x.
func (a Asymptotics) Encompassing(x, y []float64) (Test, error) {
	loss := make([]float64, len(x))
	for i := range x {
		loss[i] = (x[i] - y[i]) * x[i]
	}
	return a.LossTest(loss)
}

// EncompassingWeight returns the weight of y in the combination of x and y
// minimising the squared error, Σ x(x - y) / Σ (x - y)².
func EncompassingWeight(x, y []float64) (float64, error) {
	num, den := 0.0, 0.0
	for i := range x {
		d := x[i] - y[i]
		num += x[i] * d
		den += d * d
	}
	if den == 0 {
		return 0, fmt.Errorf("%w: identical errors", ErrNotComputable)
	}
	return num / den, nil
}

// Bias tests whether e has a zero mean.
func (a Asymptotics) Bias(e []float64) (Test, error) {
	return a.LossTest(e)
}

// Efficiency returns the first order autocorrelation of e and a test of its
// nullity on the centered cross products.
func (a Asymptotics) Efficiency(e []float64) (float64, Test, error) {
	n := len(e)
	if n < 3 {
		return 0, Test{}, fmt.Errorf("%w: %d observations", ErrNotComputable, n)
	}
	corr := stat.Correlation(e[1:], e[:n-1], nil)
	if math.IsNaN(corr) {
		return 0, Test{}, fmt.Errorf("%w: constant errors", ErrNotComputable)
	}

	mean := stat.Mean(e, nil)
	cross := make([]float64, n-1)
	for t := 1; t < n; t++ {
		cross[t-1] = (e[t] - mean) * (e[t-1] - mean)
	}
	test, err := a.LossTest(cross)
	if err != nil {
		return corr, Test{}, err
	}
	return corr, test, nil
}
