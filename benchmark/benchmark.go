// Package benchmark builds the reference seasonally adjusted series used as
// the truth of revision scenarios.
package benchmark

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/saeval/timeseries"
)

// ErrWeights is returned for weights that do not match the inputs or do not sum to one.
var ErrWeights = errors.New("benchmark: invalid weights")

const weightTolerance = 1e-9

// Weighting selects how the combination weights are chosen.
type Weighting string

const (
	// Equal gives every input the same weight.
	Equal Weighting = "equal"
	// Fixed uses caller-supplied weights.
	Fixed Weighting = "fixed"
	// Encompassing weights the first two inputs by the optimal combination
	// weight of their one-step-ahead forecast errors.
	Encompassing Weighting = "encompassing"
)

// ParseWeighting parses a weighting name.
func ParseWeighting(name string) (Weighting, error) {
	switch w := Weighting(strings.ToLower(strings.TrimSpace(name))); w {
	case Equal, Fixed, Encompassing:
		return w, nil
	case "":
		return Equal, nil
	default:
		return "", fmt.Errorf("benchmark: unknown weighting %q", name)
	}
}

// EqualWeights returns n weights of 1/n.
func EqualWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

// EncompassingWeights returns {beta, 1 - beta, 0, ...} for n inputs.
func EncompassingWeights(beta float64, n int) []float64 {
	w := make([]float64, n)
	w[0] = beta
	w[1] = 1 - beta
	return w
}

// ValidateWeights checks that there is one finite weight per input and that
// the weights sum to one.
func ValidateWeights(weights []float64, n int) error {
	if len(weights) != n {
		return fmt.Errorf("%w: %d weights for %d series", ErrWeights, len(weights), n)
	}
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: non-finite weight", ErrWeights)
		}
	}
	if sum := floats.Sum(weights); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %g", ErrWeights, sum)
	}
	return nil
}

// Combine returns the weighted sum of series over their common span. A period
// missing in any input is missing in the result.
func Combine(weights []float64, series ...*timeseries.Series) (*timeseries.Series, error) {
	if len(series) == 0 {
		return nil, errors.New("benchmark: no series")
	}
	if err := ValidateWeights(weights, len(series)); err != nil {
		return nil, err
	}

	freq := series[0].Freq()
	start, end := series[0].Start, series[0].End()
	for _, s := range series[1:] {
		if s.Freq() != freq {
			return nil, fmt.Errorf("benchmark: frequency mismatch %d and %d", freq, s.Freq())
		}
		if start.Before(s.Start) {
			start = s.Start
		}
		if s.End().Before(end) {
			end = s.End()
		}
	}
	if end.Before(start) {
		return nil, errors.New("benchmark: series do not overlap")
	}

	values := make([]float64, end.Sub(start)+1)
	for i := range values {
		p := start.Plus(i)
		for k, s := range series {
			v, ok := s.Get(p)
			if !ok {
				values[i] = math.NaN()
				break
			}
			values[i] += weights[k] * v
		}
	}

	out := timeseries.NewSeries(start, values)
	out.Name = "benchmark"
	return out, nil
}
