// Package timeseries provides regular, calendar-aligned time series.
package timeseries

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Series is a contiguous run of observations starting at Start. Missing
// observations are stored as NaN.
type Series struct {
	Name   string
	Start  Period
	Values []float64
}

// New creates an annual series from values, starting at year 0. It is meant for
// callers that only care about the values.
func New(values []float64) *Series {
	return &Series{Start: NewPeriod(1, 0, 0), Values: values}
}

// NewSeries creates a series whose first observation falls in start.
func NewSeries(start Period, values []float64) *Series {
	return &Series{Start: start, Values: values}
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Freq returns the number of observations per year.
func (s *Series) Freq() int {
	return s.Start.Freq()
}

// End returns the period of the last observation.
func (s *Series) End() Period {
	return s.Start.Plus(len(s.Values) - 1)
}

// PeriodAt returns the period of the i-th observation.
func (s *Series) PeriodAt(i int) Period {
	return s.Start.Plus(i)
}

// IndexOf returns the position of p in the series, or -1 if p is out of range
// or of another frequency.
func (s *Series) IndexOf(p Period) int {
	if p.Freq() != s.Freq() {
		return -1
	}
	i := p.Sub(s.Start)
	if i < 0 || i >= len(s.Values) {
		return -1
	}
	return i
}

// Get returns the observation at p. The boolean is false when p is outside the
// series or the observation is missing.
func (s *Series) Get(p Period) (float64, bool) {
	i := s.IndexOf(p)
	if i < 0 || math.IsNaN(s.Values[i]) {
		return math.NaN(), false
	}
	return s.Values[i], true
}

// Count returns the number of non-missing observations.
func (s *Series) Count() int {
	n := 0
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Times returns the middle instant of every period.
func (s *Series) Times() []time.Time {
	out := make([]time.Time, len(s.Values))
	for i := range out {
		out[i] = s.PeriodAt(i).Middle()
	}
	return out
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	min := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	max := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the n-th order difference of the series.
func (s *Series) DiffN(n int) *Series {
	out := s.Copy()
	for k := 0; k < n; k++ {
		out = out.lagDiff(1)
	}
	return out
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.lagDiff(m)
}

func (s *Series) lagDiff(lag int) *Series {
	if lag <= 0 || len(s.Values) <= lag {
		return &Series{Name: s.Name, Start: s.Start, Values: []float64{}}
	}
	result := make([]float64, len(s.Values)-lag)
	for i := lag; i < len(s.Values); i++ {
		result[i-lag] = s.Values[i] - s.Values[i-lag]
	}
	return &Series{Name: s.Name, Start: s.Start.Plus(lag), Values: result}
}

// Slice returns the observations from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Name: s.Name, Start: s.Start.Plus(start), Values: []float64{}}
	}
	values := make([]float64, end-start)
	copy(values, s.Values[start:end])
	return &Series{Name: s.Name, Start: s.Start.Plus(start), Values: values}
}

// First returns the first n observations.
func (s *Series) First(n int) *Series {
	return s.Slice(0, n)
}

// Last returns the last n observations.
func (s *Series) Last(n int) *Series {
	return s.Slice(len(s.Values)-n, len(s.Values))
}

// CleanExtremities drops leading and trailing missing observations.
func (s *Series) CleanExtremities() *Series {
	lo, hi := 0, len(s.Values)
	for lo < hi && math.IsNaN(s.Values[lo]) {
		lo++
	}
	for hi > lo && math.IsNaN(s.Values[hi-1]) {
		hi--
	}
	return s.Slice(lo, hi)
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	return &Series{Name: s.Name, Start: s.Start, Values: values}
}

// Log applies natural logarithm transformation. Non-positive values become missing.
func (s *Series) Log() *Series {
	return s.apply(func(v float64) float64 {
		if v > 0 {
			return math.Log(v)
		}
		return math.NaN()
	})
}

// Exp inverts Log.
func (s *Series) Exp() *Series {
	return s.apply(math.Exp)
}

func (s *Series) apply(fn func(float64) float64) *Series {
	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		result[i] = fn(v)
	}
	return &Series{Name: s.Name, Start: s.Start, Values: result}
}
