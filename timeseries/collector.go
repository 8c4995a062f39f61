package timeseries

import (
	"errors"
	"math"
	"slices"
	"time"
)

// Aggregation decides which value survives when several observations fall in
// the same period.
type Aggregation int

const (
	// AggregationFirst keeps the value added first.
	AggregationFirst Aggregation = iota
	// AggregationLast keeps the value added last.
	AggregationLast
	// AggregationMean averages all values.
	AggregationMean
)

// ErrEmptyCollector is returned by Collector.Make when nothing was added.
var ErrEmptyCollector = errors.New("timeseries: collector is empty")

type observation struct {
	at    time.Time
	value float64
}

// Collector accumulates dated observations and turns them into a regular series.
// It is not safe for concurrent use.
type Collector struct {
	obs []observation
}

// Add records value at instant t.
func (c *Collector) Add(t time.Time, value float64) {
	c.obs = append(c.obs, observation{at: t, value: value})
}

// Len returns the number of observations added so far.
func (c *Collector) Len() int {
	return len(c.obs)
}

// Make builds the series of frequency freq spanning every added observation.
// Periods without observations are missing.
func (c *Collector) Make(freq int, agg Aggregation) (*Series, error) {
	if len(c.obs) == 0 {
		return nil, ErrEmptyCollector
	}
	if !ValidFreq(freq) {
		return nil, errors.New("timeseries: unsupported frequency")
	}

	type slot struct {
		p     Period
		value float64
	}
	slots := make([]slot, len(c.obs))
	for i, o := range c.obs {
		slots[i] = slot{p: PeriodOf(freq, o.at), value: o.value}
	}
	// Stable sort keeps insertion order among values of the same period.
	slices.SortStableFunc(slots, func(a, b slot) int { return a.p.Sub(b.p) })

	start, end := slots[0].p, slots[len(slots)-1].p
	values := make([]float64, end.Sub(start)+1)
	counts := make([]int, len(values))
	for i := range values {
		values[i] = math.NaN()
	}
	for _, s := range slots {
		i := s.p.Sub(start)
		switch {
		case counts[i] == 0:
			values[i] = s.value
		case agg == AggregationLast:
			values[i] = s.value
		case agg == AggregationMean:
			values[i] += s.value
		}
		counts[i]++
	}
	if agg == AggregationMean {
		for i, n := range counts {
			if n > 1 {
				values[i] /= float64(n)
			}
		}
	}
	return NewSeries(start, values), nil
}
