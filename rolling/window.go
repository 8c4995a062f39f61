// Package rolling simulates real-time production of a seasonal adjustment
// method by re-estimating it on growing windows of a series.
package rolling

import (
	"iter"
	"math"

	"github.com/sartorproj/saeval/sa"
)

// Window is one re-estimation window: the first (or last) Length observations.
// Step counts windows from 0 within a pass.
type Window struct {
	Step   int
	Length int
}

// Half is round(length/2), the length of the shortest window of a pass.
func Half(length int) int {
	return int(math.Round(float64(length) / 2))
}

// FirstHalf yields the prefix windows from Half(length) to length-trim observations.
func FirstHalf(length, trim int) iter.Seq[Window] {
	return windows(Half(length), length-trim)
}

// SecondHalf yields the suffix windows from length-Half(length) to
// length-trim observations.
func SecondHalf(length, trim int) iter.Seq[Window] {
	return windows(length-Half(length), length-trim)
}

func windows(from, to int) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		for n := from; n <= to; n++ {
			if n < 1 {
				continue
			}
			if !yield(Window{Step: n - from, Length: n}) {
				return
			}
		}
	}
}

// PolicyFor returns Complete once per year of steps and FreeParameters otherwise.
func PolicyFor(step, freq int) sa.Policy {
	if freq <= 0 || step%freq == 0 {
		return sa.Complete
	}
	return sa.FreeParameters
}
