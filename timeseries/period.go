package timeseries

import (
	"fmt"
	"time"
)

// Period is a regular calendar period: a month, quarter, half-year, year or any
// other frequency dividing twelve.
type Period struct {
	freq int
	ord  int
}

// ValidFreq reports whether freq is a supported number of periods per year.
func ValidFreq(freq int) bool {
	return freq > 0 && 12%freq == 0
}

// NewPeriod returns the period at 0-based position pos within year.
func NewPeriod(freq, year, pos int) Period {
	if !ValidFreq(freq) {
		panic(fmt.Sprintf("timeseries: unsupported frequency %d", freq))
	}
	return Period{freq: freq, ord: year*freq + pos}
}

// PeriodOf returns the period of frequency freq containing t.
func PeriodOf(freq int, t time.Time) Period {
	months := 12 / freq
	return NewPeriod(freq, t.Year(), (int(t.Month())-1)/months)
}

// Freq returns the number of periods per year.
func (p Period) Freq() int { return p.freq }

// Year returns the calendar year.
func (p Period) Year() int { return floorDiv(p.ord, p.freq) }

// Position returns the 0-based position within the year.
func (p Period) Position() int { return p.ord - p.Year()*p.freq }

// Plus returns the period n steps later.
func (p Period) Plus(n int) Period { return Period{freq: p.freq, ord: p.ord + n} }

// Minus returns the period n steps earlier.
func (p Period) Minus(n int) Period { return Period{freq: p.freq, ord: p.ord - n} }

// Sub returns the number of periods from q to p.
func (p Period) Sub(q Period) int {
	if p.freq != q.freq {
		panic("timeseries: periods of different frequencies")
	}
	return p.ord - q.ord
}

// Before reports whether p precedes q.
func (p Period) Before(q Period) bool { return p.Sub(q) < 0 }

// Start returns the first instant of the period.
func (p Period) Start() time.Time {
	months := 12 / p.freq
	return time.Date(p.Year(), time.Month(p.Position()*months+1), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant after the period.
func (p Period) End() time.Time {
	return p.Plus(1).Start()
}

// Middle returns the instant halfway through the period. It identifies the
// period independently of its frequency.
func (p Period) Middle() time.Time {
	start := p.Start()
	return start.Add(p.End().Sub(start) / 2)
}

func (p Period) String() string {
	switch p.freq {
	case 1:
		return fmt.Sprintf("%d", p.Year())
	case 2:
		return fmt.Sprintf("%dH%d", p.Year(), p.Position()+1)
	case 4:
		return fmt.Sprintf("%dQ%d", p.Year(), p.Position()+1)
	case 12:
		return fmt.Sprintf("%d-%02d", p.Year(), p.Position()+1)
	default:
		return fmt.Sprintf("%d-P%d", p.Year(), p.Position()+1)
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
