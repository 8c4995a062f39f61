package timeseries

import (
	"testing"
	"time"
)

func TestPeriodArithmetic(t *testing.T) {
	p := NewPeriod(12, 2000, 11)

	if got := p.Plus(1); got.Year() != 2001 || got.Position() != 0 {
		t.Errorf("Expected 2001-01, got %s", got)
	}
	if got := p.Minus(12); got.Year() != 1999 || got.Position() != 11 {
		t.Errorf("Expected 1999-12, got %s", got)
	}
	if got := p.Plus(7).Sub(p); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
}

func TestPeriodNegativeYear(t *testing.T) {
	p := NewPeriod(4, 0, 0).Minus(1)
	if p.Year() != -1 || p.Position() != 3 {
		t.Errorf("Expected -1Q4, got year %d position %d", p.Year(), p.Position())
	}
}

func TestPeriodOf(t *testing.T) {
	tests := []struct {
		freq     int
		date     time.Time
		expected string
	}{
		{12, time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC), "2001-03"},
		{4, time.Date(2001, 5, 1, 0, 0, 0, 0, time.UTC), "2001Q2"},
		{2, time.Date(2001, 12, 31, 0, 0, 0, 0, time.UTC), "2001H2"},
		{1, time.Date(2001, 7, 1, 0, 0, 0, 0, time.UTC), "2001"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := PeriodOf(tt.freq, tt.date).String(); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestPeriodMiddle(t *testing.T) {
	p := NewPeriod(4, 2010, 2)
	mid := p.Middle()

	if !mid.After(p.Start()) || !mid.Before(p.End()) {
		t.Errorf("Middle %v outside [%v, %v)", mid, p.Start(), p.End())
	}
	if PeriodOf(4, mid) != p {
		t.Errorf("Middle does not map back to its period")
	}
	if PeriodOf(12, mid) != NewPeriod(12, 2010, 7) {
		t.Errorf("Expected middle of 2010Q3 in August, got %s", PeriodOf(12, mid))
	}
}
