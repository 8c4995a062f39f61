package timeseries

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}

	for i, v := range s.Values {
		if v != values[i] {
			t.Errorf("Expected value %f at index %d, got %f", values[i], i, v)
		}
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"mixed", []float64{-1, 0, 1}, 0.0},
		{"empty", []float64{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			result := s.Mean()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected mean %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestVariance(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	expected := 4.571428571428571

	result := s.Variance()
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Expected variance %f, got %f", expected, result)
	}
}

func TestStd(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	expected := math.Sqrt(4.571428571428571)

	result := s.Std()
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Expected std %f, got %f", expected, result)
	}
}

func TestMinMax(t *testing.T) {
	s := New([]float64{5, 2, 8, 1, 9, 3})

	if s.Min() != 1 {
		t.Errorf("Expected min 1, got %f", s.Min())
	}

	if s.Max() != 9 {
		t.Errorf("Expected max 9, got %f", s.Max())
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"odd", []float64{1, 3, 5}, 3.0},
		{"even", []float64{1, 2, 3, 4}, 2.5},
		{"single", []float64{5}, 5.0},
		{"unsorted", []float64{5, 1, 3}, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			result := s.Median()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected median %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	s := New([]float64{1, 3, 6, 10, 15})
	diff := s.Diff()

	expected := []float64{2, 3, 4, 5}
	if len(diff.Values) != len(expected) {
		t.Errorf("Expected length %d, got %d", len(expected), len(diff.Values))
	}

	for i, v := range diff.Values {
		if math.Abs(v-expected[i]) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}
}

func TestDiffN(t *testing.T) {
	s := New([]float64{1, 3, 6, 10, 15, 21})
	diff2 := s.DiffN(2)

	// Second differences of the triangular numbers.
	expected := []float64{1, 1, 1, 1}
	if len(diff2.Values) != len(expected) {
		t.Errorf("Expected length %d, got %d", len(expected), len(diff2.Values))
	}

	for i, v := range diff2.Values {
		if math.Abs(v-expected[i]) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}
}

func TestSeasonalDiff(t *testing.T) {
	// Monthly data with yearly seasonality
	values := []float64{10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 11, 13, 15, 17}
	s := New(values)

	diff := s.SeasonalDiff(12)

	// Expected: values[12] - values[0], values[13] - values[1], etc.
	expected := []float64{1, 1, 1, 1}
	if len(diff.Values) != len(expected) {
		t.Errorf("Expected length %d, got %d", len(expected), len(diff.Values))
	}

	for i, v := range diff.Values {
		if math.Abs(v-expected[i]) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	sliced := s.Slice(1, 4)

	expected := []float64{2, 3, 4}
	if len(sliced.Values) != len(expected) {
		t.Errorf("Expected length %d, got %d", len(expected), len(sliced.Values))
	}

	for i, v := range sliced.Values {
		if math.Abs(v-expected[i]) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}
}

func TestLog(t *testing.T) {
	s := New([]float64{1, math.E, math.E * math.E})
	logged := s.Log()

	expected := []float64{0, 1, 2}
	for i, v := range logged.Values {
		if math.Abs(v-expected[i]) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}
}

func TestCopy(t *testing.T) {
	s := New([]float64{1, 2, 3})
	copied := s.Copy()

	// Modify original
	s.Values[0] = 100

	// Copy should be unchanged
	if copied.Values[0] != 1 {
		t.Errorf("Copy was modified when original changed")
	}
}

func TestDiffShiftsStart(t *testing.T) {
	s := NewSeries(NewPeriod(12, 2000, 0), []float64{1, 3, 6, 10, 15, 21})

	if got := s.DiffN(2).Start; got != NewPeriod(12, 2000, 2) {
		t.Errorf("Expected start 2000-03, got %s", got)
	}
	if got := s.SeasonalDiff(4).Start; got != NewPeriod(12, 2000, 4) {
		t.Errorf("Expected start 2000-05, got %s", got)
	}
}

func TestFirstLast(t *testing.T) {
	s := NewSeries(NewPeriod(4, 2010, 1), []float64{1, 2, 3, 4, 5, 6})

	first := s.First(4)
	if first.Len() != 4 || first.End() != NewPeriod(4, 2011, 0) {
		t.Errorf("Expected 4 values ending 2011Q1, got %d ending %s", first.Len(), first.End())
	}

	last := s.Last(2)
	if last.Start != NewPeriod(4, 2011, 1) || last.Values[0] != 5 {
		t.Errorf("Expected last two values from 2011Q2, got %v from %s", last.Values, last.Start)
	}

	last.Values[0] = 100
	if s.Values[4] != 5 {
		t.Errorf("Sub-series shares storage with its source")
	}
}

func TestCleanExtremities(t *testing.T) {
	nan := math.NaN()
	s := NewSeries(NewPeriod(12, 2000, 0), []float64{nan, nan, 1, nan, 2, nan})

	cleaned := s.CleanExtremities()
	if cleaned.Len() != 3 {
		t.Fatalf("Expected length 3, got %d", cleaned.Len())
	}
	if cleaned.Start != NewPeriod(12, 2000, 2) {
		t.Errorf("Expected start 2000-03, got %s", cleaned.Start)
	}
	if !math.IsNaN(cleaned.Values[1]) {
		t.Errorf("Expected interior missing value to be kept")
	}

	empty := New([]float64{nan, nan}).CleanExtremities()
	if empty.Len() != 0 {
		t.Errorf("Expected empty series, got length %d", empty.Len())
	}
}

func TestGet(t *testing.T) {
	s := NewSeries(NewPeriod(12, 2000, 0), []float64{1, math.NaN(), 3})

	if v, ok := s.Get(NewPeriod(12, 2000, 2)); !ok || v != 3 {
		t.Errorf("Expected 3, got %f (%v)", v, ok)
	}
	if _, ok := s.Get(NewPeriod(12, 2000, 1)); ok {
		t.Errorf("Expected missing value to be reported absent")
	}
	if _, ok := s.Get(NewPeriod(12, 2001, 0)); ok {
		t.Errorf("Expected out of range period to be reported absent")
	}
	if _, ok := s.Get(NewPeriod(4, 2000, 0)); ok {
		t.Errorf("Expected other frequency to be reported absent")
	}
	if s.Count() != 2 {
		t.Errorf("Expected 2 defined values, got %d", s.Count())
	}
}

func TestExp(t *testing.T) {
	s := New([]float64{1, 2, 3})
	back := s.Log().Exp()

	for i, v := range back.Values {
		if math.Abs(v-s.Values[i]) > 1e-12 {
			t.Errorf("Expected %f at index %d, got %f", s.Values[i], i, v)
		}
	}
}
