package timeseries

import (
	"math"
	"testing"
)

func TestCollectorFirstWins(t *testing.T) {
	var c Collector
	jan := NewPeriod(12, 2000, 0)

	c.Add(jan.Plus(2).Middle(), 3)
	c.Add(jan.Middle(), 1)
	c.Add(jan.Plus(2).Middle(), 30)
	c.Add(jan.Plus(4).Middle(), 5)

	s, err := c.Make(12, AggregationFirst)
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	if s.Start != jan || s.Len() != 5 {
		t.Fatalf("Expected 5 values from %s, got %d from %s", jan, s.Len(), s.Start)
	}

	expected := []float64{1, math.NaN(), 3, math.NaN(), 5}
	for i, v := range expected {
		got := s.Values[i]
		if math.IsNaN(v) != math.IsNaN(got) || (!math.IsNaN(v) && got != v) {
			t.Errorf("Expected %f at index %d, got %f", v, i, got)
		}
	}
}

func TestCollectorAggregations(t *testing.T) {
	p := NewPeriod(4, 2000, 0)
	tests := []struct {
		name     string
		agg      Aggregation
		expected float64
	}{
		{"first", AggregationFirst, 1},
		{"last", AggregationLast, 5},
		{"mean", AggregationMean, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Collector
			c.Add(p.Start(), 1)
			c.Add(p.Middle(), 3)
			c.Add(p.Start(), 5)

			s, err := c.Make(4, tt.agg)
			if err != nil {
				t.Fatalf("Make failed: %v", err)
			}
			if s.Len() != 1 || s.Values[0] != tt.expected {
				t.Errorf("Expected [%f], got %v", tt.expected, s.Values)
			}
		})
	}
}

func TestCollectorEmpty(t *testing.T) {
	var c Collector
	if _, err := c.Make(12, AggregationFirst); err != ErrEmptyCollector {
		t.Errorf("Expected ErrEmptyCollector, got %v", err)
	}
}
