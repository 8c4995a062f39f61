// Package timeseries provides regular, calendar-aligned time series.
//
// A Series is a contiguous run of observations at a fixed frequency (any
// number of periods per year dividing twelve). Missing observations are NaN.
//
// # Creating a Series
//
//	start := timeseries.NewPeriod(12, 2000, 0) // January 2000
//	series := timeseries.NewSeries(start, values)
//
// # Periods
//
// Period arithmetic never touches calendar dates:
//
//	next := start.Plus(1)
//	gap := next.Sub(start) // 1
//	mid := next.Middle()   // representative instant
//
// # Collecting irregular output
//
// A Collector turns dated observations into a regular series, filling gaps
// with missing values:
//
//	var c timeseries.Collector
//	c.Add(p.Middle(), v)
//	series, err := c.Make(12, timeseries.AggregationFirst)
//
// # Loading from CSV
//
// A wide CSV file holds a date column and one column per series. The
// frequency is inferred from the dates unless CSVOptions.Freq is set:
//
//	all, err := timeseries.LoadCSV("data.csv", nil)
//
// # Sub-series
//
//	head := series.First(60)
//	tail := series.Last(60)
//	clean := series.CleanExtremities()
package timeseries
