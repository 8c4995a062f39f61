package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn string   // Column name for dates (default: first column)
	Columns    []string // Series columns to load (default: all other columns)
	DateFormat string   // Preferred date format (default: "2006-01-02")
	Delimiter  rune     // Field delimiter (default: ',')
	Freq       int      // Periods per year (default: inferred from the dates)
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateFormat: "2006-01-02",
		Delimiter:  ',',
	}
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2006",
	"2006",
}

// LoadCSV loads every series of a wide CSV file: one date column and one column
// per series.
func LoadCSV(filename string, opts *CSVOptions) ([]*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVColumn loads a single column from a CSV file.
func LoadCSVColumn(filename string, column string) (*Series, error) {
	opts := DefaultCSVOptions()
	opts.Columns = []string{column}
	all, err := LoadCSV(filename, opts)
	if err != nil {
		return nil, err
	}
	return all[0], nil
}

// LoadCSVFromReader loads every series of a wide CSV document.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) ([]*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.Trim(header[i], "\""))
	}

	dateIdx := 0
	if opts.DateColumn != "" {
		dateIdx = slices.Index(header, opts.DateColumn)
		if dateIdx < 0 {
			return nil, fmt.Errorf("date column %q not found", opts.DateColumn)
		}
	}

	var cols []int
	if len(opts.Columns) > 0 {
		for _, name := range opts.Columns {
			idx := slices.Index(header, name)
			if idx < 0 {
				return nil, fmt.Errorf("column %q not found", name)
			}
			cols = append(cols, idx)
		}
	} else {
		for i := range header {
			if i != dateIdx {
				cols = append(cols, i)
			}
		}
	}
	if len(cols) == 0 {
		return nil, errors.New("no series column in CSV")
	}

	var dates []time.Time
	values := make([][]float64, len(cols))
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if dateIdx >= len(record) {
			return nil, fmt.Errorf("line %d: missing date", line)
		}
		ts, err := parseDate(strings.TrimSpace(strings.Trim(record[dateIdx], "\"")), opts.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		dates = append(dates, ts)
		for k, idx := range cols {
			v := math.NaN()
			if idx < len(record) {
				v = parseValue(record[idx])
			}
			values[k] = append(values[k], v)
		}
	}
	if len(dates) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	freq := opts.Freq
	if freq == 0 {
		freq, err = InferFreq(dates)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*Series, len(cols))
	for k, idx := range cols {
		var c Collector
		for i, ts := range dates {
			c.Add(ts, values[k][i])
		}
		s, err := c.Make(freq, AggregationFirst)
		if err != nil {
			return nil, err
		}
		s.Name = header[idx]
		out[k] = s
	}
	return out, nil
}

// InferFreq infers the number of periods per year from the smallest month gap
// between consecutive distinct dates.
func InferFreq(dates []time.Time) (int, error) {
	if len(dates) < 2 {
		return 0, errors.New("at least two dates are needed to infer the frequency")
	}
	months := make([]int, len(dates))
	for i, d := range dates {
		months[i] = d.Year()*12 + int(d.Month()) - 1
	}
	slices.Sort(months)
	months = slices.Compact(months)
	if len(months) < 2 {
		return 0, errors.New("dates fall in a single month")
	}

	gap := math.MaxInt
	for i := 1; i < len(months); i++ {
		gap = min(gap, months[i]-months[i-1])
	}
	if gap > 12 || 12%gap != 0 {
		return 0, fmt.Errorf("irregular spacing of %d months", gap)
	}
	return 12 / gap, nil
}

func parseDate(s, preferred string) (time.Time, error) {
	if preferred != "" {
		if ts, err := time.Parse(preferred, s); err == nil {
			return ts, nil
		}
	}
	for _, layout := range dateFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseValue(s string) float64 {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	switch s {
	case "", "NA", "NaN", "null", ".":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// WriteCSV writes series side by side, one row per period of their union. The
// first column holds the period start date.
func WriteCSV(w io.Writer, series ...*Series) error {
	if len(series) == 0 {
		return nil
	}
	freq := series[0].Freq()
	start, end := series[0].Start, series[0].End()
	for _, s := range series[1:] {
		if s.Freq() != freq {
			return errors.New("series of different frequencies")
		}
		if s.Start.Before(start) {
			start = s.Start
		}
		if end.Before(s.End()) {
			end = s.End()
		}
	}

	writer := csv.NewWriter(w)
	header := []string{"date"}
	for _, s := range series {
		header = append(header, s.Name)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for p := start; !end.Before(p); p = p.Plus(1) {
		row := []string{p.Start().Format("2006-01-02")}
		for _, s := range series {
			if v, ok := s.Get(p); ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes series to a file in the layout read by LoadCSV.
func SaveCSV(filename string, series ...*Series) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, series...); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
