package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sartorproj/saeval/evaluation"
	"github.com/sartorproj/saeval/timeseries"
)

var lineColors = [3]color.RGBA{
	{R: 220, G: 40, B: 40, A: 255},
	{R: 40, G: 90, B: 220, A: 255},
	{R: 60, G: 160, B: 60, A: 255},
}

// YearlyTicks marks January 1st of every year on a Unix-seconds axis.
type YearlyTicks struct{}

func (YearlyTicks) Ticks(lo, hi float64) []plot.Tick {
	from := time.Unix(int64(lo), 0).UTC().Year()
	to := time.Unix(int64(hi), 0).UTC().Year()
	step := max(1, (to-from)/10)
	var ticks []plot.Tick
	for y := from; y <= to; y++ {
		t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		tick := plot.Tick{Value: float64(t.Unix())}
		if tick.Value < lo || tick.Value > hi {
			continue
		}
		if (y-from)%step == 0 {
			tick.Label = t.Format("2006")
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// PlotErrors draws, for each scenario with rolling series, the errors of the
// three methods against the scenario truth. It returns the written files.
func PlotErrors(dir string, r *evaluation.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var files []string
	for _, o := range r.Outcomes {
		if o.Truth == nil || o.Rolling[0] == nil {
			continue
		}
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s %s", r.Series, o.Scenario.Label)
		p.X.Label.Text = "Date"
		p.Y.Label.Text = "Error"
		p.X.Tick.Marker = YearlyTicks{}
		grid := plotter.NewGrid()
		dashes := []vg.Length{vg.Points(2), vg.Points(2)}
		grid.Horizontal.Dashes = dashes
		grid.Vertical.Dashes = dashes
		p.Add(grid)

		for i, rolling := range o.Rolling {
			if rolling == nil {
				continue
			}
			xys := errorPoints(rolling, o.Truth)
			if len(xys) == 0 {
				continue
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return files, fmt.Errorf("report: %s %s: %w", r.Series, r.Methods[i], err)
			}
			line.LineStyle.Color = lineColors[i]
			p.Add(line)
			p.Legend.Add(r.Methods[i], line)
		}

		path := filepath.Join(dir, fileName(r.Series, o.Scenario.Label)+".png")
		if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
			return files, fmt.Errorf("report: save %s: %w", path, err)
		}
		files = append(files, path)
	}
	return files, nil
}

// DumpRolling writes the rolling series and truth of every scenario to one
// CSV file per scenario.
func DumpRolling(dir string, r *evaluation.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var files []string
	for _, o := range r.Outcomes {
		if o.Truth == nil || o.Rolling[0] == nil {
			continue
		}
		columns := []*timeseries.Series{}
		for i, s := range o.Rolling {
			if s == nil {
				continue
			}
			c := s.Copy()
			c.Name = r.Methods[i]
			columns = append(columns, c)
		}
		truth := o.Truth.Copy()
		truth.Name = "truth"
		columns = append(columns, truth)

		path := filepath.Join(dir, fileName(r.Series, o.Scenario.Label)+".csv")
		if err := timeseries.SaveCSV(path, columns...); err != nil {
			return files, fmt.Errorf("report: save %s: %w", path, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func errorPoints(s, truth *timeseries.Series) plotter.XYs {
	var xys plotter.XYs
	for i := range s.Len() {
		p := s.PeriodAt(i)
		v, ok := s.Get(p)
		if !ok {
			continue
		}
		t, ok := truth.Get(p)
		if !ok || math.IsNaN(v-t) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(p.Middle().Unix()), Y: v - t})
	}
	return xys
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func fileName(series, scenario string) string {
	name := unsafeName.ReplaceAllString(series+"_"+scenario, "_")
	if name == "" || name == "_" {
		return "series"
	}
	return name
}
