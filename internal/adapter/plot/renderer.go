// Package plot renders the analysis charts as PNG files using go-chart.
package plot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/weather-analysis/internal/domain"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	lineColor    = drawing.ColorFromHex("1f77b4")
	barColor     = drawing.ColorFromHex("2c7fb8")
	scatterColor = drawing.ColorFromHex("d95f02")
)

// Renderer writes charts into a directory.
// It implements pipeline.ChartRenderer.
type Renderer struct {
	dir    string
	width  int
	height int
	cols   domain.ColumnSet
	logger *slog.Logger
}

// NewRenderer creates a Renderer producing width x height images in dir.
func NewRenderer(dir string, width, height int, cols domain.ColumnSet, logger *slog.Logger) *Renderer {
	return &Renderer{dir: dir, width: width, height: height, cols: cols, logger: logger}
}

// Path returns the file a chart is written to.
func (r *Renderer) Path(name string) string {
	return filepath.Join(r.dir, name+".png")
}

// RenderDailyTemperature draws the daily mean temperature as a line over time.
// Days without observations break the line.
func (r *Renderer) RenderDailyTemperature(ctx context.Context, daily domain.DailyTable) (string, error) {
	values, ok := daily.Series(r.cols.Temperature)
	if !ok {
		return "", fmt.Errorf("%w: daily table has no %q column", domain.ErrSchema, r.cols.Temperature)
	}

	runs := contiguousRuns(daily.Days, values)
	if len(runs) == 0 {
		return "", fmt.Errorf("%w: no daily %s values to plot", domain.ErrNoData, r.cols.Temperature)
	}
	// A single point has no x extent.
	if len(runs) == 1 && len(runs[0].xs) == 1 {
		runs[0].xs = append(runs[0].xs, runs[0].xs[0].AddDate(0, 0, 1))
		runs[0].ys = append(runs[0].ys, runs[0].ys[0])
	}

	var all []float64
	series := make([]chart.Series, 0, len(runs))
	for _, run := range runs {
		all = append(all, run.ys...)
		style := chart.Style{StrokeColor: lineColor, StrokeWidth: 2}
		// An isolated day has no segment to stroke.
		if len(run.xs) == 1 {
			style.DotColor = lineColor
			style.DotWidth = 2
		}
		series = append(series, chart.TimeSeries{
			Name:    r.cols.Temperature,
			XValues: run.xs,
			YValues: run.ys,
			Style:   style,
		})
	}

	ch := chart.Chart{
		Title:      "Daily Temperature",
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis:  chart.YAxis{Name: "Temperature", Range: paddedRange(all)},
		Series: series,
	}
	return r.write(ctx, domain.ChartDailyTemperature, &ch)
}

// dailyRun is a stretch of consecutive days that all have a value.
type dailyRun struct {
	xs []time.Time
	ys []float64
}

// contiguousRuns splits a daily series at NaN days.
func contiguousRuns(days []time.Time, values []float64) []dailyRun {
	var runs []dailyRun
	open := false
	for i, v := range values {
		if math.IsNaN(v) {
			open = false
			continue
		}
		if !open {
			runs = append(runs, dailyRun{})
			open = true
		}
		last := &runs[len(runs)-1]
		last.xs = append(last.xs, days[i])
		last.ys = append(last.ys, v)
	}
	return runs
}

// RenderMonthlyRainfall draws one bar per month with that month's total rainfall.
func (r *Renderer) RenderMonthlyRainfall(ctx context.Context, monthly domain.MonthlyTable) (string, error) {
	values, ok := monthly.Series(r.cols.Rainfall)
	if !ok {
		return "", fmt.Errorf("%w: monthly table has no %q column", domain.ErrSchema, r.cols.Rainfall)
	}

	bars := make([]chart.Value, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		bars = append(bars, chart.Value{
			Label: monthly.Label(i),
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}
	if len(bars) == 0 {
		return "", fmt.Errorf("%w: no monthly %s values to plot", domain.ErrNoData, r.cols.Rainfall)
	}

	barWidth, spacing := barLayout(r.width, len(bars))
	bc := chart.BarChart{
		Title:      "Monthly Rainfall",
		Width:      r.width,
		Height:     r.height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 60}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis:      chart.YAxis{Name: "Total Rainfall", Range: barRange(bars)},
		Bars:       bars,
	}
	return r.write(ctx, domain.ChartMonthlyRainfall, &bc)
}

// RenderHumidityVsTemperature draws one point per cleaned observation.
func (r *Renderer) RenderHumidityVsTemperature(ctx context.Context, t *domain.Table) (string, error) {
	temp, err := t.NumericColumn(r.cols.Temperature)
	if err != nil {
		return "", err
	}
	humidity, err := t.NumericColumn(r.cols.Humidity)
	if err != nil {
		return "", err
	}

	xs := make([]float64, 0, t.Len())
	ys := make([]float64, 0, t.Len())
	for i := range temp.Values {
		x, y := temp.Values[i], humidity.Values[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		return "", fmt.Errorf("%w: no %s/%s pairs to plot", domain.ErrNoData, r.cols.Temperature, r.cols.Humidity)
	}

	ch := chart.Chart{
		Title:      "Humidity vs Temperature",
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "Temperature", Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: "Humidity", Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "observations",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    scatterColor,
				},
			},
		},
	}
	return r.write(ctx, domain.ChartHumidityVsTemperature, &ch)
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// write renders into memory first so a failed render never leaves a partial file.
func (r *Renderer) write(ctx context.Context, name string, c renderable) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", domain.ErrIO, r.dir, err)
	}
	path := r.Path(name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", domain.ErrIO, path, err)
	}

	r.logger.Info("chart written", "chart", name, "path", path, "bytes", buf.Len())
	return path, nil
}

// paddedRange returns nil (auto range) unless every value is equal, in which
// case the axis would have zero extent and is widened around the value.
func paddedRange(values []float64) chart.Range {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi > lo {
		return nil
	}
	pad := math.Max(math.Abs(lo)*0.1, 1)
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// barRange always includes zero so bars grow from the baseline.
func barRange(bars []chart.Value) chart.Range {
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi * 1.05}
}

// barLayout spreads n bars across the plot width.
func barLayout(width, n int) (barWidth, spacing int) {
	slot := (width - 120) / n
	if slot < 2 {
		return 1, 1
	}
	barWidth = max(slot*2/3, 1)
	spacing = max(slot-barWidth, 1)
	return barWidth, spacing
}
