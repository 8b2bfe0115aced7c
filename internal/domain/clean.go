package domain

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// Column names produced or consumed by cleaning.
const (
	DateColumn       = "date"
	LegacyDateColumn = "Date"
	MonthColumn      = "month"
	YearColumn       = "year"
)

// CleanReport summarises what cleaning changed.
type CleanReport struct {
	InputRows         int
	DroppedRows       int
	InterpolatedCells int
	MeanFilledCells   int
	EmptyColumns      []string
}

// Clean normalises the date column, drops rows without a usable timestamp,
// sorts chronologically, fills numeric gaps and derives month/year columns.
// The input table is not modified.
func Clean(t *Table, logger *slog.Logger) (*Table, CleanReport, error) {
	report := CleanReport{InputRows: t.Len()}

	times, err := parseDateColumn(t)
	if err != nil {
		return nil, report, err
	}

	out := t.Clone()
	if err := out.SetColumn(NewTimeColumn(DateColumn, times)); err != nil {
		return nil, report, err
	}

	keep := make([]int, 0, len(times))
	for i, ts := range times {
		if !ts.IsZero() {
			keep = append(keep, i)
		}
	}
	report.DroppedRows = len(times) - len(keep)
	sort.SliceStable(keep, func(a, b int) bool {
		return times[keep[a]].Before(times[keep[b]])
	})
	out = out.Take(keep)

	for _, col := range out.Columns {
		if col.Kind != KindNumeric || col.Name == MonthColumn || col.Name == YearColumn {
			continue
		}
		interpolated, meanFilled, ok := fillGaps(col.Values)
		if !ok {
			report.EmptyColumns = append(report.EmptyColumns, col.Name)
			logger.Warn("numeric column has no values to fill from, leaving it empty", "column", col.Name)
			continue
		}
		report.InterpolatedCells += interpolated
		report.MeanFilledCells += meanFilled
	}

	if err := deriveCalendarColumns(out); err != nil {
		return nil, report, err
	}

	logger.Debug("cleaned observations",
		"input_rows", report.InputRows,
		"dropped_rows", report.DroppedRows,
		"interpolated", report.InterpolatedCells,
		"mean_filled", report.MeanFilledCells,
	)
	return out, report, nil
}

// parseDateColumn locates the date column ("date", then "Date") and parses it.
// Unparseable cells come back as the zero time.
func parseDateColumn(t *Table) ([]time.Time, error) {
	src := t.Column(DateColumn)
	if src == nil {
		src = t.Column(LegacyDateColumn)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no %q or %q column found", ErrSchema, DateColumn, LegacyDateColumn)
	}

	times := make([]time.Time, t.Len())
	if src.Kind == KindTime {
		copy(times, src.Times)
		return times, nil
	}
	for i, cell := range src.Raw {
		if ts, ok := ParseTimestamp(cell); ok {
			times[i] = ts
		}
	}
	return times, nil
}

// fillGaps fills NaNs in place: interior gaps by linear interpolation along
// row order, then whatever remains with the mean of the interpolated values.
// It reports false when there is no known value to fill from.
func fillGaps(values []float64) (interpolated, meanFilled int, ok bool) {
	interpolated = interpolateLinear(values)

	sum, n := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return interpolated, 0, false
	}
	mean := sum / float64(n)

	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = mean
			meanFilled++
		}
	}
	return interpolated, meanFilled, true
}

// interpolateLinear fills each run of NaNs bounded by known values on both
// sides. Leading and trailing runs are left untouched.
func interpolateLinear(values []float64) int {
	filled := 0
	prev := -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			lo, hi := values[prev], v
			span := float64(i - prev)
			for k := prev + 1; k < i; k++ {
				values[k] = lo + (hi-lo)*float64(k-prev)/span
				filled++
			}
		}
		prev = i
	}
	return filled
}

// deriveCalendarColumns sets integer month (1-12) and year columns from the
// cleaned date column, replacing any existing ones.
func deriveCalendarColumns(t *Table) error {
	dates := t.Column(DateColumn)
	months := make([]float64, t.Len())
	years := make([]float64, t.Len())
	for i, ts := range dates.Times {
		months[i] = float64(ts.Month())
		years[i] = float64(ts.Year())
	}
	if err := t.SetColumn(NewNumericColumn(MonthColumn, months)); err != nil {
		return err
	}
	return t.SetColumn(NewNumericColumn(YearColumn, years))
}
