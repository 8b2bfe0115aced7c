package domain

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// ColumnSet names the measurement columns the aggregator and plots rely on.
type ColumnSet struct {
	Temperature string
	Rainfall    string
	Humidity    string
}

// DefaultColumnSet returns the conventional column names.
func DefaultColumnSet() ColumnSet {
	return ColumnSet{Temperature: "temp", Rainfall: "rain", Humidity: "humidity"}
}

// Validate checks that every name is set and no two are equal.
func (cs ColumnSet) Validate() error {
	names := map[string]string{
		"temperature": cs.Temperature,
		"rainfall":    cs.Rainfall,
		"humidity":    cs.Humidity,
	}
	seen := make(map[string]bool, len(names))
	for role, name := range names {
		if name == "" {
			return fmt.Errorf("%s column name is empty", role)
		}
		if seen[name] {
			return fmt.Errorf("column name %q is used for more than one measurement", name)
		}
		seen[name] = true
	}
	return nil
}

// MissingColumnPolicy decides what happens when a configured measurement
// column is absent from the cleaned table.
type MissingColumnPolicy string

const (
	// PolicyFail aborts with ErrSchema.
	PolicyFail MissingColumnPolicy = "fail"
	// PolicySkip drops the column from the monthly table and skips the charts needing it.
	PolicySkip MissingColumnPolicy = "skip"
)

// Reducer collapses the values of one bucket into a single value.
type Reducer string

const (
	ReduceMean Reducer = "mean"
	ReduceSum  Reducer = "sum"
)

func (r Reducer) apply(values []float64, rows []int) float64 {
	sum, n := 0.0, 0
	for _, i := range rows {
		if math.IsNaN(values[i]) {
			continue
		}
		sum += values[i]
		n++
	}
	if r == ReduceSum {
		return sum
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// DailyTable holds one row per calendar day between the first and last observation.
type DailyTable struct {
	Days    []time.Time
	Counts  []int
	Columns []string
	Values  map[string][]float64
}

// Len returns the number of days.
func (d DailyTable) Len() int { return len(d.Days) }

// Series returns the daily values of a column.
func (d DailyTable) Series(name string) ([]float64, bool) {
	v, ok := d.Values[name]
	return v, ok
}

// MonthlyTable holds one row per calendar month between the first and last observation.
type MonthlyTable struct {
	Months   []time.Time
	Counts   []int
	Columns  []string
	Reducers map[string]Reducer
	Values   map[string][]float64
}

// Len returns the number of months.
func (m MonthlyTable) Len() int { return len(m.Months) }

// Label returns the year-month label of row i, e.g. "2023-01".
func (m MonthlyTable) Label(i int) string { return m.Months[i].Format("2006-01") }

// Series returns the monthly values of a column.
func (m MonthlyTable) Series(name string) ([]float64, bool) {
	v, ok := m.Values[name]
	return v, ok
}

// ResampleDaily groups rows by calendar day and averages every numeric column.
// Text columns are dropped.
func ResampleDaily(t *Table) (DailyTable, error) {
	times, err := cleanedTimes(t)
	if err != nil {
		return DailyTable{}, err
	}

	starts, groups := groupByCalendar(times, calendarDay)
	daily := DailyTable{
		Days:   starts,
		Counts: groupSizes(groups),
		Values: make(map[string][]float64),
	}
	for _, col := range t.Columns {
		if col.Kind != KindNumeric {
			continue
		}
		daily.Columns = append(daily.Columns, col.Name)
		daily.Values[col.Name] = reduceGroups(col.Values, groups, ReduceMean)
	}
	return daily, nil
}

// ResampleMonthly groups rows by calendar month with mean temperature, summed
// rainfall and mean humidity. Other columns are excluded. A configured column
// that is missing or not numeric is an ErrSchema under PolicyFail and is
// omitted under PolicySkip.
func ResampleMonthly(t *Table, cols ColumnSet, policy MissingColumnPolicy, logger *slog.Logger) (MonthlyTable, error) {
	times, err := cleanedTimes(t)
	if err != nil {
		return MonthlyTable{}, err
	}

	reducers := []struct {
		name    string
		reducer Reducer
	}{
		{cols.Temperature, ReduceMean},
		{cols.Rainfall, ReduceSum},
		{cols.Humidity, ReduceMean},
	}

	starts, groups := groupByCalendar(times, calendarMonth)
	monthly := MonthlyTable{
		Months:   starts,
		Counts:   groupSizes(groups),
		Reducers: make(map[string]Reducer),
		Values:   make(map[string][]float64),
	}
	for _, r := range reducers {
		col, err := t.NumericColumn(r.name)
		if err != nil {
			if policy == PolicySkip {
				logger.Warn("skipping monthly column", "column", r.name, "error", err)
				continue
			}
			return MonthlyTable{}, fmt.Errorf("monthly aggregation: %w", err)
		}
		monthly.Columns = append(monthly.Columns, r.name)
		monthly.Reducers[r.name] = r.reducer
		monthly.Values[r.name] = reduceGroups(col.Values, groups, r.reducer)
	}
	return monthly, nil
}

// cleanedTimes returns the parsed date column, which must exist and be free of nulls.
func cleanedTimes(t *Table) ([]time.Time, error) {
	col := t.Column(DateColumn)
	if col == nil || col.Kind != KindTime {
		return nil, fmt.Errorf("%w: table has no parsed %q column", ErrSchema, DateColumn)
	}
	if col.Missing() > 0 {
		return nil, fmt.Errorf("%w: %q column has null timestamps", ErrSchema, DateColumn)
	}
	return col.Times, nil
}

// calendarUnit describes a fixed calendar bucket size in UTC.
type calendarUnit struct {
	floor func(time.Time) time.Time
	add   func(time.Time, int) time.Time
	index func(start, t time.Time) int
}

const secondsPerDay = 24 * 60 * 60

var calendarDay = calendarUnit{
	floor: func(t time.Time) time.Time {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	},
	add: func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) },
	// Both arguments are UTC midnights, so whole Unix days divide exactly.
	// time.Time.Sub would saturate on spans past roughly 292 years.
	index: func(start, t time.Time) int {
		return int((t.Unix() - start.Unix()) / secondsPerDay)
	},
}

var calendarMonth = calendarUnit{
	floor: func(t time.Time) time.Time {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	},
	add: func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
	index: func(start, t time.Time) int {
		return (t.Year()-start.Year())*12 + int(t.Month()) - int(start.Month())
	},
}

// groupByCalendar buckets row indices by calendar unit. Buckets run from the
// earliest to the latest timestamp inclusive, empty ones included; row order
// within a bucket follows the input.
func groupByCalendar(times []time.Time, unit calendarUnit) ([]time.Time, [][]int) {
	if len(times) == 0 {
		return nil, nil
	}

	first, last := times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	start := unit.floor(first)
	n := unit.index(start, unit.floor(last)) + 1

	starts := make([]time.Time, n)
	for i := range starts {
		starts[i] = unit.add(start, i)
	}
	groups := make([][]int, n)
	for row, t := range times {
		b := unit.index(start, unit.floor(t))
		groups[b] = append(groups[b], row)
	}
	return starts, groups
}

func groupSizes(groups [][]int) []int {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g)
	}
	return sizes
}

func reduceGroups(values []float64, groups [][]int, r Reducer) []float64 {
	out := make([]float64, len(groups))
	for i, rows := range groups {
		out[i] = r.apply(values, rows)
	}
	return out
}
