// Command validate re-derives the cleaned table from a raw observations CSV
// and checks it, and the cleaned CSV written by weather-analyzer, for
// integrity: row accounting, chronological order, gap filling, calendar
// columns, aggregate totals, idempotency and parity with the file on disk.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw data/raw_weather.csv \
//	  -cleaned data/cleaned_weather.csv
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/couchcryptid/weather-analysis/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-analysis/internal/config"
	"github.com/couchcryptid/weather-analysis/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxReported caps the per-phase error list so a systematic fault stays readable.
const maxReported = 20

func main() {
	rawPath := flag.String("raw", "data/raw_weather.csv", "path to the raw observations CSV")
	cleanedPath := flag.String("cleaned", "", "path to the cleaned CSV to compare against (optional)")
	flag.Parse()

	if *rawPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*rawPath, *cleanedPath))
}

func run(rawPath, cleanedPath string) int {
	logger := slog.New(slog.DiscardHandler)

	// Measurement column names come from the same env as weather-analyzer.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: config: %v\n", err)
		return 1
	}
	cols := cfg.Columns

	// ── Load and clean ──
	fmt.Println("=== Weather Data Integrity Validation ===")
	fmt.Println()

	raw, err := csvfile.NewReader(rawPath, logger).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw CSV: %v\n", err)
		return 1
	}

	cleaned, report, err := domain.Clean(raw, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: clean: %v\n", err)
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateRowAccounting(raw, cleaned, report),
		validateOrdering(cleaned),
		validateCompleteness(cleaned, report),
		validateCalendarColumns(cleaned),
		validateAggregates(cleaned, cols),
		validateIdempotency(cleaned, logger),
	}
	if cleanedPath != "" {
		phases = append(phases, validateFileParity(cleaned, cleanedPath))
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d raw, %d cleaned, %d dropped; cells: %d interpolated, %d mean-filled\n",
		report.InputRows, cleaned.Len(), report.DroppedRows, report.InterpolatedCells, report.MeanFilledCells)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReported {
				fmt.Printf("  ... %d more\n", len(p.errors)-maxReported)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateRowAccounting(raw, cleaned *domain.Table, report domain.CleanReport) *phase {
	p := &phase{name: "Phase 1: Row Accounting"}

	if report.InputRows != raw.Len() {
		p.errorf("report input rows %d, raw table has %d", report.InputRows, raw.Len())
	}
	if cleaned.Len()+report.DroppedRows != raw.Len() {
		p.errorf("cleaned %d + dropped %d != raw %d", cleaned.Len(), report.DroppedRows, raw.Len())
	}

	for _, name := range raw.Names() {
		if cleaned.Column(name) == nil {
			p.errorf("raw column %q missing from cleaned table", name)
		}
	}
	return p
}

func validateOrdering(cleaned *domain.Table) *phase {
	p := &phase{name: "Phase 2: Chronological Order"}

	dates := cleaned.Column(domain.DateColumn)
	if dates == nil || dates.Kind != domain.KindTime {
		p.errorf("no parsed %q column", domain.DateColumn)
		return p
	}
	for i, ts := range dates.Times {
		if ts.IsZero() {
			p.errorf("row %d: null timestamp", i)
			continue
		}
		if i > 0 && ts.Before(dates.Times[i-1]) {
			p.errorf("row %d: %s precedes previous row %s", i, ts, dates.Times[i-1])
		}
	}
	return p
}

// validateCompleteness checks that every numeric column was filled, except
// those the cleaner reported as having nothing to fill from.
func validateCompleteness(cleaned *domain.Table, report domain.CleanReport) *phase {
	p := &phase{name: "Phase 3: Completeness (no numeric gaps)"}

	for _, col := range cleaned.Columns {
		if col.Kind != domain.KindNumeric || slices.Contains(report.EmptyColumns, col.Name) {
			continue
		}
		if n := col.Missing(); n > 0 {
			p.errorf("column %q: %d missing cells", col.Name, n)
		}
	}
	return p
}

func validateCalendarColumns(cleaned *domain.Table) *phase {
	p := &phase{name: "Phase 4: Month/Year Consistency"}

	dates := cleaned.Column(domain.DateColumn)
	month, errM := cleaned.NumericColumn(domain.MonthColumn)
	year, errY := cleaned.NumericColumn(domain.YearColumn)
	if dates == nil || errM != nil || errY != nil {
		p.errorf("calendar columns missing: month=%v year=%v", errM, errY)
		return p
	}

	for i, ts := range dates.Times {
		if int(month.Values[i]) != int(ts.Month()) {
			p.errorf("row %d: month %v, date %s", i, month.Values[i], ts.Format("2006-01-02"))
		}
		if int(year.Values[i]) != ts.Year() {
			p.errorf("row %d: year %v, date %s", i, year.Values[i], ts.Format("2006-01-02"))
		}
	}
	return p
}

// validateAggregates recomputes the monthly rainfall totals and daily mean
// temperatures by hand and compares them with the resampled tables.
func validateAggregates(cleaned *domain.Table, cols domain.ColumnSet) *phase {
	p := &phase{name: "Phase 5: Aggregate Totals"}

	rain, errR := cleaned.NumericColumn(cols.Rainfall)
	temp, errT := cleaned.NumericColumn(cols.Temperature)
	if errR != nil || errT != nil {
		p.errorf("measurement columns unavailable: rain=%v temp=%v", errR, errT)
		return p
	}
	dates := cleaned.Column(domain.DateColumn).Times

	monthly, err := domain.ResampleMonthly(cleaned, cols, domain.PolicySkip, slog.New(slog.DiscardHandler))
	if err != nil {
		p.errorf("monthly resample: %v", err)
		return p
	}
	rainSums := map[string]float64{}
	for i, ts := range dates {
		if !math.IsNaN(rain.Values[i]) {
			rainSums[ts.Format("2006-01")] += rain.Values[i]
		}
	}
	monthlyRain, _ := monthly.Series(cols.Rainfall)
	for i := range monthly.Months {
		if label := monthly.Label(i); !floatEq(rainSums[label], monthlyRain[i]) {
			p.errorf("month %s: rainfall %g, expected %g", label, monthlyRain[i], rainSums[label])
		}
	}

	daily, err := domain.ResampleDaily(cleaned)
	if err != nil {
		p.errorf("daily resample: %v", err)
		return p
	}
	type acc struct {
		sum float64
		n   int
	}
	dayTemps := map[string]acc{}
	for i, ts := range dates {
		if math.IsNaN(temp.Values[i]) {
			continue
		}
		a := dayTemps[ts.Format("2006-01-02")]
		a.sum += temp.Values[i]
		a.n++
		dayTemps[ts.Format("2006-01-02")] = a
	}
	dailyTemp, _ := daily.Series(cols.Temperature)
	for i, d := range daily.Days {
		a, ok := dayTemps[d.Format("2006-01-02")]
		if !ok {
			if !math.IsNaN(dailyTemp[i]) {
				p.errorf("day %s: no observations but mean %g", d.Format("2006-01-02"), dailyTemp[i])
			}
			continue
		}
		if want := a.sum / float64(a.n); !floatEq(want, dailyTemp[i]) {
			p.errorf("day %s: mean temperature %g, expected %g", d.Format("2006-01-02"), dailyTemp[i], want)
		}
	}
	return p
}

func validateIdempotency(cleaned *domain.Table, logger *slog.Logger) *phase {
	p := &phase{name: "Phase 6: Idempotent Cleaning"}

	again, _, err := domain.Clean(cleaned, logger)
	if err != nil {
		p.errorf("re-clean: %v", err)
		return p
	}
	first, err := encode(cleaned)
	if err != nil {
		p.errorf("encode cleaned: %v", err)
		return p
	}
	second, err := encode(again)
	if err != nil {
		p.errorf("encode re-cleaned: %v", err)
		return p
	}
	if !bytes.Equal(first, second) {
		p.errorf("re-cleaning changed the table")
	}
	return p
}

func validateFileParity(cleaned *domain.Table, path string) *phase {
	p := &phase{name: "Phase 7: Cleaned File Parity"}

	want, err := encode(cleaned)
	if err != nil {
		p.errorf("encode cleaned: %v", err)
		return p
	}
	got, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read %s: %v", path, err)
		return p
	}

	wantLines := bytes.Split(bytes.TrimSuffix(want, []byte("\n")), []byte("\n"))
	gotLines := bytes.Split(bytes.TrimSuffix(got, []byte("\n")), []byte("\n"))
	if len(wantLines) != len(gotLines) {
		p.errorf("line count: expected %d, got %d", len(wantLines), len(gotLines))
	}
	for i := range min(len(wantLines), len(gotLines)) {
		if !bytes.Equal(wantLines[i], gotLines[i]) {
			p.errorf("line %d: expected %q, got %q", i+1, wantLines[i], gotLines[i])
		}
	}
	return p
}

func encode(t *domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := csvfile.Encode(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9*math.Max(1, math.Abs(a))
}
