// Command gensample writes a synthetic raw weather CSV for local runs and
// fixtures. Readings are taken several times a day with a seasonal
// temperature curve, showery rainfall and humidity that tracks both. A small
// share of cells is left empty and a few dates are written in a US format or
// not at all, so the output exercises every cleaning path.
//
// Usage:
//
//	go run ./cmd/gensample -out data/raw_weather.csv -days 400 -seed 1
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var readingHours = []int{6, 12, 18}

// gapRate is the chance that any single measurement cell is left empty.
const gapRate = 0.04

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/raw_weather.csv", "output path for the raw CSV")
	days := flag.Int("days", 400, "number of days to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	start := flag.String("start", "2023-01-01", "first day (YYYY-MM-DD)")
	flag.Parse()

	if *days <= 0 {
		flag.Usage()
		return fmt.Errorf("-days must be positive")
	}
	first, err := time.Parse("2006-01-02", *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	rows := generate(first, *days, rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)))
	if err := writeCSV(*out, rows); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}

	log.Printf("wrote %d readings over %d days to %s", len(rows)-1, *days, *out)
	return nil
}

func generate(first time.Time, days int, rng *rand.Rand) [][]string {
	rows := [][]string{{"date", "temp", "rain", "humidity", "station"}}
	wet := false
	for d := 0; d < days; d++ {
		day := first.AddDate(0, 0, d)
		// Wet spells persist for a few days.
		if rng.Float64() < 0.25 {
			wet = !wet
		}
		for _, hour := range readingHours {
			ts := day.Add(time.Duration(hour) * time.Hour)
			temp := seasonalTemp(ts) + rng.NormFloat64()*2
			rain := 0.0
			if wet && rng.Float64() < 0.6 {
				rain = rng.ExpFloat64() * 4
			}
			humidity := math.Min(100, math.Max(15, 70-0.9*(temp-12)+rain*2+rng.NormFloat64()*5))

			rows = append(rows, []string{
				formatDate(ts, rng),
				maybeGap(strconv.FormatFloat(round(temp, 1), 'f', -1, 64), rng),
				maybeGap(strconv.FormatFloat(round(rain, 1), 'f', -1, 64), rng),
				maybeGap(strconv.FormatFloat(round(humidity, 0), 'f', -1, 64), rng),
				"KSEA",
			})
		}
	}
	return rows
}

// seasonalTemp peaks in late July and bottoms out in late January, with a
// daily swing peaking mid-afternoon.
func seasonalTemp(ts time.Time) float64 {
	season := math.Cos(2 * math.Pi * float64(ts.YearDay()-205) / 365.25)
	diurnal := math.Cos(2 * math.Pi * float64(ts.Hour()-15) / 24)
	return 11 + 8*season + 3*diurnal
}

func formatDate(ts time.Time, rng *rand.Rand) string {
	switch p := rng.Float64(); {
	case p < 0.01:
		return "n/a"
	case p < 0.015:
		return "unknown"
	case p < 0.05:
		return ts.Format("01/02/2006 15:04")
	default:
		return ts.Format("2006-01-02 15:04")
	}
}

func maybeGap(v string, rng *rand.Rand) string {
	if rng.Float64() < gapRate {
		return ""
	}
	return v
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
