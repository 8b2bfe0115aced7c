package domain

import (
	"math"
	"time"
)

// MonthlySummary is one monthly row in a serialisable form. Measurements are
// nil when the month had no value for them (or the column was skipped).
type MonthlySummary struct {
	Month        string    `json:"month"`
	Temperature  *float64  `json:"temperature"`
	Rainfall     *float64  `json:"rainfall"`
	Humidity     *float64  `json:"humidity"`
	Observations int       `json:"observations"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// MonthlySummaries flattens a monthly table into one summary per month,
// stamped with the current time.
func MonthlySummaries(m MonthlyTable, cols ColumnSet) []MonthlySummary {
	now := clock.Now().UTC()
	out := make([]MonthlySummary, m.Len())
	for i := range m.Months {
		out[i] = MonthlySummary{
			Month:        m.Label(i),
			Temperature:  valueAt(m, cols.Temperature, i),
			Rainfall:     valueAt(m, cols.Rainfall, i),
			Humidity:     valueAt(m, cols.Humidity, i),
			Observations: m.Counts[i],
			GeneratedAt:  now,
		}
	}
	return out
}

func valueAt(m MonthlyTable, column string, i int) *float64 {
	series, ok := m.Series(column)
	if !ok || math.IsNaN(series[i]) {
		return nil
	}
	v := series[i]
	return &v
}
