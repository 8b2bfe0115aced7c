package domain

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order. ISO forms come first because they are
// unambiguous; the US month-first forms win over day-first ones.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"20060102",
}

// ParseTimestamp parses a date cell into a UTC timestamp. It reports false for
// missing or unrecognised values, which the cleaner treats as null.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTimestamps renders a time column for output: date-only when every
// timestamp falls on midnight, otherwise date and time. Null entries render empty.
func FormatTimestamps(times []time.Time) []string {
	layout := "2006-01-02"
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
			layout = "2006-01-02 15:04:05"
			break
		}
	}

	out := make([]string, len(times))
	for i, t := range times {
		if t.IsZero() {
			continue
		}
		out[i] = t.Format(layout)
	}
	return out
}
