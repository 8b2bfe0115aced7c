package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	jan1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{"iso date", "2023-01-01", jan1, true},
		{"iso date padded", "  2023-01-01 ", jan1, true},
		{"iso datetime", "2023-01-01 13:45:00", time.Date(2023, 1, 1, 13, 45, 0, 0, time.UTC), true},
		{"iso T datetime", "2023-01-01T13:45:00", time.Date(2023, 1, 1, 13, 45, 0, 0, time.UTC), true},
		{"rfc3339 offset normalised to utc", "2023-01-01T10:00:00+10:00", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"slashes year first", "2023/01/01", jan1, true},
		{"us month first", "01/02/2023", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"us short", "1/2/2023", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"month name", "Jan 1, 2023", jan1, true},
		{"day month name", "01-Jan-2023", jan1, true},
		{"compact", "20230101", jan1, true},
		{"empty", "", time.Time{}, false},
		{"na token", "NA", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"invalid day", "2023-02-30", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.expected.Equal(got), "got %v", got)
			if ok {
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestFormatTimestamps(t *testing.T) {
	t.Run("date only when all midnight", func(t *testing.T) {
		got := FormatTimestamps([]time.Time{
			time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		})
		assert.Equal(t, []string{"2023-01-01", "2023-01-02"}, got)
	})

	t.Run("datetime when any has a time of day", func(t *testing.T) {
		got := FormatTimestamps([]time.Time{
			time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 1, 1, 6, 30, 0, 0, time.UTC),
		})
		assert.Equal(t, []string{"2023-01-01 00:00:00", "2023-01-01 06:30:00"}, got)
	})

	t.Run("null renders empty", func(t *testing.T) {
		got := FormatTimestamps([]time.Time{{}, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)})
		assert.Equal(t, []string{"", "2023-01-01"}, got)
	})
}
