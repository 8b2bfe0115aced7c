package csvfile

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/weather-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw_weather.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReader_LoadFixture(t *testing.T) {
	r := NewReader(filepath.Join("testdata", "raw_weather.csv"), discardLogger())

	table, err := r.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "temp", "rain", "humidity", "station"}, table.Names())
	assert.Equal(t, 6, table.Len())

	temp, err := table.NumericColumn("temp")
	require.NoError(t, err)
	assert.Equal(t, 1, temp.Missing())

	assert.Equal(t, domain.KindText, table.Column("date").Kind)
	assert.Equal(t, domain.KindText, table.Column("station").Kind)
}

func TestReader_MissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "nope.csv"), discardLogger())

	_, err := r.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrFile)
}

func TestReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(writeFile(t, "date\n2023-01-01\n"), discardLogger()).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"ragged row", "date,temp\n2023-01-01,10\n2023-01-02\n"},
		{"unterminated quote", "date,temp\n\"2023-01-01,10\n"},
		{"empty header cell", "date,,temp\n2023-01-01,1,2\n"},
		{"duplicate header", "date,temp,temp\n2023-01-01,1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.ErrorIs(t, err, domain.ErrParse)
		})
	}
}

func TestDecode_HeaderOnly(t *testing.T) {
	table, err := Decode(strings.NewReader("date,temp\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, table.Len())
	assert.Equal(t, []string{"date", "temp"}, table.Names())
}

func TestDecode_StripsBOM(t *testing.T) {
	table, err := Decode(strings.NewReader("\xef\xbb\xbfDate,temp\n01/05/2023,3\n"))
	require.NoError(t, err)

	assert.NotNil(t, table.Column("Date"))
}

func TestWriter_CleanedOutput(t *testing.T) {
	raw, err := Decode(strings.NewReader(
		"date,temp,rain,station\n" +
			"2023-01-03,14,0,north\n" +
			"2023-01-01,10,1.5,north\n" +
			"not-a-date,99,9,south\n" +
			"2023-01-02,,0.25,south\n",
	))
	require.NoError(t, err)

	cleaned, _, err := domain.Clean(raw, discardLogger())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "cleaned_weather.csv")
	w := NewWriter(path, discardLogger())
	require.NoError(t, w.WriteCleaned(context.Background(), cleaned))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "date,temp,rain,station,month,year\n" +
		"2023-01-01,10,1.5,north,1,2023\n" +
		"2023-01-02,12,0.25,south,1,2023\n" +
		"2023-01-03,14,0,north,1,2023\n"
	assert.Equal(t, want, string(data))
}

func TestWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned_weather.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the new file\n"), 0o600))

	table, err := Decode(strings.NewReader("station\nnorth\n"))
	require.NoError(t, err)
	require.NoError(t, NewWriter(path, discardLogger()).WriteCleaned(context.Background(), table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "station\nnorth\n", string(data))
}

func TestWriter_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	w := NewWriter(filepath.Join(blocker, "cleaned_weather.csv"), discardLogger())
	err := w.WriteCleaned(context.Background(), domain.NewTable(0))
	require.ErrorIs(t, err, domain.ErrIO)
}

func TestEncode_TimestampsWithTime(t *testing.T) {
	table, err := Decode(strings.NewReader("date,temp\n2023-01-01 06:30,1\n2023-01-01 18:00,3\n"))
	require.NoError(t, err)
	cleaned, _, err := domain.Clean(table, discardLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cleaned))

	assert.Contains(t, buf.String(), "2023-01-01 06:30:00,1,1,2023\n")
	assert.Contains(t, buf.String(), "2023-01-01 18:00:00,3,1,2023\n")
}

func TestRoundTrip_CleanedFileReloads(t *testing.T) {
	raw, err := NewReader(filepath.Join("testdata", "raw_weather.csv"), discardLogger()).Load(context.Background())
	require.NoError(t, err)
	cleaned, _, err := domain.Clean(raw, discardLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cleaned))

	reloaded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cleaned.Names(), reloaded.Names())
	assert.Equal(t, cleaned.Len(), reloaded.Len())

	for _, name := range []string{"temp", "rain", "humidity", "month", "year"} {
		col, err := reloaded.NumericColumn(name)
		require.NoError(t, err, name)
		assert.Zero(t, col.Missing(), name)
	}
}
