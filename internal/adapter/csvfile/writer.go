package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/weather-analysis/internal/domain"
)

// Writer persists the cleaned table.
// It implements pipeline.CleanedSink.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting path. Parent directories are created on write.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Path returns the output file path.
func (w *Writer) Path() string { return w.path }

// WriteCleaned writes the table with a header row and no index column,
// overwriting any existing file.
func (w *Writer) WriteCleaned(ctx context.Context, t *domain.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %w", domain.ErrIO, dir, err)
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", domain.ErrIO, w.path, err)
	}
	if err := Encode(f, t); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write %s: %w", domain.ErrIO, w.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", domain.ErrIO, w.path, err)
	}

	w.logger.Info("wrote cleaned observations", "path", w.path, "rows", t.Len())
	return nil
}

// Encode writes t as CSV. Time columns use FormatTimestamps, numbers the
// shortest exact decimal form, and text columns their original cells.
func Encode(out io.Writer, t *domain.Table) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}

	cells := make([][]string, len(t.Columns))
	for j, col := range t.Columns {
		cells[j] = formatColumn(col)
	}

	record := make([]string, len(t.Columns))
	for i := 0; i < t.Len(); i++ {
		for j := range cells {
			record[j] = cells[j][i]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatColumn(col *domain.Column) []string {
	switch col.Kind {
	case domain.KindTime:
		return domain.FormatTimestamps(col.Times)
	case domain.KindNumeric:
		out := make([]string, len(col.Values))
		for i, v := range col.Values {
			if !math.IsNaN(v) {
				out[i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		return out
	default:
		return col.Raw
	}
}
