package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/weather-analysis/internal/domain"
)

// Reader loads a raw observations CSV into a table.
// It implements pipeline.Loader.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the given path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Load parses the file. A missing or unreadable file is an ErrFile; content
// that is not valid CSV (including a missing header) is an ErrParse.
func (r *Reader) Load(ctx context.Context) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrFile, r.path, err)
	}
	defer f.Close()

	table, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}

	r.logger.Info("loaded observations", "path", r.path, "rows", table.Len(), "columns", len(table.Columns))
	return table, nil
}

// Decode reads CSV with a header row from rd and infers each column's kind.
func Decode(rd io.Reader) (*domain.Table, error) {
	cr := csv.NewReader(rd)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", domain.ErrParse)
	}
	if err != nil {
		return nil, classifyReadError(err)
	}
	header = trimBOM(header)
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	cells := make([][]string, len(header))
	rows := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, classifyReadError(err)
		}
		for j, v := range record {
			cells[j] = append(cells[j], v)
		}
		rows++
	}

	table := domain.NewTable(rows)
	for j, name := range header {
		col := cells[j]
		if col == nil {
			col = []string{}
		}
		if err := table.SetColumn(domain.NewColumnFromCells(name, col)); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
		}
	}
	return table, nil
}

// classifyReadError separates malformed content from failures of the
// underlying reader.
func classifyReadError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	return fmt.Errorf("%w: read: %w", domain.ErrFile, err)
}

func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if name == "" {
			return fmt.Errorf("%w: header column %d is empty", domain.ErrParse, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate header column %q", domain.ErrParse, name)
		}
		seen[name] = true
	}
	return nil
}

// trimBOM strips a UTF-8 byte order mark from the first header cell, as
// written by spreadsheet exports.
func trimBOM(header []string) []string {
	if len(header) > 0 && len(header[0]) >= 3 && header[0][:3] == "\xef\xbb\xbf" {
		header[0] = header[0][3:]
	}
	return header
}
