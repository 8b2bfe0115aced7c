package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnKind classifies the values held by a Column.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
	KindTime
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindTime:
		return "time"
	default:
		return "text"
	}
}

// missingTokens are the cell values read as "no value", matching the NA set
// most CSV producers (and pandas) agree on.
var missingTokens = map[string]struct{}{
	"":         {},
	"NA":       {},
	"N/A":      {},
	"n/a":      {},
	"NaN":      {},
	"nan":      {},
	"-NaN":     {},
	"-nan":     {},
	"null":     {},
	"NULL":     {},
	"None":     {},
	"<NA>":     {},
	"#N/A":     {},
	"#NA":      {},
	"#N/A N/A": {},
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(cell string) bool {
	_, ok := missingTokens[strings.TrimSpace(cell)]
	return ok
}

// Column is one named column of a Table.
//
// Raw holds the cells as read from the source; derived columns leave it nil.
// Values is populated for numeric columns (NaN marks a missing cell) and Times
// for time columns (the zero time marks an unparseable cell).
type Column struct {
	Name   string
	Kind   ColumnKind
	Raw    []string
	Values []float64
	Times  []time.Time
}

// NewColumnFromCells builds a column from raw cells, inferring its kind. A
// column with no present cells at all is numeric and entirely NaN.
func NewColumnFromCells(name string, cells []string) *Column {
	col := &Column{Name: name, Kind: KindText, Raw: cells}

	values := make([]float64, len(cells))
	for i, cell := range cells {
		if IsMissing(cell) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || math.IsNaN(v) {
			return col
		}
		values[i] = v
	}

	col.Kind = KindNumeric
	col.Values = values
	return col
}

// NewNumericColumn builds a derived numeric column.
func NewNumericColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: KindNumeric, Values: values}
}

// NewTimeColumn builds a derived time column.
func NewTimeColumn(name string, times []time.Time) *Column {
	return &Column{Name: name, Kind: KindTime, Times: times}
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindNumeric:
		return len(c.Values)
	case KindTime:
		return len(c.Times)
	default:
		return len(c.Raw)
	}
}

// Missing counts the missing cells of a numeric or time column. Text columns
// are never considered to have gaps.
func (c *Column) Missing() int {
	n := 0
	switch c.Kind {
	case KindNumeric:
		for _, v := range c.Values {
			if math.IsNaN(v) {
				n++
			}
		}
	case KindTime:
		for _, t := range c.Times {
			if t.IsZero() {
				n++
			}
		}
	}
	return n
}

// take returns a copy of the column holding only the rows in idx, in that order.
func (c *Column) take(idx []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Raw != nil {
		out.Raw = make([]string, len(idx))
		for i, j := range idx {
			out.Raw[i] = c.Raw[j]
		}
	}
	if c.Values != nil {
		out.Values = make([]float64, len(idx))
		for i, j := range idx {
			out.Values[i] = c.Values[j]
		}
	}
	if c.Times != nil {
		out.Times = make([]time.Time, len(idx))
		for i, j := range idx {
			out.Times[i] = c.Times[j]
		}
	}
	return out
}

// Table is an ordered set of rows stored column by column.
type Table struct {
	Columns []*Column
	rows    int
}

// NewTable creates an empty table with the given row count.
func NewTable(rows int) *Table {
	return &Table{rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if the table has none.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NumericColumn returns the named column if it exists and is numeric.
func (t *Table) NumericColumn(name string) (*Column, error) {
	c := t.Column(name)
	if c == nil {
		return nil, fmt.Errorf("%w: column %q not found", ErrSchema, name)
	}
	if c.Kind != KindNumeric {
		return nil, fmt.Errorf("%w: column %q is %s, not numeric", ErrSchema, name, c.Kind)
	}
	return c, nil
}

// SetColumn replaces the column with the same name in place, or appends it.
func (t *Table) SetColumn(c *Column) error {
	if c.Len() != t.rows {
		return fmt.Errorf("column %q has %d cells, table has %d rows", c.Name, c.Len(), t.rows)
	}
	for i, existing := range t.Columns {
		if existing.Name == c.Name {
			t.Columns[i] = c
			return nil
		}
	}
	t.Columns = append(t.Columns, c)
	return nil
}

// Take returns a new table holding only the rows in idx, in that order.
func (t *Table) Take(idx []int) *Table {
	out := &Table{rows: len(idx), Columns: make([]*Column, len(t.Columns))}
	for i, c := range t.Columns {
		out.Columns[i] = c.take(idx)
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	idx := make([]int, t.rows)
	for i := range idx {
		idx[i] = i
	}
	return t.Take(idx)
}
