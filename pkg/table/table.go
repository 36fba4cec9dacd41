package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

var (
	// ErrEmptyTable is returned by [Table.First] when the table has no rows.
	// Probes that read the query identifier from the first row of a group
	// surface this error unmodified.
	ErrEmptyTable = errors.New("table has no rows")

	// ErrUnknownColumn is returned when a named column does not exist.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrColumnCount is returned by [Table.Append] when the number of cells
	// does not match the number of columns.
	ErrColumnCount = errors.New("cell count does not match column count")

	// ErrSchemaMismatch is returned by [Concat] when the input tables do not
	// share an identical column list.
	ErrSchemaMismatch = errors.New("tables have different columns")
)

// Well-known column names used throughout retrieval pipelines.
const (
	ColQID   = "qid"
	ColQuery = "query"
	ColDocNo = "docno"
	ColScore = "score"
	ColRank  = "rank"
)

// Table is an ordered collection of named columns and string-valued rows.
// It is the payload that flows through pipeline stages. Tables are passed by
// reference; stages that transform data build new tables rather than mutating
// their input.
//
// The zero value is not usable - create tables with [New] or [FromRecords].
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New creates an empty table with the given column names.
func New(cols ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range t.cols {
		t.index[c] = i
	}
	return t
}

// FromRecords builds a table from CSV-style records where the first record is
// the header row.
func FromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no header record")
	}
	t := New(records[0]...)
	for _, rec := range records[1:] {
		if err := t.Append(rec...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return len(t.rows) == 0 }

// Append adds a row to the table. The number of cells must match the number
// of columns.
func (t *Table) Append(cells ...string) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf("%w: got %d cells for %d columns", ErrColumnCount, len(cells), len(t.cols))
	}
	t.rows = append(t.rows, append([]string(nil), cells...))
	return nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Rows returns all rows as records, without the header. The returned slices
// share backing storage with the table and must not be modified.
func (t *Table) Rows() [][]string { return t.rows }

// Cell returns the value at row i in the named column.
func (t *Table) Cell(i int, col string) (string, error) {
	j, ok := t.index[col]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	if i < 0 || i >= len(t.rows) {
		return "", fmt.Errorf("row %d out of range [0,%d)", i, len(t.rows))
	}
	return t.rows[i][j], nil
}

// Float returns the value at row i in the named column parsed as a float64.
func (t *Table) Float(i int, col string) (float64, error) {
	s, err := t.Cell(i, col)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q row %d: %w", col, i, err)
	}
	return f, nil
}

// First returns the value of the named column in the first row.
// Returns [ErrEmptyTable] if the table has no rows.
func (t *Table) First(col string) (string, error) {
	if len(t.rows) == 0 {
		return "", ErrEmptyTable
	}
	return t.Cell(0, col)
}

// Head returns a new table containing the first n rows. A negative n returns
// all rows. The returned table shares row storage with the receiver.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.rows) {
		n = len(t.rows)
	}
	out := New(t.cols...)
	out.rows = t.rows[:n]
	return out
}

// Select returns a new table restricted to the named columns, in the given
// order. Returns [ErrUnknownColumn] if any column does not exist.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		idx[i] = j
	}
	out := New(cols...)
	for _, row := range t.rows {
		cells := make([]string, len(idx))
		for i, j := range idx {
			cells[i] = row[j]
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// WithColumn returns a new table with the named column set to the given
// values. An existing column is replaced in place; a new column is appended.
// The number of values must match the number of rows.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("%w: got %d values for %d rows", ErrColumnCount, len(values), len(t.rows))
	}
	if j, ok := t.index[name]; ok {
		out := New(t.cols...)
		for i, row := range t.rows {
			cells := append([]string(nil), row...)
			cells[j] = values[i]
			out.rows = append(out.rows, cells)
		}
		return out, nil
	}
	out := New(append(t.Columns(), name)...)
	for i, row := range t.rows {
		out.rows = append(out.rows, append(append([]string(nil), row...), values[i]))
	}
	return out, nil
}

// CopySchema returns an empty table with the same columns as the receiver.
func (t *Table) CopySchema() *Table {
	return New(t.cols...)
}

// Groups splits the table on the named column, preserving row order within
// each group. Groups are returned in order of first appearance and are never
// empty.
func (t *Table) Groups(col string) ([]*Table, error) {
	j, ok := t.index[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	var order []string
	byKey := make(map[string]*Table)
	for _, row := range t.rows {
		key := row[j]
		g, ok := byKey[key]
		if !ok {
			g = New(t.cols...)
			byKey[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}
	out := make([]*Table, len(order))
	for i, key := range order {
		out[i] = byKey[key]
	}
	return out, nil
}

// Concat joins tables with identical column lists into one table, preserving
// input order. Returns [ErrSchemaMismatch] if the schemas differ.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables to concatenate")
	}
	first := tables[0]
	out := New(first.cols...)
	for _, t := range tables {
		if len(t.cols) != len(first.cols) {
			return nil, ErrSchemaMismatch
		}
		for i, c := range t.cols {
			if first.cols[i] != c {
				return nil, ErrSchemaMismatch
			}
		}
		out.rows = append(out.rows, t.rows...)
	}
	return out, nil
}

// String renders the table as aligned plain text: a header row followed by
// one line per row, and a trailing row count.
func (t *Table) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.cols, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Fprintf(&b, "[%d rows x %d columns]", len(t.rows), len(t.cols))
	return b.String()
}
