package core

import (
	"fmt"
	"strings"
)

// MissingValue is the text rendered for an absent cell.
const MissingValue = "nan"

// Cell is a single spreadsheet value. Valid is false for empty or absent cells.
type Cell struct {
	Value string
	Valid bool
}

// TextCell returns a Cell for s, treating the empty string as missing.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Value: s, Valid: true}
}

// String renders the cell, substituting MissingValue for absent values.
func (c Cell) String() string {
	if !c.Valid {
		return MissingValue
	}
	return c.Value
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is an immutable set of equal-length named columns.
// Row i is the i-th cell of every column.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewTable builds a Table, rejecting duplicate names and ragged columns.
func NewTable(columns []Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		if i == 0 {
			t.rows = len(col.Cells)
		} else if len(col.Cells) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", col.Name, len(col.Cells), t.rows)
		}

		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		t.columns[i] = Column{Name: col.Name, Cells: cells}
		t.index[col.Name] = i
	}

	return t, nil
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return t.rows
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// Columns returns the columns in table order. Callers must not modify
// their cells.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column. Callers must not modify its cells.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Cell returns the cell at row in the named column.
func (t *Table) Cell(name string, row int) (Cell, error) {
	col, ok := t.Column(name)
	if !ok {
		return Cell{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	if row < 0 || row >= t.rows {
		return Cell{}, fmt.Errorf("row %d out of range (0-%d)", row, t.rows-1)
	}
	return col.Cells[row], nil
}

// Project returns a new table holding only the named columns, in the given
// order. Row alignment with the source table is preserved.
func (t *Table) Project(names []string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	var missing []string

	for _, name := range names {
		col, ok := t.Column(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols = append(cols, col)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, strings.Join(missing, ", "))
	}

	projected, err := NewTable(cols)
	if err != nil {
		return nil, err
	}
	projected.rows = t.rows
	return projected, nil
}
