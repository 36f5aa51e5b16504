// Package table provides the in-memory column table the merge pipeline is
// built on: an ordered sequence of named columns of equal length. Tables are
// treated as immutable; every operation returns a new table and leaves its
// receiver untouched, so each pipeline stage consumes the previous stage's
// output without aliasing surprises.
package table

import (
	"fmt"
)

// Cell is a single table value. Concrete types are float64, int, and string;
// a nil Cell is the missing-value marker.
type Cell any

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols  []Column
	index map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// NumRows returns the row count, zero for an empty table.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column and whether it exists.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.cols))
	for j, c := range t.cols {
		row[j] = c.Cells[i]
	}
	return row
}

// AppendColumn returns a new table with the column added at the end.
// The name must be unique and the cell count must match the existing row count.
func (t *Table) AppendColumn(name string, cells []Cell) (*Table, error) {
	if _, exists := t.index[name]; exists {
		return nil, fmt.Errorf("append column: duplicate column %q", name)
	}
	if len(t.cols) > 0 && len(cells) != t.NumRows() {
		return nil, fmt.Errorf("append column %q: %d cells, table has %d rows", name, len(cells), t.NumRows())
	}
	out := t.clone()
	out.index[name] = len(out.cols)
	out.cols = append(out.cols, Column{Name: name, Cells: cells})
	return out, nil
}

// ReplaceColumn returns a new table with the named column replaced, in place,
// by one or more columns of the same row count. Used to split the composite
// date column into day/month/year.
func (t *Table) ReplaceColumn(name string, replacements ...Column) (*Table, error) {
	pos, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("replace column: no column %q", name)
	}
	for _, r := range replacements {
		if len(r.Cells) != t.NumRows() {
			return nil, fmt.Errorf("replace column %q: replacement %q has %d cells, table has %d rows",
				name, r.Name, len(r.Cells), t.NumRows())
		}
		if j, exists := t.index[r.Name]; exists && j != pos {
			return nil, fmt.Errorf("replace column %q: replacement %q already present", name, r.Name)
		}
	}

	cols := make([]Column, 0, len(t.cols)-1+len(replacements))
	cols = append(cols, t.cols[:pos]...)
	cols = append(cols, replacements...)
	cols = append(cols, t.cols[pos+1:]...)
	return fromColumns(cols)
}

// MapColumn returns a new table with fn applied to every cell of the named
// column. A missing column is not an error; the table is returned unchanged,
// which lets transforms be keyed by name and skip absent variables.
func (t *Table) MapColumn(name string, fn func(Cell) Cell) *Table {
	pos, ok := t.index[name]
	if !ok {
		return t
	}
	out := t.clone()
	src := t.cols[pos].Cells
	dst := make([]Cell, len(src))
	for i, c := range src {
		dst[i] = fn(c)
	}
	out.cols[pos] = Column{Name: t.cols[pos].Name, Cells: dst}
	return out
}

// Reorder returns a new table with exactly the named columns in the given
// order. Every requested name must be present; extra table columns are an
// error too, so the caller cannot silently drop data.
func (t *Table) Reorder(names []string) (*Table, error) {
	if len(names) != len(t.cols) {
		return nil, fmt.Errorf("reorder: %d columns requested, table has %d", len(names), len(t.cols))
	}
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("reorder: no column %q", name)
		}
		cols = append(cols, t.cols[i])
	}
	return fromColumns(cols)
}

func (t *Table) clone() *Table {
	out := &Table{
		cols:  make([]Column, len(t.cols)),
		index: make(map[string]int, len(t.index)),
	}
	copy(out.cols, t.cols)
	for k, v := range t.index {
		out.index[k] = v
	}
	return out
}

func fromColumns(cols []Column) (*Table, error) {
	out := New()
	var err error
	for _, c := range cols {
		out, err = out.AppendColumn(c.Name, c.Cells)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
