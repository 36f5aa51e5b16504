package domain

import (
	"errors"
	"fmt"

	"github.com/ecoclim/era5merge/internal/table"
)

// Structural merge failures. Continuing past any of these would silently
// produce a corrupted dataset, so the pipeline treats them as fatal.
var (
	ErrNoTables          = errors.New("no variable tables to merge")
	ErrRowCountMismatch  = errors.New("row count mismatch between variable tables")
	ErrDuplicateVariable = errors.New("duplicate variable name")
	ErrKeyMismatch       = errors.New("key mismatch between variable tables")
)

// MergePositional combines variable tables into one wide table by row index.
// The date/lon/lat columns come from the first table only; every other table
// contributes just its value column. Tables are assumed row-aligned; the only
// cross-table check is the row count.
func MergePositional(tables []VariableTable) (*table.Table, error) {
	base, rest, err := splitBase(tables)
	if err != nil {
		return nil, err
	}

	wide, err := baseTable(base)
	if err != nil {
		return nil, err
	}

	for _, vt := range rest {
		if vt.NumRows() != base.NumRows() {
			return nil, fmt.Errorf("%w: %s has %d rows, %s has %d",
				ErrRowCountMismatch, vt.SourceFile, vt.NumRows(), base.SourceFile, base.NumRows())
		}
		wide, err = appendValues(wide, vt, vt.Values)
		if err != nil {
			return nil, err
		}
	}
	return wide, nil
}

// MergeByKey combines variable tables by joining every row on its
// (date, lon, lat) key instead of trusting positional alignment. Each
// non-base table must cover exactly the base table's key set; an unmatched
// or duplicated key is fatal.
func MergeByKey(tables []VariableTable) (*table.Table, error) {
	base, rest, err := splitBase(tables)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, base.NumRows())
	for i := 0; i < base.NumRows(); i++ {
		k := rowKey(base.Dates[i], base.Lons[i], base.Lats[i])
		if _, dup := index[k]; dup {
			return nil, fmt.Errorf("%w: %s row %d repeats key %s", ErrKeyMismatch, base.SourceFile, i, k)
		}
		index[k] = i
	}

	wide, err := baseTable(base)
	if err != nil {
		return nil, err
	}

	for _, vt := range rest {
		if vt.NumRows() != base.NumRows() {
			return nil, fmt.Errorf("%w: %s has %d rows, %s has %d",
				ErrRowCountMismatch, vt.SourceFile, vt.NumRows(), base.SourceFile, base.NumRows())
		}
		aligned := make([]float64, base.NumRows())
		seen := make([]bool, base.NumRows())
		for i := 0; i < vt.NumRows(); i++ {
			k := rowKey(vt.Dates[i], vt.Lons[i], vt.Lats[i])
			j, ok := index[k]
			if !ok {
				return nil, fmt.Errorf("%w: %s row %d key %s not in base table", ErrKeyMismatch, vt.SourceFile, i, k)
			}
			if seen[j] {
				return nil, fmt.Errorf("%w: %s repeats key %s", ErrKeyMismatch, vt.SourceFile, k)
			}
			seen[j] = true
			aligned[j] = vt.Values[i]
		}
		wide, err = appendValues(wide, vt, aligned)
		if err != nil {
			return nil, err
		}
	}
	return wide, nil
}

func splitBase(tables []VariableTable) (VariableTable, []VariableTable, error) {
	if len(tables) == 0 {
		return VariableTable{}, nil, ErrNoTables
	}
	seen := make(map[string]string, len(tables))
	for _, vt := range tables {
		if prev, dup := seen[vt.Name]; dup {
			return VariableTable{}, nil, fmt.Errorf("%w: %s and %s both sanitize to %q",
				ErrDuplicateVariable, prev, vt.SourceFile, vt.Name)
		}
		seen[vt.Name] = vt.SourceFile
	}
	return tables[0], tables[1:], nil
}

func baseTable(base VariableTable) (*table.Table, error) {
	wide := table.New()
	var err error
	if wide, err = wide.AppendColumn(ColDate, toCells(base.Dates)); err != nil {
		return nil, err
	}
	if wide, err = wide.AppendColumn(ColLon, toCells(base.Lons)); err != nil {
		return nil, err
	}
	if wide, err = wide.AppendColumn(ColLat, toCells(base.Lats)); err != nil {
		return nil, err
	}
	return appendValues(wide, base, base.Values)
}

func appendValues(wide *table.Table, vt VariableTable, values []float64) (*table.Table, error) {
	out, err := wide.AppendColumn(vt.Name, toCells(values))
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", vt.SourceFile, err)
	}
	return out, nil
}

func toCells[T string | float64](vals []T) []table.Cell {
	cells := make([]table.Cell, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return cells
}

// rowKey builds the join key for one record. Coordinates are fixed to four
// decimals, matching the precision of the source exports.
func rowKey(date string, lon, lat float64) string {
	return fmt.Sprintf("%s|%.4f|%.4f", date, lon, lat)
}
