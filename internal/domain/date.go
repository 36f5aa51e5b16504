package domain

import (
	"fmt"
	"time"

	"github.com/ecoclim/era5merge/internal/table"
)

// dateLayout is the composite date format carried between parsing and the
// calendar split: day-month-year, zero padded, locale independent.
const dateLayout = "02-01-2006"

// EpochToDate converts seconds since the Unix epoch to the composite
// DD-MM-YYYY date string, in UTC.
func EpochToDate(secs int64) string {
	return time.Unix(secs, 0).UTC().Format(dateLayout)
}

// ParseDate parses a composite DD-MM-YYYY date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// SplitDateColumn replaces the composite date column with integer day, month,
// and year columns at the same position. It fails on any date cell that does
// not parse in the DD-MM-YYYY layout.
func SplitDateColumn(t *table.Table) (*table.Table, error) {
	col, ok := t.Column(ColDate)
	if !ok {
		return nil, fmt.Errorf("split date column: no column %q", ColDate)
	}

	n := len(col.Cells)
	days := make([]table.Cell, n)
	months := make([]table.Cell, n)
	years := make([]table.Cell, n)
	for i, c := range col.Cells {
		s, ok := c.(string)
		if !ok {
			return nil, fmt.Errorf("split date column: row %d is not a date string", i)
		}
		d, err := ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("split date column: row %d: %w", i, err)
		}
		days[i] = d.Day()
		months[i] = int(d.Month())
		years[i] = d.Year()
	}

	return t.ReplaceColumn(ColDate,
		table.Column{Name: ColDay, Cells: days},
		table.Column{Name: ColMonth, Cells: months},
		table.Column{Name: ColYear, Cells: years},
	)
}
