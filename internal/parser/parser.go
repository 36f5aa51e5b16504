// Package parser reads one delimited ERA5 export file into a normalized
// variable table.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/ecoclim/era5merge/internal/domain"
)

// Source column positions shared by every export. The value column is the
// only configurable one: source jobs occasionally append diagnostic columns,
// and the value position is a convention, not something the header names
// guarantee.
const (
	colTimestamp = 0
	colLatitude  = 1
	colLongitude = 2

	// DefaultValueColumn is the 0-based position of the variable value.
	DefaultValueColumn = 3
)

// Parser converts delimited text exports into domain.VariableTable values.
// Any defect in a file (missing columns, malformed numbers, I/O failure)
// fails that file as a whole; the pipeline skips it and continues.
type Parser struct {
	delimiter   rune
	valueColumn int
	logger      *slog.Logger
}

// New creates a Parser. delimiter is the field separator (tab for the
// reference dataset) and valueColumn the 0-based value position.
func New(delimiter rune, valueColumn int, logger *slog.Logger) *Parser {
	return &Parser{
		delimiter:   delimiter,
		valueColumn: valueColumn,
		logger:      logger,
	}
}

// ParseFile reads one export file and returns its variable table. The
// variable name comes from the file's base name, sanitized.
func (p *Parser) ParseFile(path string) (domain.VariableTable, error) {
	name, err := domain.SanitizeVariableName(path)
	if err != nil {
		return domain.VariableTable{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.VariableTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	vt, err := p.parse(f, name)
	if err != nil {
		return domain.VariableTable{}, fmt.Errorf("parse %s: %w", path, err)
	}
	vt.SourceFile = path

	p.logger.Debug("parsed input file", "file", path, "variable", vt.Name, "rows", vt.NumRows())
	return vt, nil
}

func (p *Parser) parse(r io.Reader, name string) (domain.VariableTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.delimiter
	// Column count is validated per row below so a short row names its line.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.VariableTable{}, err
	}
	if len(rows) == 0 {
		return domain.VariableTable{}, fmt.Errorf("empty file")
	}

	minColumns := p.valueColumn + 1
	if minColumns < 4 {
		minColumns = 4
	}

	vt := domain.VariableTable{Name: name}
	for i, row := range rows[1:] { // rows[0] is the header
		line := i + 2
		if len(row) < minColumns {
			return domain.VariableTable{}, fmt.Errorf("line %d: %d columns, need at least %d", line, len(row), minColumns)
		}

		secs, err := parseTimestamp(row[colTimestamp])
		if err != nil {
			return domain.VariableTable{}, fmt.Errorf("line %d: %w", line, err)
		}
		lat, err := strconv.ParseFloat(row[colLatitude], 64)
		if err != nil {
			return domain.VariableTable{}, fmt.Errorf("line %d: latitude %q: %w", line, row[colLatitude], err)
		}
		lon, err := strconv.ParseFloat(row[colLongitude], 64)
		if err != nil {
			return domain.VariableTable{}, fmt.Errorf("line %d: longitude %q: %w", line, row[colLongitude], err)
		}
		value, err := strconv.ParseFloat(row[p.valueColumn], 64)
		if err != nil {
			return domain.VariableTable{}, fmt.Errorf("line %d: value %q: %w", line, row[p.valueColumn], err)
		}

		vt.Dates = append(vt.Dates, domain.EpochToDate(secs))
		vt.Lats = append(vt.Lats, lat)
		vt.Lons = append(vt.Lons, lon)
		vt.Values = append(vt.Values, value)
	}

	if vt.NumRows() == 0 {
		return domain.VariableTable{}, fmt.Errorf("no data rows")
	}
	return vt, nil
}

// parseTimestamp accepts integer or float seconds since the Unix epoch;
// fractional seconds are truncated.
func parseTimestamp(s string) (int64, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return secs, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return int64(f), nil
}
