// End-to-end test of a full merge run: real files on disk, real parser, real
// spreadsheet writer, artifact read back with excelize.
package integration_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ecoclim/era5merge/internal/adapter/excel"
	"github.com/ecoclim/era5merge/internal/domain"
	"github.com/ecoclim/era5merge/internal/observability"
	"github.com/ecoclim/era5merge/internal/parser"
	"github.com/ecoclim/era5merge/internal/pipeline"
)

// fixtureValues returns the two source-unit data rows for a variable.
func fixtureValues(name string) [2]float64 {
	switch name {
	case "Temperatura2m":
		return [2]float64{300.0, 301.0}
	case "Escorrentia":
		return [2]float64{0.002, 0.003}
	case "TipoSuelo":
		return [2]float64{3, 9} // 9 is out of range: becomes the missing marker
	default:
		return [2]float64{1.5, 2.5}
	}
}

func writeFixtures(t *testing.T, inputDir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(inputDir, 0o755))
	for _, name := range domain.Variables {
		vals := fixtureValues(name)
		content := "time\tlatitude\tlongitude\tvalue\n" +
			fmt.Sprintf("0\t10.0\t-70.0\t%g\n", vals[0]) +
			fmt.Sprintf("86400\t10.25\t-70.0\t%g\n", vals[1])
		require.NoError(t, os.WriteFile(filepath.Join(inputDir, name+".txt"), []byte(content), 0o600))
	}
}

func cellFloat(t *testing.T, f *excelize.File, sheet, cell string) float64 {
	t.Helper()
	s, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err, "cell %s = %q", cell, s)
	return v
}

func columnCell(t *testing.T, master []string, name string, row int) string {
	t.Helper()
	for i, n := range master {
		if n == name {
			c, err := excelize.CoordinatesToCellName(i+1, row)
			require.NoError(t, err)
			return c
		}
	}
	t.Fatalf("no master column %q", name)
	return ""
}

func TestFullMergeRun(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	root := t.TempDir()
	inputDir := filepath.Join(root, "input")
	outputDir := filepath.Join(root, "output")
	writeFixtures(t, inputDir)

	// A junk file alongside the real exports: skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "Notas.txt"),
		[]byte("time\tlatitude\tlongitude\n0\t10.0\t-70.0\n"), 0o600))

	logger := slog.Default()
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(
		parser.New('\t', parser.DefaultValueColumn, logger),
		excel.NewWriter(inputDir, outputDir, "era5_master.xlsx", "MasterTable", logger),
		logger, metrics,
		pipeline.Options{InputDir: inputDir, Workers: 4},
	)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(domain.Variables)+1, result.InputFiles)
	assert.Equal(t, len(domain.Variables), result.Parsed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Rows)

	f, err := excelize.OpenFile(result.ArtifactPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("MasterTable")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 data rows

	master := domain.MasterColumns()
	assert.Equal(t, master, rows[0])

	// Coordinates and calendar columns, first data row (epoch second 0).
	assert.InDelta(t, -70.0, cellFloat(t, f, "MasterTable", columnCell(t, master, "lon", 2)), 1e-9)
	assert.InDelta(t, 10.0, cellFloat(t, f, "MasterTable", columnCell(t, master, "lat", 2)), 1e-9)
	assert.Equal(t, 1.0, cellFloat(t, f, "MasterTable", columnCell(t, master, "day", 2)))
	assert.Equal(t, 1.0, cellFloat(t, f, "MasterTable", columnCell(t, master, "month", 2)))
	assert.Equal(t, 1970.0, cellFloat(t, f, "MasterTable", columnCell(t, master, "year", 2)))

	// Second data row is the next day.
	assert.Equal(t, 2.0, cellFloat(t, f, "MasterTable", columnCell(t, master, "day", 3)))

	// Kelvin -> Celsius.
	assert.InDelta(t, 26.85, cellFloat(t, f, "MasterTable", columnCell(t, master, "Temperatura2m", 2)), 1e-9)

	// m/day -> mm/day.
	assert.InDelta(t, 2.0, cellFloat(t, f, "MasterTable", columnCell(t, master, "Escorrentia", 2)), 1e-9)

	// Soil type recode, and out-of-range code left blank.
	soil, err := f.GetCellValue("MasterTable", columnCell(t, master, "TipoSuelo", 2))
	require.NoError(t, err)
	assert.Equal(t, "medium_fine", soil)
	soil, err = f.GetCellValue("MasterTable", columnCell(t, master, "TipoSuelo", 3))
	require.NoError(t, err)
	assert.Empty(t, soil)

	// The junk file contributed no column.
	assert.NotContains(t, rows[0], "Notas")
}

func TestFullMergeRun_KeyJoinMatchesPositional(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "input")
	writeFixtures(t, inputDir)

	logger := slog.Default()

	runWith := func(keyJoin bool, outputDir string) [][]string {
		p := pipeline.New(
			parser.New('\t', parser.DefaultValueColumn, logger),
			excel.NewWriter(inputDir, outputDir, "era5_master.xlsx", "MasterTable", logger),
			logger, observability.NewMetricsForTesting(),
			pipeline.Options{InputDir: inputDir, Workers: 2, KeyJoin: keyJoin},
		)
		result, err := p.Run(context.Background())
		require.NoError(t, err)

		f, err := excelize.OpenFile(result.ArtifactPath)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("MasterTable")
		require.NoError(t, err)
		return rows
	}

	positional := runWith(false, filepath.Join(root, "out_pos"))
	keyed := runWith(true, filepath.Join(root, "out_key"))
	assert.Equal(t, positional, keyed)
}
