// Package excel writes the master table to a single-sheet .xlsx artifact.
package excel

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ecoclim/era5merge/internal/domain"
	"github.com/ecoclim/era5merge/internal/table"
)

// Writer exports a table as an .xlsx workbook with one sheet.
// It implements pipeline.Exporter.
type Writer struct {
	inputDir  string
	outputDir string
	fileName  string
	sheetName string
	logger    *slog.Logger
}

// NewWriter creates a spreadsheet exporter. inputDir is recorded only as a
// safety check: the exporter refuses to clean a directory that resolves to
// the input directory.
func NewWriter(inputDir, outputDir, fileName, sheetName string, logger *slog.Logger) *Writer {
	return &Writer{
		inputDir:  inputDir,
		outputDir: outputDir,
		fileName:  fileName,
		sheetName: sheetName,
		logger:    logger,
	}
}

// Export clears the output directory and writes the table to it, returning
// the artifact path.
//
// Clearing is destructive and irreversible: every entry directly inside the
// configured output directory is removed before the new artifact is written.
// Only entries of that one directory are ever touched; ancestors and the
// input directory are off limits.
func (w *Writer) Export(t *table.Table) (string, error) {
	if err := w.cleanOutputDir(); err != nil {
		return "", err
	}

	path := filepath.Join(w.outputDir, w.fileName)
	if err := w.writeWorkbook(t, path); err != nil {
		return "", err
	}

	w.logger.Info("artifact written", "path", path, "rows", t.NumRows(), "columns", t.NumCols())
	return path, nil
}

// cleanOutputDir creates the output directory if needed and removes its
// contents. It never removes the directory itself, so nothing outside it can
// be affected.
func (w *Writer) cleanOutputDir() error {
	out, err := filepath.Abs(w.outputDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	in, err := filepath.Abs(w.inputDir)
	if err != nil {
		return fmt.Errorf("resolve input dir: %w", err)
	}
	if out == in {
		return fmt.Errorf("output dir %s is the input dir, refusing to clean", out)
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		return fmt.Errorf("read output dir: %w", err)
	}
	for _, e := range entries {
		w.logger.Warn("removing previous output", "path", filepath.Join(out, e.Name()))
		if err := os.RemoveAll(filepath.Join(out, e.Name())); err != nil {
			return fmt.Errorf("clean output dir: %w", err)
		}
	}
	return nil
}

func (w *Writer) writeWorkbook(t *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if w.sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, w.sheetName); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	// Header row.
	for j, name := range t.ColumnNames() {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(w.sheetName, cell, name); err != nil {
			return fmt.Errorf("write header %q: %w", name, err)
		}
	}

	// Data rows. A nil cell is the missing marker and stays blank.
	for i := 0; i < t.NumRows(); i++ {
		for j, v := range t.Row(i) {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(w.sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:  "era5merge",
		Created:  domain.Now().UTC().Format(time.RFC3339),
		Subject:  "ERA5 merged climate dataset",
		Category: "dataset",
	}); err != nil {
		return fmt.Errorf("set doc properties: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
