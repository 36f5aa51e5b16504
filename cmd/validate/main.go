// Command validate inspects an ERA5 export directory without writing
// anything: it parses every file and reports, in phases, the problems a merge
// run would hit: parse failures, name collisions, row-count misalignment,
// key coverage, and canonical variable coverage.
//
// Usage:
//
//	go run ./cmd/validate -input era5data/input
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/ecoclim/era5merge/internal/domain"
	"github.com/ecoclim/era5merge/internal/parser"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "directory containing the .txt exports")
	delimiter := flag.String("delimiter", "tab", `field delimiter: a single character or "tab"`)
	valueColumn := flag.Int("value-column", parser.DefaultValueColumn, "0-based position of the value column")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	delim, err := parseDelimiter(*delimiter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	if code := run(*input, delim, *valueColumn); code != 0 {
		os.Exit(code)
	}
}

func run(inputDir string, delimiter rune, valueColumn int) int {
	fmt.Println("=== ERA5 Input Directory Validation ===")
	fmt.Println()

	files, err := filepath.Glob(filepath.Join(inputDir, "*.txt"))
	if err != nil || len(files) == 0 {
		fmt.Fprintf(os.Stderr, "FATAL: no .txt files in %s\n", inputDir)
		return 1
	}

	quiet := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	p := parser.New(delimiter, valueColumn, quiet)

	tables := make([]domain.VariableTable, 0, len(files))
	parsePhase := &phase{name: "Phase 1: Per-file parsing"}
	for _, f := range files {
		vt, err := p.ParseFile(f)
		if err != nil {
			parsePhase.errorf("%s: %v", filepath.Base(f), err)
			continue
		}
		tables = append(tables, vt)
	}

	phases := []*phase{
		parsePhase,
		validateCollisions(tables),
		validateAlignment(tables),
		validateKeys(tables),
		validateCoverage(tables),
	}

	fmt.Println()
	allPassed := true
	for _, ph := range phases {
		status := "PASS"
		if !ph.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(ph.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", ph.name, status)
	}

	fmt.Println()
	fmt.Printf("Files: %d found, %d parsed\n", len(files), len(tables))

	for _, ph := range phases {
		if ph.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", ph.name)
		for i, e := range ph.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateCollisions flags files whose sanitized names collide.
func validateCollisions(tables []domain.VariableTable) *phase {
	p := &phase{name: "Phase 2: Sanitized name collisions"}
	seen := map[string]string{}
	for _, vt := range tables {
		if prev, dup := seen[vt.Name]; dup {
			p.errorf("%s and %s both sanitize to %q", prev, vt.SourceFile, vt.Name)
			continue
		}
		seen[vt.Name] = vt.SourceFile
	}
	return p
}

// validateAlignment compares every table's row count against the first one.
func validateAlignment(tables []domain.VariableTable) *phase {
	p := &phase{name: "Phase 3: Positional alignment (row counts)"}
	if len(tables) == 0 {
		p.errorf("no parsed tables to compare")
		return p
	}
	base := tables[0]
	for _, vt := range tables[1:] {
		if vt.NumRows() != base.NumRows() {
			p.errorf("%s has %d rows, %s has %d", vt.SourceFile, vt.NumRows(), base.SourceFile, base.NumRows())
		}
	}
	return p
}

// validateKeys verifies every table covers the base table's (date, lon, lat)
// key set, the precondition of a key-based join and a strong signal that
// positional alignment actually holds.
func validateKeys(tables []domain.VariableTable) *phase {
	p := &phase{name: "Phase 4: Key coverage (date, lon, lat)"}
	if len(tables) == 0 {
		return p
	}
	if _, err := domain.MergeByKey(tables); err != nil {
		p.errorf("%v", err)
	}
	return p
}

// validateCoverage reports canonical variables without an input file and
// input files outside the canonical set.
func validateCoverage(tables []domain.VariableTable) *phase {
	p := &phase{name: "Phase 5: Canonical variable coverage"}

	canonical := map[string]bool{}
	for _, v := range domain.Variables {
		canonical[v] = true
	}
	present := map[string]bool{}
	for _, vt := range tables {
		present[vt.Name] = true
		if !canonical[vt.Name] {
			p.errorf("unexpected variable %q (%s)", vt.Name, vt.SourceFile)
		}
	}

	var missing []string
	for _, v := range domain.Variables {
		if !present[v] {
			missing = append(missing, v)
		}
	}
	sort.Strings(missing)
	for _, v := range missing {
		p.errorf("missing canonical variable %q", v)
	}
	return p
}

func parseDelimiter(s string) (rune, error) {
	if s == "tab" {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character or \"tab\", got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
