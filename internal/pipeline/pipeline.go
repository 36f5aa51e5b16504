// Package pipeline orchestrates a merge run: discover input files, parse them
// into variable tables, assemble the wide table, transform it, and export the
// master table.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecoclim/era5merge/internal/domain"
	"github.com/ecoclim/era5merge/internal/observability"
	"github.com/ecoclim/era5merge/internal/table"
)

// Pipeline-setup failures: nothing to merge at all.
var (
	ErrNoInputFiles  = errors.New("no input files found")
	ErrNoUsableFiles = errors.New("no input file parsed successfully")
)

// FileParser reads one input file into a variable table.
type FileParser interface {
	ParseFile(path string) (domain.VariableTable, error)
}

// Exporter writes the master table somewhere and returns the artifact path.
type Exporter interface {
	Export(t *table.Table) (string, error)
}

// Options configure a merge run.
type Options struct {
	// InputDir is scanned (non-recursively) for *.txt exports.
	InputDir string
	// KeyJoin switches assembly from positional merge to the stricter
	// (date, lon, lat) key join.
	KeyJoin bool
	// Workers bounds concurrent file parsing. Results are collected back
	// into discovery order, so column order stays deterministic.
	Workers int
}

// Result summarizes a completed run.
type Result struct {
	InputFiles   int
	Parsed       int
	Skipped      int
	Rows         int
	ArtifactPath string
	StartedAt    time.Time
	CompletedAt  time.Time
}

// Pipeline runs the merge end to end, exactly once per process.
type Pipeline struct {
	parser   FileParser
	exporter Exporter
	logger   *slog.Logger
	metrics  *observability.Metrics
	opts     Options
	done     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(parser FileParser, exporter Exporter, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{
		parser:   parser,
		exporter: exporter,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.done.Load() {
		return errors.New("merge run has not completed yet")
	}
	return nil
}

// Run executes the merge. Per-file parse failures are skipped with a warning;
// structural failures (no usable input, name collisions, row-count or key
// mismatches, missing master columns) abort before anything is written.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	result := Result{StartedAt: domain.Now()}

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	files, err := p.discover()
	if err != nil {
		return result, err
	}
	result.InputFiles = len(files)
	p.logger.Info("run started", "input_dir", p.opts.InputDir, "files", len(files), "key_join", p.opts.KeyJoin)

	tables, skipped, err := p.parseAll(ctx, files)
	if err != nil {
		return result, err
	}
	result.Parsed = len(tables)
	result.Skipped = skipped
	if len(tables) == 0 {
		return result, fmt.Errorf("%w: all %d files skipped", ErrNoUsableFiles, len(files))
	}

	master, err := p.assemble(tables)
	if err != nil {
		return result, err
	}
	result.Rows = master.NumRows()

	exportStart := time.Now()
	path, err := p.exporter.Export(master)
	if err != nil {
		return result, fmt.Errorf("export master table: %w", err)
	}
	p.metrics.ExportDuration.Observe(time.Since(exportStart).Seconds())

	result.ArtifactPath = path
	result.CompletedAt = domain.Now()
	p.done.Store(true)

	p.logger.Info("run complete",
		"artifact", path,
		"rows", result.Rows,
		"parsed", result.Parsed,
		"skipped", result.Skipped,
		"duration", result.CompletedAt.Sub(result.StartedAt),
	)
	return result, nil
}

// discover lists the input files in deterministic (lexical) order. File order
// determines column order in the wide table.
func (p *Pipeline) discover() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(p.opts.InputDir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("scan input dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, p.opts.InputDir)
	}
	return files, nil
}

// parseAll parses every file with a bounded worker group, then collects the
// results back into discovery order. A file that fails to parse is logged and
// counted, never fatal; only context cancellation stops the run here.
func (p *Pipeline) parseAll(ctx context.Context, files []string) ([]domain.VariableTable, int, error) {
	type outcome struct {
		vt  domain.VariableTable
		err error
	}
	outcomes := make([]outcome, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			vt, err := p.parser.ParseFile(file)
			if err == nil {
				p.metrics.ParseDuration.Observe(time.Since(start).Seconds())
			}
			outcomes[i] = outcome{vt: vt, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	tables := make([]domain.VariableTable, 0, len(files))
	skipped := 0
	for i, o := range outcomes {
		if o.err != nil {
			p.logger.Warn("skipping input file", "file", files[i], "error", o.err)
			p.metrics.FilesSkipped.Inc()
			skipped++
			continue
		}
		p.metrics.FilesParsed.Inc()
		tables = append(tables, o.vt)
	}
	return tables, skipped, nil
}

// assemble merges the variable tables and applies the date split, unit and
// category transforms, and the master column order.
func (p *Pipeline) assemble(tables []domain.VariableTable) (*table.Table, error) {
	merge := domain.MergePositional
	if p.opts.KeyJoin {
		merge = domain.MergeByKey
	}

	wide, err := merge(tables)
	if err != nil {
		return nil, fmt.Errorf("assemble wide table: %w", err)
	}
	p.metrics.RowsMerged.Add(float64(wide.NumRows()))
	p.logger.Debug("wide table assembled", "rows", wide.NumRows(), "columns", wide.NumCols())

	wide, err = domain.SplitDateColumn(wide)
	if err != nil {
		return nil, err
	}

	wide = domain.ApplyTransforms(wide)

	master, err := wide.Reorder(domain.MasterColumns())
	if err != nil {
		return nil, fmt.Errorf("order master columns: %w", err)
	}
	return master, nil
}
