// Command era5merge merges a directory of single-variable ERA5 text exports
// into one master .xlsx table.
//
// Input files are read from <ERA5_DATA_ROOT>/input and the artifact is
// written to <ERA5_DATA_ROOT>/output. The output directory is cleared before
// writing; see internal/adapter/excel.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecoclim/era5merge/internal/adapter/excel"
	httpadapter "github.com/ecoclim/era5merge/internal/adapter/http"
	"github.com/ecoclim/era5merge/internal/config"
	"github.com/ecoclim/era5merge/internal/observability"
	"github.com/ecoclim/era5merge/internal/parser"
	"github.com/ecoclim/era5merge/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	fileParser := parser.New(cfg.Delimiter, cfg.ValueColumn, logger)
	exporter := excel.NewWriter(cfg.InputDir, cfg.OutputDir, cfg.OutputName, cfg.SheetName, logger)

	p := pipeline.New(fileParser, exporter, logger, metrics, pipeline.Options{
		InputDir: cfg.InputDir,
		KeyJoin:  cfg.JoinMode == config.JoinKey,
		Workers:  cfg.Workers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional metrics listener for scraping long runs.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	result, runErr := p.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("merge run failed", "error", runErr)
		os.Exit(1)
	}

	logger.Info("merge run succeeded",
		"artifact", result.ArtifactPath,
		"rows", result.Rows,
		"files_parsed", result.Parsed,
		"files_skipped", result.Skipped,
	)
}
