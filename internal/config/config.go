package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"
)

// Join modes for the wide-table assembly.
const (
	JoinPositional = "positional"
	JoinKey        = "key"
)

// Config holds all settings of a merge run, populated from environment
// variables.
type Config struct {
	// DataRoot is the run's working root. Input files are read from
	// <DataRoot>/input and the artifact is written to <DataRoot>/output.
	DataRoot  string
	InputDir  string
	OutputDir string

	// Delimiter separates fields in the input files.
	Delimiter rune
	// ValueColumn is the 0-based position of the value column in each file.
	ValueColumn int
	// JoinMode selects positional or key-based assembly.
	JoinMode string
	// Workers bounds concurrent file parsing.
	Workers int

	OutputName string
	SheetName  string

	LogLevel  string
	LogFormat string

	// MetricsAddr enables the health/metrics HTTP listener when non-empty.
	MetricsAddr string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	delimiter, err := parseDelimiter(envOrDefault("ERA5_DELIMITER", "tab"))
	if err != nil {
		return nil, err
	}

	valueColumn, err := parsePositiveInt("ERA5_VALUE_COLUMN", 3)
	if err != nil {
		return nil, err
	}
	if valueColumn < 3 {
		return nil, fmt.Errorf("ERA5_VALUE_COLUMN must be at least 3, got %d", valueColumn)
	}

	workers, err := parsePositiveInt("ERA5_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, errors.New("ERA5_WORKERS must be at least 1")
	}

	root := envOrDefault("ERA5_DATA_ROOT", "./era5data")
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve ERA5_DATA_ROOT: %w", err)
	}

	cfg := &Config{
		DataRoot:    absRoot,
		InputDir:    filepath.Join(absRoot, "input"),
		OutputDir:   filepath.Join(absRoot, "output"),
		Delimiter:   delimiter,
		ValueColumn: valueColumn,
		JoinMode:    envOrDefault("ERA5_JOIN_MODE", JoinPositional),
		Workers:     workers,
		OutputName:  envOrDefault("ERA5_OUTPUT_NAME", "era5_master.xlsx"),
		SheetName:   envOrDefault("ERA5_SHEET_NAME", "MasterTable"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}

	if cfg.JoinMode != JoinPositional && cfg.JoinMode != JoinKey {
		return nil, fmt.Errorf("ERA5_JOIN_MODE must be %q or %q, got %q", JoinPositional, JoinKey, cfg.JoinMode)
	}
	if cfg.OutputName == "" || cfg.OutputName != filepath.Base(cfg.OutputName) {
		return nil, fmt.Errorf("ERA5_OUTPUT_NAME must be a bare file name, got %q", cfg.OutputName)
	}
	if cfg.SheetName == "" {
		return nil, errors.New("ERA5_SHEET_NAME must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseDelimiter accepts a single character or the word "tab".
func parseDelimiter(s string) (rune, error) {
	if s == "tab" {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("ERA5_DELIMITER must be a single character or \"tab\", got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
