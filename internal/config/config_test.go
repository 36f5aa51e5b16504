package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.DataRoot, "input"), cfg.InputDir)
	assert.Equal(t, filepath.Join(cfg.DataRoot, "output"), cfg.OutputDir)
	assert.True(t, filepath.IsAbs(cfg.DataRoot))
	assert.Equal(t, '\t', cfg.Delimiter)
	assert.Equal(t, 3, cfg.ValueColumn)
	assert.Equal(t, JoinPositional, cfg.JoinMode)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "era5_master.xlsx", cfg.OutputName)
	assert.Equal(t, "MasterTable", cfg.SheetName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("ERA5_DATA_ROOT", "/srv/era5")
	t.Setenv("ERA5_DELIMITER", ";")
	t.Setenv("ERA5_VALUE_COLUMN", "4")
	t.Setenv("ERA5_JOIN_MODE", "key")
	t.Setenv("ERA5_WORKERS", "8")
	t.Setenv("ERA5_OUTPUT_NAME", "master.xlsx")
	t.Setenv("ERA5_SHEET_NAME", "Datos")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_ADDR", ":9102")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/era5", cfg.DataRoot)
	assert.Equal(t, "/srv/era5/input", cfg.InputDir)
	assert.Equal(t, "/srv/era5/output", cfg.OutputDir)
	assert.Equal(t, ';', cfg.Delimiter)
	assert.Equal(t, 4, cfg.ValueColumn)
	assert.Equal(t, JoinKey, cfg.JoinMode)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "master.xlsx", cfg.OutputName)
	assert.Equal(t, "Datos", cfg.SheetName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"multi-char delimiter", "ERA5_DELIMITER", "||"},
		{"value column too small", "ERA5_VALUE_COLUMN", "1"},
		{"value column not a number", "ERA5_VALUE_COLUMN", "three"},
		{"unknown join mode", "ERA5_JOIN_MODE", "fuzzy"},
		{"zero workers", "ERA5_WORKERS", "0"},
		{"output name with path", "ERA5_OUTPUT_NAME", "sub/dir.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
