package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ansijoin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("source", "", "")
	fs.String("target", "", "")
	fs.String("output", "", "")
	fs.Bool("pretty", false, "")
	fs.Int("workers", 0, "")
	fs.String("log-level", "", "")
	fs.Bool("journal", false, "")
	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfigFile(t *testing.T) {
	t.Cleanup(ResetConfig)

	path := writeConfig(t, `
source_dialect: oracle
target_dialect: postgres
pretty: false
flatten: true
workers: 8
output:
  format: json
watch:
  debounce: 1s
journal:
  enabled: true
  path: state/journal.db
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "postgres", cfg.TargetDialect)
	assert.False(t, cfg.Pretty)
	assert.True(t, cfg.Flatten)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.True(t, cfg.JournalEnabled())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "state", "journal.db"), cfg.Journal.Path)
}

func TestLoadConfigPrecedence(t *testing.T) {
	t.Cleanup(ResetConfig)

	path := writeConfig(t, "target_dialect: postgres\nworkers: 2\nlog_level: info\n")
	t.Setenv("ANSIJOIN_TARGET_DIALECT", "duckdb")
	t.Setenv("ANSIJOIN_WORKERS", "6")
	t.Setenv("ANSIJOIN_WATCH__DEBOUNCE", "750ms")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--workers", "3", "--journal"}))

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.TargetDialect, "env overrides file")
	assert.Equal(t, 3, cfg.Workers, "flag overrides env")
	assert.Equal(t, "info", cfg.LogLevel, "file overrides defaults")
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)
	assert.True(t, cfg.JournalEnabled())
}

func TestLoadConfigUnchangedFlagsDoNotOverride(t *testing.T) {
	t.Cleanup(ResetConfig)

	path := writeConfig(t, "pretty: false\ntarget_dialect: ansi\n")
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--source", "oracle"}))

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)

	assert.False(t, cfg.Pretty)
	assert.Equal(t, "ansi", cfg.TargetDialect)
	assert.Equal(t, "oracle", cfg.SourceDialect)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Cleanup(ResetConfig)

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown dialect", "target_dialect: sybase\n", "target_dialect"},
		{"zero workers", "workers: 0\n", "workers must be at least 1"},
		{"bad log level", "log_level: loud\n", "invalid log level"},
		{"bad log format", "log_format: xml\n", "log_format"},
		{"bad output", "output:\n  format: csv\n", "output.format"},
		{"bad duration", "watch:\n  debounce: soon\n", "unable to decode config"},
		{"bad yaml", "workers: [\n", "error reading config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateWrapsSentinel(t *testing.T) {
	cfg := Default()
	cfg.SourceDialect = ""

	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelWarn, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	assert.NotNil(t, GetLogger(t.Context()))
}
