// Package config provides configuration management for the ansijoin CLI.
//
// Values are layered from defaults, an ansijoin.yaml file, ANSIJOIN_*
// environment variables and explicitly set flags, in increasing priority.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	SourceDialect     string         `koanf:"source_dialect"`
	TargetDialect     string         `koanf:"target_dialect"`
	Pretty            bool           `koanf:"pretty"`
	Flatten           bool           `koanf:"flatten"`
	ReorderJoins      bool           `koanf:"reorder_joins"`
	Workers           int            `koanf:"workers"`
	FailOnDiagnostics bool           `koanf:"fail_on_diagnostics"`
	LogLevel          string         `koanf:"log_level"`
	LogFormat         string         `koanf:"log_format"`
	Output            OutputConfig   `koanf:"output"`
	Watch             WatchConfig    `koanf:"watch"`
	Journal           *JournalConfig `koanf:"journal"`
}

// OutputConfig controls how reports are written.
type OutputConfig struct {
	Format string `koanf:"format"`
}

// WatchConfig controls convert --watch.
type WatchConfig struct {
	// Debounce is how long a file must stay quiet before it is reconverted.
	Debounce time.Duration `koanf:"debounce"`
}

// JournalConfig controls the SQLite conversion journal.
type JournalConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Default configuration values.
const (
	DefaultSourceDialect = "oracle"
	DefaultWorkers       = 4
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultDebounce      = 200 * time.Millisecond
	DefaultJournalPath   = ".ansijoin/journal.db"
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		SourceDialect: DefaultSourceDialect,
		TargetDialect: DefaultSourceDialect,
		Pretty:        true,
		Workers:       DefaultWorkers,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		Output:        OutputConfig{Format: DefaultOutput},
		Watch:         WatchConfig{Debounce: DefaultDebounce},
		Journal:       &JournalConfig{Path: DefaultJournalPath},
	}
}

// JournalEnabled reports whether conversions should be journaled.
func (c *Config) JournalEnabled() bool {
	return c.Journal != nil && c.Journal.Enabled
}
