package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leapstack-labs/ansijoin/internal/cli/output"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	_ "github.com/leapstack-labs/ansijoin/pkg/dialects/all" // registers dialects for validation
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := dialect.Lookup(c.SourceDialect); err != nil {
		return fmt.Errorf("%w: source_dialect: %w", ErrInvalidConfig, err)
	}
	if c.TargetDialect != "" {
		if _, err := dialect.Lookup(c.TargetDialect); err != nil {
			return fmt.Errorf("%w: target_dialect: %w", ErrInvalidConfig, err)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Output.Format != "" && !slices.Contains(output.Modes(), c.Output.Format) {
		return fmt.Errorf("%w: output.format must be one of %v, got %q", ErrInvalidConfig, output.Modes(), c.Output.Format)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalidConfig)
	}
	return nil
}
