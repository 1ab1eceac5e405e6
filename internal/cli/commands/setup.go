package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ansijoin/internal/cli/config"
	"github.com/leapstack-labs/ansijoin/internal/cli/output"
	"github.com/leapstack-labs/ansijoin/pkg/convert"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Renderer  *output.Renderer
	Converter *convert.Converter
}

// NewCommandContext creates a CommandContext with a converter built from
// the loaded configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc := NewCommandContextWithoutConverter(cmd)

	conv, err := newConverter(cc.Cfg, cc.Logger)
	if err != nil {
		return nil, err
	}
	cc.Converter = conv
	return cc, nil
}

// NewCommandContextWithoutConverter creates a CommandContext for commands
// that do not convert SQL.
func NewCommandContextWithoutConverter(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output.Format))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

func newConverter(cfg *config.Config, logger *slog.Logger) (*convert.Converter, error) {
	conv, err := convert.New(convert.Config{
		SourceDialect: cfg.SourceDialect,
		TargetDialect: cfg.TargetDialect,
		Pretty:        cfg.Pretty,
		Flatten:       cfg.Flatten,
		ReorderJoins:  cfg.ReorderJoins,
		Workers:       cfg.Workers,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create converter: %w", err)
	}
	return conv, nil
}
