package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ansijoin/internal/cli/output"
	"github.com/leapstack-labs/ansijoin/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show journaled convert runs",
		Long: `List recent convert runs recorded in the journal, or the statements of
one run. Runs are recorded when journal.enabled is set or --journal is passed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContextWithoutConverter(cmd)

			path := cc.Cfg.Journal.Path
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				cc.Renderer.Warning(fmt.Sprintf("No journal at %s (enable it with --journal)", path))
				return nil
			}

			store, err := openStore(path, cc.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				return showRun(cmd.Context(), cc.Renderer, store, args[0])
			}
			return listRuns(cmd.Context(), cc.Renderer, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")

	return cmd
}

func listRuns(ctx context.Context, r *output.Renderer, store state.Store, limit int) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if ok, err := r.Structured(runs); ok {
		return err
	}
	if len(runs) == 0 {
		r.Println("No runs recorded")
		return nil
	}

	t := newTable(r)
	t.AppendHeader(table.Row{"Run", "Started", "Dialects", "Status", "Files", "Statements", "Converted", "Failed", "Diagnostics"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.SourceDialect + " -> " + run.TargetDialect,
			run.Status,
			run.Files,
			run.Statements,
			run.Converted,
			run.Failed,
			run.Diagnostics,
		})
	}
	renderTable(r, t)
	return nil
}

func showRun(ctx context.Context, r *output.Renderer, store state.Store, id string) error {
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	stmts, err := store.ListStatements(ctx, id)
	if err != nil {
		return err
	}
	if ok, err := r.Structured(map[string]any{"run": run, "statements": stmts}); ok {
		return err
	}

	r.Header(fmt.Sprintf("Run %s (%s)", run.ID, run.Status))
	if run.Error != "" {
		r.Error(run.Error)
	}

	t := newTable(r)
	t.AppendHeader(table.Row{"File", "#", "Line", "Status", "Converted", "Remaining", "Diagnostics", "Error"})
	for _, s := range stmts {
		t.AppendRow(table.Row{s.File, s.Ordinal, s.Line, s.Status, s.Converted, s.Remaining, s.Diagnostics, s.Error})
	}
	renderTable(r, t)
	return nil
}

func newTable(r *output.Renderer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	return t
}

func renderTable(r *output.Renderer, t table.Writer) {
	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
