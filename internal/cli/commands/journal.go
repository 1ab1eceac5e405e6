package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/ansijoin/internal/cli/config"
	"github.com/leapstack-labs/ansijoin/internal/cli/output"
	"github.com/leapstack-labs/ansijoin/internal/state"
	"github.com/leapstack-labs/ansijoin/pkg/convert"
)

// openStore opens and migrates the journal database at path.
func openStore(path string, logger *slog.Logger) (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(logger)
	if err := store.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize journal: %w", err)
	}
	return store, nil
}

// journal records one convert run. A nil journal records nothing.
type journal struct {
	store  state.Store
	run    *state.Run
	logger *slog.Logger
}

// startJournal opens the journal and creates a run when journaling is
// enabled, and returns nil otherwise.
func startJournal(ctx context.Context, cfg *config.Config, conv *convert.Converter, logger *slog.Logger) (*journal, error) {
	if !cfg.JournalEnabled() {
		return nil, nil
	}
	store, err := openStore(cfg.Journal.Path, logger)
	if err != nil {
		return nil, err
	}
	return newJournal(ctx, store, conv, logger)
}

func newJournal(ctx context.Context, store state.Store, conv *convert.Converter, logger *slog.Logger) (*journal, error) {
	run, err := store.CreateRun(ctx, conv.Source().Name, conv.Target().Name)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Debug("journal run started", "run", run.ID)
	return &journal{store: store, run: run, logger: logger}, nil
}

// record stores one row per statement of a converted file. Journal
// failures are logged and never fail the conversion.
func (j *journal) record(ctx context.Context, path string, batch *convert.BatchResult) {
	if j == nil {
		return
	}
	ordinal := 0
	for _, s := range batch.Statements {
		if s.Fragment.Blank {
			continue
		}
		ordinal++
		rec := state.StatementRecord{
			File:    path,
			Ordinal: ordinal,
			Line:    s.Fragment.Pos.Line,
			Status:  statementStatus(s),
		}
		if s.Err != nil {
			rec.Error = s.Err.Error()
		}
		if s.Result != nil {
			rec.Converted = s.Result.Converted
			rec.Remaining = s.Result.Remaining
			rec.Diagnostics = len(s.Result.Diagnostics)
		}
		if err := j.store.RecordStatement(ctx, j.run.ID, rec); err != nil {
			j.logger.Warn("failed to journal statement", "file", path, "statement", ordinal, "error", err)
		}
	}
}

func statementStatus(s convert.StatementResult) state.StatementStatus {
	switch {
	case s.Err != nil:
		return state.StatementFailed
	case s.Result.NeedsReview():
		return state.StatementReview
	case s.Result.Converted > 0:
		return state.StatementConverted
	default:
		return state.StatementUnchanged
	}
}

// finish completes the run and closes the store.
func (j *journal) finish(ctx context.Context, sum output.Summary, runErr error) {
	if j == nil {
		return
	}
	defer func() { _ = j.store.Close() }()

	summary := state.RunSummary{
		Status:      state.RunStatusCompleted,
		Files:       sum.Files,
		Statements:  sum.Statements,
		Converted:   sum.Converted,
		Failed:      sum.Failed,
		Diagnostics: sum.Diagnostics,
	}
	if runErr != nil {
		summary.Status = state.RunStatusFailed
		summary.Error = runErr.Error()
	}
	if err := j.store.CompleteRun(ctx, j.run.ID, summary); err != nil {
		j.logger.Warn("failed to complete journal run", "run", j.run.ID, "error", err)
	}
}
