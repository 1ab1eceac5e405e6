package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrRunNotFound is returned by GetRun for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, source_dialect, target_dialect, status, started_at, completed_at,
	files, statements, converted, failed, diagnostics, error`

// CreateRun starts a new run.
func (s *SQLiteStore) CreateRun(ctx context.Context, sourceDialect, targetDialect string) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	run := &Run{
		ID:            generateID(),
		SourceDialect: sourceDialect,
		TargetDialect: targetDialect,
		Status:        RunStatusRunning,
		StartedAt:     time.Now().UTC(),
	}

	s.logger.Debug("creating run", slog.String("id", run.ID))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source_dialect, target_dialect, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.SourceDialect, run.TargetDialect, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return run, nil
}

// CompleteRun records the totals of a run and marks it finished.
func (s *SQLiteStore) CompleteRun(ctx context.Context, id string, summary RunSummary) error {
	if s.db == nil {
		return errNotOpened
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, files = ?, statements = ?,
			converted = ?, failed = ?, diagnostics = ?, error = ?
		WHERE id = ?`,
		string(summary.Status), time.Now().UTC(), summary.Files, summary.Statements,
		summary.Converted, summary.Failed, summary.Diagnostics, nullString(summary.Error), id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// RecordStatement appends a statement outcome to a run.
func (s *SQLiteStore) RecordStatement(ctx context.Context, runID string, rec StatementRecord) error {
	if s.db == nil {
		return errNotOpened
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_statements (run_id, file, ordinal, line, status, converted, remaining, diagnostics, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.File, rec.Ordinal, rec.Line, string(rec.Status),
		rec.Converted, rec.Remaining, rec.Diagnostics, nullString(rec.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to record statement: %w", err)
	}
	return nil
}

// ListStatements returns the statements of a run in recording order.
func (s *SQLiteStore) ListStatements(ctx context.Context, runID string) ([]StatementRecord, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT file, ordinal, line, status, converted, remaining, diagnostics, error
		FROM run_statements WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []StatementRecord
	for rows.Next() {
		var rec StatementRecord
		var status string
		var errMsg sql.NullString
		if err := rows.Scan(&rec.File, &rec.Ordinal, &rec.Line, &status,
			&rec.Converted, &rec.Remaining, &rec.Diagnostics, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		rec.Status = StatementStatus(status)
		rec.Error = errMsg.String
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	return recs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var status string
	var completedAt sql.NullTime
	var errMsg sql.NullString

	if err := row.Scan(&run.ID, &run.SourceDialect, &run.TargetDialect, &status,
		&run.StartedAt, &completedAt, &run.Files, &run.Statements,
		&run.Converted, &run.Failed, &run.Diagnostics, &errMsg); err != nil {
		return nil, err
	}

	run.Status = RunStatus(status)
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	run.Error = errMsg.String
	return run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
