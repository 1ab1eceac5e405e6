// Package state keeps the conversion journal: one row per convert run and
// one row per statement it touched, stored in SQLite.
package state

import (
	"context"
	"time"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StatementStatus is the outcome of converting one statement.
type StatementStatus string

// Statement statuses.
const (
	// StatementConverted means join marks were rewritten and none remain.
	StatementConverted StatementStatus = "converted"
	// StatementUnchanged means the statement had no join marks.
	StatementUnchanged StatementStatus = "unchanged"
	// StatementReview means marks remain or warnings were emitted.
	StatementReview StatementStatus = "review"
	// StatementFailed means the statement was emitted as written.
	StatementFailed StatementStatus = "failed"
)

// Run is one invocation of the convert command.
type Run struct {
	ID            string
	SourceDialect string
	TargetDialect string
	Status        RunStatus
	StartedAt     time.Time
	CompletedAt   *time.Time
	Files         int
	Statements    int
	Converted     int
	Failed        int
	Diagnostics   int
	Error         string
}

// RunSummary holds the totals recorded when a run completes.
type RunSummary struct {
	Status      RunStatus
	Files       int
	Statements  int
	Converted   int
	Failed      int
	Diagnostics int
	Error       string
}

// StatementRecord is the journal entry of one statement.
type StatementRecord struct {
	File        string
	Ordinal     int
	Line        int
	Status      StatementStatus
	Converted   int
	Remaining   int
	Diagnostics int
	Error       string
}

// Store is the journal persistence interface.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	CreateRun(ctx context.Context, sourceDialect, targetDialect string) (*Run, error)
	CompleteRun(ctx context.Context, id string, summary RunSummary) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	RecordStatement(ctx context.Context, runID string, rec StatementRecord) error
	ListStatements(ctx context.Context, runID string) ([]StatementRecord, error)
}
