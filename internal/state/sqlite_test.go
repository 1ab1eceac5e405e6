package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ansijoin/internal/testutil"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.InitSchema())
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)

	require.NoError(t, store.Open(":memory:"))
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_OpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	defer func() { _ = store.Close() }()

	require.NoError(t, store.InitSchema())
	assert.FileExists(t, path)
}

func TestSQLiteStore_InitSchema(t *testing.T) {
	store := setupTestStore(t)

	for _, table := range []string{"runs", "run_statements"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		require.NoError(t, err, "table %s should exist", table)
		_ = rows.Close()
	}

	version, err := store.GetMigrationVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Running migrations again is a no-op.
	assert.NoError(t, store.InitSchema())
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	run, err := store.CreateRun(ctx, "oracle", "postgres")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	require.NoError(t, store.RecordStatement(ctx, run.ID, StatementRecord{
		File: "a.sql", Ordinal: 1, Line: 1, Status: StatementConverted, Converted: 2,
	}))
	require.NoError(t, store.RecordStatement(ctx, run.ID, StatementRecord{
		File: "a.sql", Ordinal: 2, Line: 7, Status: StatementFailed, Error: "parse error",
	}))

	require.NoError(t, store.CompleteRun(ctx, run.ID, RunSummary{
		Status:     RunStatusCompleted,
		Files:      1,
		Statements: 2,
		Converted:  2,
		Failed:     1,
	}))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, "oracle", got.SourceDialect)
	assert.Equal(t, "postgres", got.TargetDialect)
	assert.Equal(t, 2, got.Statements)
	assert.Equal(t, 1, got.Failed)
	assert.NotNil(t, got.CompletedAt)
	assert.Empty(t, got.Error)

	stmts, err := store.ListStatements(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, StatementConverted, stmts[0].Status)
	assert.Equal(t, 7, stmts[1].Line)
	assert.Equal(t, "parse error", stmts[1].Error)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	var ids []string
	for range 3 {
		run, err := store.CreateRun(ctx, "oracle", "oracle")
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestSQLiteStore_UnknownRun(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = store.CompleteRun(ctx, "missing", RunSummary{Status: RunStatusCompleted})
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(nil)

	_, err := store.CreateRun(ctx, "oracle", "oracle")
	assert.ErrorIs(t, err, errNotOpened)
	assert.ErrorIs(t, store.RecordStatement(ctx, "id", StatementRecord{}), errNotOpened)
	_, err = store.ListRuns(ctx, 1)
	assert.ErrorIs(t, err, errNotOpened)
	assert.Error(t, store.InitSchema())
	assert.NoError(t, store.Close())
}
