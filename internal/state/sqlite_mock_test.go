package state

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_DatabaseErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		call      func(s *SQLiteStore) error
		errMsg    string
	}{
		{
			name: "create run",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO runs").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.CreateRun(ctx, "oracle", "oracle")
				return err
			},
			errMsg: "failed to create run",
		},
		{
			name: "complete run",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE runs SET").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				return s.CompleteRun(ctx, "id", RunSummary{Status: RunStatusFailed})
			},
			errMsg: "failed to complete run",
		},
		{
			name: "record statement",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO run_statements").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				return s.RecordStatement(ctx, "id", StatementRecord{File: "a.sql", Status: StatementConverted})
			},
			errMsg: "failed to record statement",
		},
		{
			name: "list runs",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM runs ORDER BY").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.ListRuns(ctx, 5)
				return err
			},
			errMsg: "failed to list runs",
		},
		{
			name: "list runs scan",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM runs ORDER BY").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("only-one-column"))
			},
			call: func(s *SQLiteStore) error {
				_, err := s.ListRuns(ctx, 5)
				return err
			},
			errMsg: "failed to scan run",
		},
		{
			name: "list statements",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM run_statements").WillReturnError(assert.AnError)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.ListStatements(ctx, "id")
				return err
			},
			errMsg: "failed to list statements",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setupMock(mock)

			err = tt.call(NewSQLiteStoreWithDB(db, nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLiteStore_CompleteRunRowsAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE runs SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewSQLiteStoreWithDB(db, nil).CompleteRun(context.Background(), "gone", RunSummary{Status: RunStatusCompleted})
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
