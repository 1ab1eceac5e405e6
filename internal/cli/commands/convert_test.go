package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ansijoin/internal/cli/output"
	"github.com/leapstack-labs/ansijoin/internal/cli/testutil"
	"github.com/leapstack-labs/ansijoin/internal/state"
)

const (
	markedSQL    = "SELECT * FROM a, b WHERE a.id = b.id(+);\n"
	convertedSQL = "SELECT * FROM a LEFT JOIN b ON a.id = b.id;\n"
)

func TestConvertStdin(t *testing.T) {
	loadTestConfig(t, "pretty: false\n")

	res := testutil.ExecuteCommand(NewConvertCommand(), markedSQL)

	require.NoError(t, res.Err)
	assert.Equal(t, convertedSQL, res.Out)
	assert.Empty(t, res.ErrOut)
}

func TestConvertTargetDialect(t *testing.T) {
	loadTestConfig(t, "pretty: false\ntarget_dialect: postgres\n")

	res := testutil.ExecuteCommand(NewConvertCommand(),
		"SELECT e.name FROM emp e, dept d WHERE e.deptno = d.deptno(+);")

	require.NoError(t, res.Err)
	assert.Equal(t, "SELECT e.name FROM emp AS e LEFT JOIN dept AS d ON e.deptno = d.deptno;\n", res.Out)
}

func TestConvertMultipleFilesToStdout(t *testing.T) {
	loadTestConfig(t, "pretty: false\n")
	dir := testutil.WriteFiles(t, map[string]string{
		"one.sql": markedSQL,
		"two.sql": "SELECT 1 FROM dual;\n",
	})

	res := testutil.ExecuteCommand(NewConvertCommand(), "", dir)

	require.NoError(t, res.Err)
	assert.Equal(t,
		"-- "+filepath.Join(dir, "one.sql")+"\n"+convertedSQL+
			"-- "+filepath.Join(dir, "two.sql")+"\n"+"SELECT 1 FROM dual;\n",
		res.Out)
}

func TestConvertWrite(t *testing.T) {
	loadTestConfig(t, "pretty: false\n")
	dir := testutil.WriteFiles(t, map[string]string{
		"q.sql":    markedSQL,
		"done.sql": "SELECT 1 FROM dual;\n",
	})

	res := testutil.ExecuteCommand(NewConvertCommand(), "", "--write", dir)

	require.NoError(t, res.Err)
	assert.Equal(t, convertedSQL, testutil.ReadFile(t, filepath.Join(dir, "q.sql")))
	assert.Equal(t, "SELECT 1 FROM dual;\n", testutil.ReadFile(t, filepath.Join(dir, "done.sql")))
	assert.Contains(t, res.Out, "1 converted")
	assert.Contains(t, res.Out, "done.sql: unchanged")
	assert.Contains(t, res.Out, "2 file(s), 2 statement(s), 1 converted, 0 remaining, 0 failed")
}

func TestConvertOutDir(t *testing.T) {
	loadTestConfig(t, "pretty: false\n")
	dir := testutil.WriteFiles(t, map[string]string{"reports/q.sql": markedSQL})
	outDir := filepath.Join(t.TempDir(), "out")

	res := testutil.ExecuteCommand(NewConvertCommand(), "", "--out-dir", outDir, dir)

	require.NoError(t, res.Err)
	assert.Equal(t, convertedSQL, testutil.ReadFile(t, filepath.Join(outDir, "reports", "q.sql")))
	assert.Equal(t, markedSQL, testutil.ReadFile(t, filepath.Join(dir, "reports", "q.sql")))
}

func TestConvertWriteAndOutDirConflict(t *testing.T) {
	loadTestConfig(t, "pretty: false\n")

	res := testutil.ExecuteCommand(NewConvertCommand(), "", "--write", "--out-dir", t.TempDir(), t.TempDir())

	require.Error(t, res.Err)
}

func TestConvertRejectsWritingStdin(t *testing.T) {
	loadTestConfig(t, "pretty: false\n")

	res := testutil.ExecuteCommand(NewConvertCommand(), markedSQL, "--write")

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "standard input")
}

func TestConvertFailedStatement(t *testing.T) {
	loadTestConfig(t, "pretty: false\n")

	res := testutil.ExecuteCommand(NewConvertCommand(),
		markedSQL+"SELECT * FROM a WHERE a.id = AND;\n")

	require.ErrorIs(t, res.Err, ErrConversionFailed)
	assert.Equal(t, convertedSQL+"SELECT * FROM a WHERE a.id = AND;\n", res.Out)
	assert.Contains(t, res.ErrOut, "<stdin>: statement 2 at 2:1")
}

func TestConvertFailOnDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"reported only", "pretty: false\n", false},
		{"fails", "pretty: false\nfail_on_diagnostics: true\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loadTestConfig(t, tt.yaml)

			res := testutil.ExecuteCommand(NewConvertCommand(),
				"SELECT * FROM a, b WHERE a.id = b.id(+) OR a.x = 1;")

			assert.Contains(t, res.ErrOut, "warning")
			if tt.wantErr {
				assert.ErrorIs(t, res.Err, ErrNeedsReview)
			} else {
				assert.NoError(t, res.Err)
			}
		})
	}
}

func TestConvertJSONReport(t *testing.T) {
	loadTestConfig(t, "pretty: false\noutput:\n  format: json\n")

	res := testutil.ExecuteCommand(NewConvertCommand(), markedSQL)
	require.NoError(t, res.Err)

	var report output.ConversionReport
	require.NoError(t, json.Unmarshal([]byte(res.Out), &report))

	assert.Equal(t, "oracle", report.Source)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "<stdin>", report.Files[0].Path)
	assert.Equal(t, convertedSQL, report.Files[0].SQL)
	assert.Equal(t, output.Summary{Files: 1, Statements: 1, Marks: 1, Converted: 1}, report.Summary)
}

func TestConvertJournal(t *testing.T) {
	cfg := loadTestConfig(t, "pretty: false\njournal:\n  enabled: true\n  path: journal.db\n")
	dir := testutil.WriteFiles(t, map[string]string{
		"q.sql": markedSQL + "SELECT * FROM a WHERE a.id = AND;\n",
	})

	res := testutil.ExecuteCommand(NewConvertCommand(), "", filepath.Join(dir, "q.sql"))
	require.ErrorIs(t, res.Err, ErrConversionFailed)

	store, err := openStore(cfg.Journal.Path, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, 2, runs[0].Statements)
	assert.Equal(t, 1, runs[0].Failed)

	stmts, err := store.ListStatements(ctx, runs[0].ID)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, state.StatementConverted, stmts[0].Status)
	assert.Equal(t, state.StatementFailed, stmts[1].Status)
	assert.Equal(t, 2, stmts[1].Line)

	history := testutil.ExecuteCommand(NewHistoryCommand(), "")
	require.NoError(t, history.Err)
	assert.Contains(t, history.Out, runs[0].ID)

	detail := testutil.ExecuteCommand(NewHistoryCommand(), "", runs[0].ID)
	require.NoError(t, detail.Err)
	assert.Contains(t, detail.Out, "q.sql")
	assert.Contains(t, detail.Out, "failed")
}

func TestHistoryWithoutJournal(t *testing.T) {
	loadTestConfig(t, "journal:\n  path: missing/journal.db\n")

	res := testutil.ExecuteCommand(NewHistoryCommand(), "")

	require.NoError(t, res.Err)
	assert.Contains(t, res.ErrOut, "No journal")
}

func TestWriteIfChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "q.sql")

	written, err := writeIfChanged(path, "", "SELECT 1 FROM dual;\n", false)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = writeIfChanged(path, "SELECT 1 FROM dual;\n", "SELECT 1 FROM dual;\n", true)
	require.NoError(t, err)
	assert.False(t, written, "unchanged in-place rewrite is skipped")
}
