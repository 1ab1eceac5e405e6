package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ansijoin/internal/cli/output"
	"github.com/leapstack-labs/ansijoin/internal/cli/testutil"
)

func TestCheck(t *testing.T) {
	loadTestConfig(t, "output:\n  format: json\n")
	dir := testutil.WriteFiles(t, map[string]string{
		"clean.sql":  "SELECT * FROM a JOIN b ON a.id = b.id;\n",
		"marked.sql": "SELECT * FROM a, b WHERE a.id = b.id(+) AND a.x = b.x(+);\nSELECT * FROM a, b WHERE a.id = b.id(+) OR a.x = 1;\n",
	})

	res := testutil.ExecuteCommand(NewCheckCommand(), "", dir)
	require.ErrorIs(t, res.Err, ErrJoinMarksFound)

	var report output.ConversionReport
	require.NoError(t, json.Unmarshal([]byte(res.Out), &report))
	require.Len(t, report.Files, 2)

	clean, marked := report.Files[0], report.Files[1]
	assert.Equal(t, 0, clean.Marks)
	assert.Equal(t, 2, marked.Statements)
	assert.Equal(t, 3, marked.Marks)
	assert.Equal(t, 1, marked.Remaining)
	assert.Len(t, marked.Diagnostics, 1)
	assert.Equal(t, 2, marked.Diagnostics[0].Line)
	assert.Empty(t, marked.SQL, "check reports never carry SQL")
}

func TestCheckClean(t *testing.T) {
	loadTestConfig(t, "")
	dir := testutil.WriteFiles(t, map[string]string{
		"clean.sql": "SELECT * FROM a LEFT JOIN b ON a.id = b.id;\n",
	})

	res := testutil.ExecuteCommand(NewCheckCommand(), "", dir)

	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "| Total")
	testutil.AssertNoANSI(t, res.Out)
}

func TestCheckUnparsable(t *testing.T) {
	loadTestConfig(t, "")

	res := testutil.ExecuteCommand(NewCheckCommand(), "SELECT FROM WHERE;")

	require.ErrorIs(t, res.Err, ErrJoinMarksFound)
	assert.Contains(t, res.ErrOut, "<stdin>")
}
