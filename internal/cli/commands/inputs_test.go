package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ansijoin/internal/cli/testutil"
)

func TestCollectInputs(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"b.sql":           "SELECT 1 FROM dual;",
		"a.SQL":           "SELECT 2 FROM dual;",
		"notes.txt":       "not sql",
		"sub/c.sql":       "SELECT 3 FROM dual;",
		".hidden/d.sql":   "SELECT 4 FROM dual;",
		"single/only.sql": "SELECT 5 FROM dual;",
	})

	inputs, err := collectInputs([]string{dir, filepath.Join(dir, "single", "only.sql"), "-"})
	require.NoError(t, err)

	var rels []string
	for _, in := range inputs {
		rels = append(rels, filepath.ToSlash(in.Rel))
	}
	assert.Equal(t, []string{"a.SQL", "b.sql", "single/only.sql", "sub/c.sql", "only.sql", "stdin.sql"}, rels)
	assert.True(t, inputs[len(inputs)-1].isStdin())
}

func TestCollectInputsDefaultsToStdin(t *testing.T) {
	inputs, err := collectInputs(nil)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.True(t, inputs[0].isStdin())
}

func TestCollectInputsMissingFile(t *testing.T) {
	_, err := collectInputs([]string{filepath.Join(t.TempDir(), "missing.sql")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input")
}

func TestReadInput(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"q.sql": "SELECT 1 FROM dual;"})

	text, err := readInput(input{Path: filepath.Join(dir, "q.sql")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 FROM dual;", text)

	text, err = readInput(input{Path: stdinPath}, strings.NewReader("SELECT 2 FROM dual;"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2 FROM dual;", text)
}
