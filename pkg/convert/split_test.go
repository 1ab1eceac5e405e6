package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ansijoin/pkg/convert"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

func texts(frags []convert.Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Text
	}
	return out
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "semicolons",
			input: "SELECT 1 FROM dual; SELECT 2 FROM dual;",
			want:  []string{"SELECT 1 FROM dual", "SELECT 2 FROM dual"},
		},
		{
			name:  "missing final terminator",
			input: "SELECT 1 FROM dual;\nSELECT 2 FROM dual",
			want:  []string{"SELECT 1 FROM dual", "SELECT 2 FROM dual"},
		},
		{
			name:  "semicolon in string literal",
			input: "SELECT ';' FROM dual; SELECT 2 FROM dual",
			want:  []string{"SELECT ';' FROM dual", "SELECT 2 FROM dual"},
		},
		{
			name:  "semicolon in quoted identifier",
			input: `SELECT "a;b" FROM t`,
			want:  []string{`SELECT "a;b" FROM t`},
		},
		{
			name:  "semicolon in comment",
			input: "SELECT 1 FROM dual -- ; not here\n;",
			want:  []string{"SELECT 1 FROM dual -- ; not here\n"},
		},
		{
			name:  "sqlplus slash lines",
			input: "SELECT a FROM t\n/\nSELECT b FROM t\n  /  \n",
			want:  []string{"SELECT a FROM t\n", "SELECT b FROM t\n  "},
		},
		{
			name:  "division is not a terminator",
			input: "SELECT a\n  / b FROM t",
			want:  []string{"SELECT a\n  / b FROM t"},
		},
		{
			name:  "empty statements are dropped",
			input: ";;\n  ; SELECT 1 FROM dual;;",
			want:  []string{"SELECT 1 FROM dual"},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, texts(convert.SplitStatements(tt.input)))
		})
	}
}

func TestSplitStatementsPositions(t *testing.T) {
	frags := convert.SplitStatements("SELECT a FROM t\n/\n\n  SELECT b FROM t;")
	require.Len(t, frags, 2)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, frags[0].Pos)
	assert.Equal(t, token.Position{Line: 4, Column: 3, Offset: 21}, frags[1].Pos)
}

func TestSplitStatementsKeepsTrailingComments(t *testing.T) {
	frags := convert.SplitStatements("SELECT 1 FROM dual;\n-- done\n")
	require.Len(t, frags, 2)

	assert.False(t, frags[0].Blank)
	assert.True(t, frags[1].Blank)
	assert.Equal(t, "-- done\n", frags[1].Text)
}

func TestFragmentTranslate(t *testing.T) {
	frag := convert.Fragment{Pos: token.Position{Line: 3, Column: 5, Offset: 40}}

	tests := []struct {
		name string
		in   token.Position
		want token.Position
	}{
		{"first line shifts column", token.Position{Line: 1, Column: 2, Offset: 1}, token.Position{Line: 3, Column: 6, Offset: 41}},
		{"later line keeps column", token.Position{Line: 2, Column: 4, Offset: 10}, token.Position{Line: 4, Column: 4, Offset: 50}},
		{"invalid stays invalid", token.Position{}, token.Position{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, frag.Translate(tt.in))
		})
	}
}
