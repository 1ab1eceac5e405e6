package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ansijoin/pkg/convert"
)

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	s, err := newREPLSession(convert.Config{SourceDialect: "oracle"}, out, errOut)
	require.NoError(t, err)
	return s, out, errOut
}

func TestREPLConvertsOnTerminator(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "single line",
			lines: []string{"SELECT * FROM a, b WHERE a.id = b.id(+);"},
			want:  "SELECT * FROM a LEFT JOIN b ON a.id = b.id;\n\n",
		},
		{
			name:  "multi line",
			lines: []string{"SELECT *", "  FROM a, b", " WHERE a.id(+) = b.id;"},
			want:  "SELECT * FROM b LEFT JOIN a ON a.id = b.id;\n\n",
		},
		{
			name:  "slash line",
			lines: []string{"SELECT * FROM a, b WHERE a.id = b.id(+)", "/"},
			want:  "SELECT * FROM a LEFT JOIN b ON a.id = b.id;\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, errOut := newTestSession(t)

			for i, line := range tt.lines {
				assert.False(t, s.handleLine(context.Background(), line))
				if i < len(tt.lines)-1 {
					assert.Equal(t, replContinuePrompt, s.prompt())
				}
			}

			assert.Equal(t, tt.want, out.String())
			assert.Empty(t, errOut.String())
			assert.Equal(t, replPrompt, s.prompt())
		})
	}
}

func TestREPLReportsErrorsAndDiagnostics(t *testing.T) {
	s, _, errOut := newTestSession(t)

	s.handleLine(context.Background(), "SELECT * FROM a WHERE a.id = AND;")
	assert.Contains(t, errOut.String(), "Error: statement 1")

	errOut.Reset()
	s.handleLine(context.Background(), "SELECT * FROM a, b WHERE a.id = b.id(+) OR a.x = 1;")
	assert.Contains(t, errOut.String(), "warning")
}

func TestREPLDotCommands(t *testing.T) {
	s, out, errOut := newTestSession(t)
	ctx := context.Background()

	assert.False(t, s.handleLine(ctx, ".dialect"))
	assert.Contains(t, out.String(), "oracle -> oracle")

	assert.False(t, s.handleLine(ctx, ".dialect postgres"))
	assert.Equal(t, "postgres", s.conv.Target().Name)

	assert.False(t, s.handleLine(ctx, ".dialect sybase"))
	assert.Contains(t, errOut.String(), "unknown dialect")
	assert.Equal(t, "postgres", s.conv.Target().Name, "failed change keeps the converter")

	assert.False(t, s.handleLine(ctx, ".pretty on"))
	assert.True(t, s.cfg.Pretty)

	assert.False(t, s.handleLine(ctx, ".flatten maybe"))
	assert.Contains(t, errOut.String(), "Usage: .flatten on|off")

	assert.False(t, s.handleLine(ctx, ".bogus"))
	assert.Contains(t, errOut.String(), "Unknown command: .bogus")

	out.Reset()
	assert.False(t, s.handleLine(ctx, ".help"))
	assert.Contains(t, out.String(), ".dialect")

	assert.True(t, s.handleLine(ctx, ".quit"))
	assert.True(t, s.handleLine(ctx, ".exit"))
}

func TestREPLReset(t *testing.T) {
	s, out, _ := newTestSession(t)

	s.handleLine(context.Background(), "SELECT * FROM a, b")
	s.reset()
	s.handleLine(context.Background(), "SELECT 1 FROM dual;")

	assert.Equal(t, "SELECT 1 FROM dual;\n\n", out.String())
}
