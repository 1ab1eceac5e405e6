package convert_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ansijoin/internal/testutil"
	"github.com/leapstack-labs/ansijoin/pkg/convert"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	"github.com/leapstack-labs/ansijoin/pkg/joinmark"
	"github.com/leapstack-labs/ansijoin/pkg/parser"
)

func newConverter(t *testing.T, cfg convert.Config) *convert.Converter {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	c, err := convert.New(cfg)
	require.NoError(t, err)
	return c
}

func TestConvertStatementScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "left outer join",
			input: "SELECT e.name, d.name FROM emp e, dept d WHERE e.deptno = d.deptno(+)",
			want:  "SELECT e.name, d.name FROM emp e LEFT JOIN dept d ON e.deptno = d.deptno",
		},
		{
			name:  "mark on the left side",
			input: "SELECT * FROM emp e, dept d WHERE d.deptno(+) = e.deptno",
			want:  "SELECT * FROM emp e LEFT JOIN dept d ON d.deptno = e.deptno",
		},
		{
			name:  "conditions merged into one join",
			input: "SELECT * FROM a, b WHERE a.id = b.id(+) AND a.k = b.k(+) AND a.x > 0",
			want:  "SELECT * FROM a LEFT JOIN b ON a.id = b.id AND a.k = b.k WHERE a.x > 0",
		},
		{
			name:  "full outer join",
			input: "SELECT * FROM a, b WHERE a.id(+) = b.id(+)",
			want:  "SELECT * FROM a FULL JOIN b ON a.id = b.id",
		},
		{
			name:  "ansi input unchanged",
			input: "SELECT * FROM a LEFT JOIN b ON a.id = b.id WHERE a.x = 1",
			want:  "SELECT * FROM a LEFT JOIN b ON a.id = b.id WHERE a.x = 1",
		},
		{
			name:  "mark against a constant is kept",
			input: "SELECT * FROM a, b WHERE a.id = b.id(+) AND b.status(+) = 'A'",
			want:  "SELECT * FROM a LEFT JOIN b ON a.id = b.id WHERE b.status(+) = 'A'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert.ConvertStatement(tt.input, "oracle")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertStatementUnknownDialect(t *testing.T) {
	_, err := convert.ConvertStatement("SELECT 1 FROM dual", "sybase")
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)
}

func TestConvertStatementParseError(t *testing.T) {
	_, err := convert.ConvertStatement("SELECT FROM", "oracle")
	assert.ErrorIs(t, err, parser.ErrParse)
}

func TestConverterResult(t *testing.T) {
	c := newConverter(t, convert.Config{})

	res, err := c.ConvertStatement(context.Background(),
		"SELECT * FROM a, b WHERE a.id = b.id(+) AND NVL(b.x(+), 0) = 1")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Marks)
	assert.Equal(t, 1, res.Converted)
	assert.Equal(t, 1, res.Remaining)
	assert.True(t, res.NeedsReview())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, joinmark.KindNonConvertible, res.Diagnostics[0].Kind)
	require.NotNil(t, res.Stmt, "rewritten tree")
}

func TestConverterResultClean(t *testing.T) {
	c := newConverter(t, convert.Config{})

	res, err := c.ConvertStatement(context.Background(), "SELECT * FROM a, b WHERE a.id = b.id(+)")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Marks)
	assert.Equal(t, 1, res.Converted)
	assert.Zero(t, res.Remaining)
	assert.Empty(t, res.Diagnostics)
	assert.False(t, res.NeedsReview())
}

func TestConverterCommentFollowsMovedPredicate(t *testing.T) {
	c := newConverter(t, convert.Config{})

	res, err := c.ConvertStatement(context.Background(),
		"SELECT e.name, d.name FROM emp e, dept d\n"+
			"WHERE e.dept_id = d.id(+) -- keep employees without a department\n"+
			"AND e.active = 1")
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT e.name, d.name FROM emp e LEFT JOIN dept d ON e.dept_id = d.id -- keep employees without a department\n"+
			"WHERE e.active = 1",
		res.SQL)
}

func TestConverterTargetDialect(t *testing.T) {
	c := newConverter(t, convert.Config{SourceDialect: "oracle", TargetDialect: "postgres"})

	res, err := c.ConvertStatement(context.Background(),
		"SELECT e.name, NVL(d.name, '-') FROM emp e, dept d WHERE e.deptno = d.deptno(+) FETCH FIRST 5 ROWS ONLY")
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT e.name, COALESCE(d.name, '-') FROM emp AS e LEFT JOIN dept AS d ON e.deptno = d.deptno LIMIT 5",
		res.SQL)
	assert.False(t, res.NeedsReview())
}

func TestConverterFlatten(t *testing.T) {
	c := newConverter(t, convert.Config{Flatten: true})

	res, err := c.ConvertStatement(context.Background(),
		"SELECT e.name FROM emp e, (SELECT id FROM dept) d WHERE e.dept_id = d.id(+)")
	require.NoError(t, err)

	assert.Equal(t, "WITH d AS (SELECT id FROM dept) SELECT e.name FROM emp e LEFT JOIN d ON e.dept_id = d.id", res.SQL)
}

func TestConverterPretty(t *testing.T) {
	c := newConverter(t, convert.Config{Pretty: true})

	res, err := c.ConvertStatement(context.Background(), "SELECT e.name FROM emp e, dept d WHERE e.deptno = d.deptno(+)")
	require.NoError(t, err)

	assert.Equal(t, "SELECT\n  e.name\nFROM emp e\nLEFT JOIN dept d\n  ON e.deptno = d.deptno", res.SQL)
}

func TestConverterCancelledContext(t *testing.T) {
	c := newConverter(t, convert.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ConvertStatement(ctx, "SELECT 1 FROM dual")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsUnknownTarget(t *testing.T) {
	_, err := convert.New(convert.Config{TargetDialect: "nope"})
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)
}
