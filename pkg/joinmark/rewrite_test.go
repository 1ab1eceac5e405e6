package joinmark_test

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ansijoin/internal/testutil"
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialects/oracle"
	"github.com/leapstack-labs/ansijoin/pkg/format"
	"github.com/leapstack-labs/ansijoin/pkg/joinmark"
)

func parse(t *testing.T, sql string) *core.SelectStmt {
	t.Helper()
	return testutil.MustParse(t, sql, oracle.Oracle)
}

func render(stmt *core.SelectStmt) string {
	return format.Render(stmt, oracle.Oracle, false)
}

func rewrite(t *testing.T, sql string, opts joinmark.Options) *joinmark.Result {
	t.Helper()
	if opts.Dialect == nil {
		opts.Dialect = oracle.Oracle
	}
	if opts.Logger == nil {
		opts.Logger = testutil.NewTestLogger(t)
	}
	res, err := joinmark.Rewrite(parse(t, sql), opts)
	require.NoError(t, err)
	return res
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		converted int
		remaining int
		warnings  int
	}{
		{
			name:      "single left join",
			input:     "SELECT * FROM a, b WHERE a.id = b.id(+)",
			want:      "SELECT * FROM a LEFT JOIN b ON a.id = b.id",
			converted: 1,
		},
		{
			name:      "mark on the left operand",
			input:     "SELECT * FROM a, b WHERE b.id(+) = a.id",
			want:      "SELECT * FROM a LEFT JOIN b ON b.id = a.id",
			converted: 1,
		},
		{
			name:      "chain of left joins",
			input:     "SELECT * FROM a, b, c WHERE a.id = b.id(+) AND b.x = c.x(+)",
			want:      "SELECT * FROM a LEFT JOIN b ON a.id = b.id LEFT JOIN c ON b.x = c.x",
			converted: 2,
		},
		{
			name:      "predicates on one table are merged",
			input:     "SELECT * FROM a, b WHERE a.id = b.id(+) AND a.y = b.y(+)",
			want:      "SELECT * FROM a LEFT JOIN b ON a.id = b.id AND a.y = b.y",
			converted: 2,
		},
		{
			name:      "remaining filter is compacted",
			input:     "SELECT * FROM a, b WHERE a.x = 1 AND a.id = b.id(+) AND a.y = 2",
			want:      "SELECT * FROM a LEFT JOIN b ON a.id = b.id WHERE a.x = 1 AND a.y = 2",
			converted: 1,
		},
		{
			name:      "parenthesized predicate",
			input:     "SELECT * FROM a, b WHERE (a.id = b.id(+)) AND a.x = 1",
			want:      "SELECT * FROM a LEFT JOIN b ON a.id = b.id WHERE a.x = 1",
			converted: 1,
		},
		{
			name:      "parenthesized conjunction",
			input:     "SELECT * FROM a, b WHERE a.x = 1 AND (a.id = b.id(+) AND a.y = b.y(+))",
			want:      "SELECT * FROM a LEFT JOIN b ON a.id = b.id AND a.y = b.y WHERE a.x = 1",
			converted: 2,
		},
		{
			name:      "aliases and normalization",
			input:     "SELECT e.name, d.name FROM emp e, dept d WHERE e.dept_id = D.id(+)",
			want:      "SELECT e.name, d.name FROM emp e LEFT JOIN dept d ON e.dept_id = D.id",
			converted: 1,
		},
		{
			name:      "unmarked tables stay comma joined",
			input:     "SELECT * FROM a, b, c WHERE a.id = b.id(+) AND a.z = c.z",
			want:      "SELECT * FROM a LEFT JOIN b ON a.id = b.id, c WHERE a.z = c.z",
			converted: 1,
		},
		{
			name:      "both sides marked",
			input:     "SELECT * FROM a, b WHERE a.id(+) = b.id(+)",
			want:      "SELECT * FROM a FULL JOIN b ON a.id = b.id",
			converted: 1,
		},
		{
			name:      "base table becomes the outer side",
			input:     "SELECT * FROM a, b WHERE a.id(+) = b.id",
			want:      "SELECT * FROM b LEFT JOIN a ON a.id = b.id",
			converted: 1,
		},
		{
			name:      "base table replaced by first comma joined table",
			input:     "SELECT * FROM emp e, dept d, loc l WHERE e.dept_id(+) = d.id AND d.loc_id = l.id",
			want:      "SELECT * FROM dept d CROSS JOIN loc l LEFT JOIN emp e ON e.dept_id = d.id WHERE d.loc_id = l.id",
			converted: 1,
		},
		{
			name:      "comma join before a converted join becomes a cross join",
			input:     "SELECT * FROM a, b, c WHERE a.id = c.id(+)",
			want:      "SELECT * FROM a CROSS JOIN b LEFT JOIN c ON a.id = c.id",
			converted: 1,
		},
		{
			name:      "cross join ahead of the former base table",
			input:     "SELECT * FROM a, b, c WHERE a.id(+) = b.id AND a.k(+) = c.k",
			want:      "SELECT * FROM b CROSS JOIN c LEFT JOIN a ON a.id = b.id AND a.k = c.k",
			converted: 2,
		},
		{
			name:      "nested query is converted first",
			input:     "SELECT x.id FROM (SELECT a.id FROM a, b WHERE a.id = b.id(+)) x, c WHERE x.id = c.id(+)",
			want:      "SELECT x.id FROM (SELECT a.id FROM a LEFT JOIN b ON a.id = b.id) x LEFT JOIN c ON x.id = c.id",
			converted: 2,
		},
		{
			name:      "subquery in where",
			input:     "SELECT a.id FROM a WHERE a.id IN (SELECT b.id FROM b, c WHERE b.id = c.id(+))",
			want:      "SELECT a.id FROM a WHERE a.id IN (SELECT b.id FROM b LEFT JOIN c ON b.id = c.id)",
			converted: 1,
		},
		{
			name:      "both arms of a set operation",
			input:     "SELECT a.id FROM a, b WHERE a.id = b.id(+) MINUS SELECT c.id FROM c, d WHERE c.id = d.id(+)",
			want:      "SELECT a.id FROM a LEFT JOIN b ON a.id = b.id MINUS SELECT c.id FROM c LEFT JOIN d ON c.id = d.id",
			converted: 2,
		},
		{
			name:      "common table expression",
			input:     "WITH x AS (SELECT a.id FROM a, b WHERE a.id = b.id(+)) SELECT * FROM x",
			want:      "WITH x AS (SELECT a.id FROM a LEFT JOIN b ON a.id = b.id) SELECT * FROM x",
			converted: 1,
		},
		{
			name:      "mark compared with a constant",
			input:     "SELECT * FROM a, b WHERE a.id = b.id(+) AND b.status(+) = 'X'",
			want:      "SELECT * FROM a LEFT JOIN b ON a.id = b.id WHERE b.status(+) = 'X'",
			converted: 1,
			remaining: 1,
			warnings:  1,
		},
		{
			name:      "mark under OR",
			input:     "SELECT * FROM a, b WHERE a.id = b.id(+) OR a.x = 1",
			want:      "SELECT * FROM a, b WHERE a.id = b.id(+) OR a.x = 1",
			remaining: 1,
			warnings:  1,
		},
		{
			name:      "mark inside a function call",
			input:     "SELECT * FROM a, b WHERE a.id = NVL(b.id(+), 0)",
			want:      "SELECT * FROM a, b WHERE a.id = NVL(b.id(+), 0)",
			remaining: 1,
			warnings:  1,
		},
		{
			name:      "unqualified mark with several tables",
			input:     "SELECT * FROM a, b WHERE a.id = id(+)",
			want:      "SELECT * FROM a, b WHERE a.id = id(+)",
			remaining: 1,
			warnings:  1,
		},
		{
			name:      "qualifier names no table",
			input:     "SELECT * FROM a, b WHERE a.id = z.id(+)",
			want:      "SELECT * FROM a, b WHERE a.id = z.id(+)",
			remaining: 1,
			warnings:  1,
		},
		{
			name:      "target already joined with ON",
			input:     "SELECT * FROM a JOIN b ON a.id = b.id WHERE a.x = b.x(+)",
			want:      "SELECT * FROM a JOIN b ON a.id = b.id WHERE a.x = b.x(+)",
			remaining: 1,
			warnings:  1,
		},
		{
			name:      "mark outside the where clause",
			input:     "SELECT b.x(+) FROM a, b WHERE a.id = b.id(+)",
			want:      "SELECT b.x(+) FROM a LEFT JOIN b ON a.id = b.id",
			converted: 1,
			remaining: 1,
			warnings:  1,
		},
		{
			name:  "no marks",
			input: "SELECT a.id FROM a JOIN b ON a.id = b.id WHERE a.x = 1",
			want:  "SELECT a.id FROM a JOIN b ON a.id = b.id WHERE a.x = 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := rewrite(t, tt.input, joinmark.Options{})
			assert.Equal(t, tt.want, render(res.Stmt))
			assert.Equal(t, tt.converted, res.Converted, "converted")
			assert.Equal(t, tt.remaining, res.Remaining, "remaining")

			warnings := 0
			for _, d := range res.Diagnostics {
				if d.Kind == joinmark.KindNonConvertible {
					warnings++
					assert.Equal(t, core.SeverityWarning, d.Severity)
					assert.True(t, d.Pos.IsValid(), "diagnostic has a position")
				}
			}
			assert.Equal(t, tt.warnings, warnings, "warnings")
			assert.Equal(t, tt.remaining > 0, res.NeedsReview())
		})
	}
}

func TestRewriteUnresolvableBaseTable(t *testing.T) {
	stmt := parse(t, "SELECT * FROM a, b WHERE a.id(+) = b.id AND a.x = b.x(+)")

	res, err := joinmark.Rewrite(stmt, joinmark.Options{Dialect: oracle.Oracle})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, joinmark.ErrUnresolvableBaseTable)

	var baseErr *joinmark.BaseTableError
	require.True(t, errors.As(err, &baseErr))
	assert.Equal(t, 1, baseErr.Query)
	assert.Equal(t, "A", baseErr.Table)
	assert.Equal(t, 1, baseErr.Pos.Line)
	assert.Equal(t, 15, baseErr.Pos.Column)
	assert.Contains(t, err.Error(), "cannot determine replacement base table")
}

func TestRewriteBaseNeverReplacedByConditionedJoin(t *testing.T) {
	for _, sql := range []string{
		"SELECT * FROM a JOIN c ON a.k = c.k WHERE a.id(+) = c.id",
		"SELECT * FROM a LEFT JOIN c ON a.k = c.k WHERE a.id(+) = c.id",
		"SELECT * FROM a JOIN c USING (k) WHERE a.id(+) = c.id",
	} {
		t.Run(sql, func(t *testing.T) {
			_, err := joinmark.Rewrite(parse(t, sql), joinmark.Options{Dialect: oracle.Oracle})
			assert.ErrorIs(t, err, joinmark.ErrUnresolvableBaseTable)
		})
	}
}

func TestRewriteUnresolvableInNestedQuery(t *testing.T) {
	stmt := parse(t, "SELECT * FROM t WHERE t.id IN (SELECT a.id FROM a, b WHERE a.id(+) = b.id AND a.x = b.x(+))")

	_, err := joinmark.Rewrite(stmt, joinmark.Options{Dialect: oracle.Oracle})

	var baseErr *joinmark.BaseTableError
	require.True(t, errors.As(err, &baseErr))
	assert.Equal(t, 2, baseErr.Query)
}

func TestRewriteAmbiguousMerge(t *testing.T) {
	res := rewrite(t, "SELECT * FROM a, b WHERE a.id(+) = b.id(+) AND a.x = b.x(+)", joinmark.Options{})

	assert.Equal(t, "SELECT * FROM a FULL JOIN b ON a.id = b.id AND a.x = b.x", render(res.Stmt))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, joinmark.KindAmbiguousMerge, res.Diagnostics[0].Kind)
	assert.Equal(t, core.SeverityInfo, res.Diagnostics[0].Severity)
	assert.False(t, res.NeedsReview())
}

func TestRewriteReorderJoins(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		reorder bool
		want    string
	}{
		{
			name:  "declared order is kept by default",
			input: "SELECT * FROM a, c, b WHERE a.id = b.id(+) AND b.x = c.x(+)",
			want:  "SELECT * FROM a LEFT JOIN c ON b.x = c.x LEFT JOIN b ON a.id = b.id",
		},
		{
			name:    "joins follow the tables they reference",
			input:   "SELECT * FROM a, c, b WHERE a.id = b.id(+) AND b.x = c.x(+)",
			reorder: true,
			want:    "SELECT * FROM a LEFT JOIN b ON a.id = b.id LEFT JOIN c ON b.x = c.x",
		},
		{
			name:    "reordered joins keep cross joins ahead of explicit joins",
			input:   "SELECT * FROM emp e, dept d, loc l WHERE e.dept_id(+) = d.id AND d.loc_id = l.id",
			reorder: true,
			want:    "SELECT * FROM dept d CROSS JOIN loc l LEFT JOIN emp e ON e.dept_id = d.id WHERE d.loc_id = l.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := rewrite(t, tt.input, joinmark.Options{ReorderJoins: tt.reorder})
			assert.Equal(t, tt.want, render(res.Stmt))
		})
	}
}

func TestRewriteDoesNotModifyInput(t *testing.T) {
	const sql = "SELECT * FROM a, b WHERE a.id = b.id(+) AND a.x = 1"
	stmt := parse(t, sql)
	before := render(stmt)

	_, err := joinmark.Rewrite(stmt, joinmark.Options{})
	require.NoError(t, err)

	assert.Equal(t, before, render(stmt))
	assert.Equal(t, 1, joinmark.CountJoinMarks(stmt))
}

func TestRewriteWithoutDialectFoldsCase(t *testing.T) {
	stmt := parse(t, "SELECT * FROM emp E, dept D WHERE e.dept_id = d.id(+)")

	res, err := joinmark.Rewrite(stmt, joinmark.Options{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM emp E LEFT JOIN dept D ON e.dept_id = d.id", render(res.Stmt))
}

// Properties

var convertible = []string{
	"SELECT * FROM a, b WHERE a.id = b.id(+)",
	"SELECT * FROM a, b, c WHERE a.id = b.id(+) AND b.x = c.x(+)",
	"SELECT * FROM a, b WHERE a.id = b.id(+) AND a.y = b.y(+) AND a.z > 3",
	"SELECT * FROM a, b WHERE a.id(+) = b.id",
	"SELECT * FROM a, b WHERE a.id(+) = b.id(+)",
	"SELECT x.id FROM (SELECT a.id FROM a, b WHERE a.id = b.id(+)) x, c WHERE x.id = c.id(+)",
	"SELECT a.id FROM a, b WHERE a.id = b.id(+) UNION ALL SELECT c.id FROM c, d WHERE c.id = d.id(+)",
	"SELECT * FROM emp e, dept d, loc l WHERE e.dept_id(+) = d.id AND d.loc_id = l.id",
}

var ansi = []string{
	"SELECT * FROM a LEFT JOIN b ON a.id = b.id",
	"SELECT a.x, COUNT(*) FROM a JOIN b USING (id) WHERE a.y = 1 GROUP BY a.x HAVING COUNT(*) > 1",
	"SELECT * FROM a, b WHERE a.id = b.id ORDER BY a.id FETCH FIRST 5 ROWS ONLY",
	"WITH x AS (SELECT 1 AS n FROM dual) SELECT n FROM x",
}

func TestRewriteLeavesANSIUnchanged(t *testing.T) {
	for _, sql := range ansi {
		res := rewrite(t, sql, joinmark.Options{})
		assert.Equal(t, render(parse(t, sql)), render(res.Stmt), sql)
		assert.Zero(t, res.Converted, sql)
		assert.Empty(t, res.Diagnostics, sql)
	}
}

func TestRewriteIsIdempotent(t *testing.T) {
	for _, sql := range convertible {
		first := rewrite(t, sql, joinmark.Options{})
		second, err := joinmark.Rewrite(first.Stmt, joinmark.Options{Dialect: oracle.Oracle})
		require.NoError(t, err)
		assert.Equal(t, render(first.Stmt), render(second.Stmt), sql)
		assert.Zero(t, second.Converted, sql)
	}
}

func TestRewriteNeverDropsJoins(t *testing.T) {
	countJoins := func(stmt *core.SelectStmt) int {
		n := 0
		for _, sc := range core.SelectCores(stmt) {
			if sc.From != nil {
				n += len(sc.From.Joins)
			}
		}
		return n
	}

	for _, sql := range convertible {
		stmt := parse(t, sql)
		res := rewrite(t, sql, joinmark.Options{})
		assert.Equal(t, countJoins(stmt), countJoins(res.Stmt), sql)
	}
}

func TestRewriteEliminatesMarks(t *testing.T) {
	for _, sql := range convertible {
		res := rewrite(t, sql, joinmark.Options{})
		assert.Zero(t, res.Remaining, sql)
		assert.Zero(t, joinmark.CountJoinMarks(res.Stmt), sql)
		assert.False(t, res.NeedsReview(), sql)
	}
}

func TestRewriteOutputRoundTrips(t *testing.T) {
	for _, sql := range convertible {
		for _, pretty := range []bool{false, true} {
			res := rewrite(t, sql, joinmark.Options{})
			first := format.Render(res.Stmt, oracle.Oracle, pretty)
			second := format.Render(parse(t, first), oracle.Oracle, pretty)
			assert.Equal(t, first, second, sql)
		}
	}
}

func TestRewriteConjoinsInAnyOrder(t *testing.T) {
	preds := []string{"a.id = b.id(+)", "a.y = b.y(+)", "a.z = b.z(+)"}
	want := []string{"a.id = b.id", "a.y = b.y", "a.z = b.z"}

	orders := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, order := range orders {
		terms := make([]string, len(order))
		for i, idx := range order {
			terms[i] = preds[idx]
		}
		sql := "SELECT * FROM a, b WHERE " + strings.Join(terms, " AND ")

		out := render(rewrite(t, sql, joinmark.Options{}).Stmt)
		prefix := "SELECT * FROM a LEFT JOIN b ON "
		require.True(t, strings.HasPrefix(out, prefix), out)

		got := strings.Split(strings.TrimPrefix(out, prefix), " AND ")
		sort.Strings(got)
		assert.Equal(t, want, got, sql)
	}
}
