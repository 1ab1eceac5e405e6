package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// sample builds:
//
//	SELECT a.x FROM a, (SELECT y FROM b) d
//	WHERE a.id = d.id(+) AND EXISTS (SELECT 1 FROM c)
func sample() *SelectStmt {
	inner := &SelectStmt{Body: &SelectBody{Left: &SelectCore{
		Columns: []SelectItem{{Expr: &ColumnRef{Column: "y"}}},
		From:    &FromClause{Source: &TableName{Name: "b"}},
	}}}
	exists := &SelectStmt{Body: &SelectBody{Left: &SelectCore{
		Columns: []SelectItem{{Expr: &Literal{Type: LiteralNumber, Value: "1"}}},
		From:    &FromClause{Source: &TableName{Name: "c"}},
	}}}
	return &SelectStmt{Body: &SelectBody{Left: &SelectCore{
		Columns: []SelectItem{{Expr: &ColumnRef{Table: "a", Column: "x"}}},
		From: &FromClause{
			Source: &TableName{Name: "a"},
			Joins:  []*Join{{Type: JoinComma, Right: &DerivedTable{Select: inner, Alias: "d"}}},
		},
		Where: And(
			&BinaryExpr{
				Left:  &ColumnRef{Table: "a", Column: "id"},
				Op:    token.EQ,
				Right: &ColumnRef{Table: "d", Column: "id", JoinMark: true},
			},
			&ExistsExpr{Select: exists},
		),
	}}}
}

func TestInspect(t *testing.T) {
	t.Run("visits every column", func(t *testing.T) {
		var cols []string
		Inspect(sample(), func(n Node) bool {
			if c, ok := n.(*ColumnRef); ok {
				cols = append(cols, c.Table+"."+c.Column)
			}
			return true
		})
		assert.Equal(t, []string{"a.x", ".y", "a.id", "d.id"}, cols)
	})

	t.Run("skipping nested statements limits scope", func(t *testing.T) {
		root := sample()
		var cols []string
		Inspect(root, func(n Node) bool {
			if s, ok := n.(*SelectStmt); ok && s != root {
				return false
			}
			if c, ok := n.(*ColumnRef); ok {
				cols = append(cols, c.Column)
			}
			return true
		})
		assert.Equal(t, []string{"x", "id", "id"}, cols)
	})
}

func TestSelectCores(t *testing.T) {
	cores := SelectCores(sample())
	require.Len(t, cores, 3)
	assert.Equal(t, "a", cores[0].From.Source.Identity())
	assert.Equal(t, "b", cores[1].From.Source.Identity())
	assert.Equal(t, "c", cores[2].From.Source.Identity())
}

func TestCloneStmt(t *testing.T) {
	orig := sample()
	clone := CloneStmt(orig)

	assert.Empty(t, cmp.Diff(orig, clone), "clone should be structurally equal")

	// Mutating the clone must not touch the original.
	where := clone.Body.Left.Where.(*BinaryExpr)
	where.Left.(*BinaryExpr).Right.(*ColumnRef).JoinMark = false
	clone.Body.Left.From.Joins[0].Type = JoinLeft

	origWhere := orig.Body.Left.Where.(*BinaryExpr)
	assert.True(t, origWhere.Left.(*BinaryExpr).Right.(*ColumnRef).JoinMark)
	assert.Equal(t, JoinComma, orig.Body.Left.From.Joins[0].Type)
}

func TestAnd(t *testing.T) {
	a := &ColumnRef{Column: "a"}
	b := &ColumnRef{Column: "b"}

	assert.Same(t, a, And(a, nil))
	assert.Same(t, b, And(nil, b))
	assert.Nil(t, And(nil, nil))

	got, ok := And(a, b).(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.AND, got.Op)
}

func TestTableIdentity(t *testing.T) {
	tests := []struct {
		name string
		ref  TableRef
		want string
	}{
		{"bare table", &TableName{Name: "emp"}, "emp"},
		{"aliased table", &TableName{Schema: "hr", Name: "emp", Alias: "e"}, "e"},
		{"derived table", &DerivedTable{Alias: "d"}, "d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.Identity())
		})
	}
}

func TestSeverity(t *testing.T) {
	s, ok := ParseSeverity("WARNING")
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, s)
	assert.True(t, SeverityError.AtLeast(SeverityWarning))
	assert.False(t, SeverityInfo.AtLeast(SeverityWarning))

	_, ok = ParseSeverity("fatal")
	assert.False(t, ok)
}
