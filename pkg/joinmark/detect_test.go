package joinmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/joinmark"
)

func TestHasJoinMark(t *testing.T) {
	tests := []struct {
		name string
		expr core.Expr
		want bool
	}{
		{"marked column", &core.ColumnRef{Table: "b", Column: "id", JoinMark: true}, true},
		{"plain column", &core.ColumnRef{Table: "b", Column: "id"}, false},
		{"literal", &core.Literal{Type: core.LiteralNumber, Value: "1"}, false},
		{"nil", nil, false},
		{"marked column in parens", &core.ParenExpr{Expr: &core.ColumnRef{Column: "id", JoinMark: true}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinmark.HasJoinMark(tt.expr))
		})
	}
}

func TestContainsJoinMarkStaysInScope(t *testing.T) {
	stmt := parse(t, "SELECT * FROM a WHERE a.id IN (SELECT b.id FROM b, c WHERE b.id = c.id(+)) AND NVL(a.x(+), 0) = 1")
	where := stmt.Body.Left.Where.(*core.BinaryExpr)

	assert.False(t, joinmark.ContainsJoinMark(where.Left), "marks in subqueries belong to the subquery")
	assert.True(t, joinmark.ContainsJoinMark(where.Right))
	assert.Equal(t, 2, joinmark.CountJoinMarks(stmt))
}
