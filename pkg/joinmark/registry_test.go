package joinmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/joinmark"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

func eq(table, col string) core.Expr {
	return &core.BinaryExpr{
		Left:  &core.ColumnRef{Table: "a", Column: col},
		Op:    token.EQ,
		Right: &core.ColumnRef{Table: table, Column: col},
	}
}

func TestRegistryInsertionOrder(t *testing.T) {
	r := joinmark.NewRegistry()
	r.Register("C", &core.Join{Type: core.JoinLeft, Condition: eq("c", "id")})
	r.Register("B", &core.Join{Type: core.JoinLeft, Condition: eq("b", "id")})
	r.Register("D", &core.Join{Type: core.JoinLeft, Condition: eq("d", "id")})

	assert.Equal(t, []string{"C", "B", "D"}, r.Keys())
	assert.Equal(t, 3, r.Len())

	r.Delete("B")
	assert.Equal(t, []string{"C", "D"}, r.Keys())
	assert.False(t, r.Has("B"))
	assert.Nil(t, r.Get("B"))

	r.Delete("missing")
	assert.Equal(t, 2, r.Len())
}

func TestRegistryMerge(t *testing.T) {
	first := &core.Join{Type: core.JoinLeft, Condition: eq("b", "id")}
	second := &core.Join{Type: core.JoinLeft, Condition: eq("b", "y")}

	r := joinmark.NewRegistry()
	assert.False(t, r.Register("B", first))
	assert.False(t, r.Register("B", second))

	assert.Equal(t, 1, r.Len())
	assert.Same(t, first, r.Get("B"))

	cond, ok := first.Condition.(*core.BinaryExpr)
	if assert.True(t, ok) {
		assert.Equal(t, token.AND, cond.Op)
		assert.Equal(t, eq("b", "id"), cond.Left)
		assert.Equal(t, eq("b", "y"), cond.Right)
	}
}

func TestRegistryFirstKindWins(t *testing.T) {
	r := joinmark.NewRegistry()
	r.Register("B", &core.Join{Type: core.JoinFull, Condition: eq("b", "id")})

	conflict := r.Register("B", &core.Join{Type: core.JoinLeft, Condition: eq("b", "y")})

	assert.True(t, conflict)
	assert.Equal(t, core.JoinFull, r.Get("B").Type)
}

func TestRegistryKeysIsACopy(t *testing.T) {
	r := joinmark.NewRegistry()
	r.Register("B", &core.Join{Type: core.JoinLeft})

	keys := r.Keys()
	keys[0] = "X"

	assert.Equal(t, []string{"B"}, r.Keys())
}
