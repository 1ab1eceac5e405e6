package joinmark

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// isComparison reports whether op may carry a join mark on an operand.
func isComparison(op token.TokenType) bool {
	switch op {
	case token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE:
		return true
	}
	return false
}

// convert turns a marked predicate into a join keyed by its target table.
// The predicate itself is not modified; the join's condition is a copy with
// the marks cleared.
func (q *query) convert(e core.Expr) (string, *core.Join, error) {
	pred, ok := e.(*core.BinaryExpr)
	if !ok {
		return "", nil, notConvertible("join mark inside %s", describe(e))
	}
	if !isComparison(pred.Op) {
		return "", nil, notConvertible("join mark inside %s", describe(e))
	}

	left, leftIsCol := pred.Left.(*core.ColumnRef)
	right, rightIsCol := pred.Right.(*core.ColumnRef)
	if !leftIsCol && !rightIsCol {
		return "", nil, notConvertible("neither side of %s is a column", pred.Op)
	}

	leftMarked := leftIsCol && left.JoinMark
	rightMarked := rightIsCol && right.JoinMark
	if (!leftMarked && ContainsJoinMark(pred.Left)) || (!rightMarked && ContainsJoinMark(pred.Right)) {
		return "", nil, notConvertible("join mark inside an expression operand")
	}

	switch {
	case leftMarked && rightMarked:
		if q.qualifier(left) == q.qualifier(right) {
			return "", nil, notConvertible("both marked columns belong to the same table")
		}
		target := right
		if key, _ := q.resolveTable(right); key == q.baseKey {
			target = left
		}
		return q.finish(core.JoinFull, target, pred)
	case leftMarked:
		if err := q.checkPartner(left, pred.Right); err != nil {
			return "", nil, err
		}
		return q.finish(core.JoinLeft, left, pred)
	case rightMarked:
		if err := q.checkPartner(right, pred.Left); err != nil {
			return "", nil, err
		}
		return q.finish(core.JoinLeft, right, pred)
	}

	return "", nil, notConvertible("no join mark on either side")
}

// checkPartner verifies that the operand compared with a marked column
// references some other table of the query.
func (q *query) checkPartner(target *core.ColumnRef, other core.Expr) error {
	cols := columnsOf(other)
	if len(cols) == 0 {
		return notConvertible("%s is compared with a constant", columnName(target))
	}
	targetKey, _ := q.resolveTable(target)
	for _, col := range cols {
		if key, err := q.resolveTable(col); err != nil || key != targetKey {
			return nil
		}
	}
	return notConvertible("%s is only compared with columns of its own table", columnName(target))
}

// finish resolves the target table and builds the join.
func (q *query) finish(kind core.JoinType, target *core.ColumnRef, pred *core.BinaryExpr) (string, *core.Join, error) {
	key, err := q.resolveTable(target)
	if err != nil {
		return "", nil, err
	}

	// The join reuses the table reference already declared in FROM.
	var entity core.TableRef
	if old := q.old.Get(key); old != nil {
		if old.HasCondition() {
			return "", nil, notConvertible("%s is already joined with an explicit condition", key)
		}
		entity = old.Right
	} else {
		entity = q.base
	}

	cond, ok := core.CloneExpr(pred).(*core.BinaryExpr)
	if !ok {
		return "", nil, notConvertible("unexpected predicate %T", pred)
	}
	clearMark(cond.Left)
	clearMark(cond.Right)

	return key, &core.Join{Type: kind, Right: entity, Condition: cond}, nil
}

// resolveTable returns the identity of the table a column belongs to.
// An unqualified column is attributed to the only table of a single-table
// query and is ambiguous otherwise.
func (q *query) resolveTable(col *core.ColumnRef) (string, error) {
	if col.Table == "" {
		if len(q.tables) == 1 {
			return q.baseKey, nil
		}
		return "", notConvertible("unqualified column %s is ambiguous", col.Column)
	}
	key := q.qualifier(col)
	if _, ok := q.tables[key]; !ok {
		return "", notConvertible("%s names no table of this query", col.Table)
	}
	return key, nil
}

func clearMark(e core.Expr) {
	if col, ok := e.(*core.ColumnRef); ok {
		col.JoinMark = false
	}
}

func columnName(col *core.ColumnRef) string {
	if col.Table == "" {
		return col.Column
	}
	return col.Table + "." + col.Column
}

// describe names an expression kind for diagnostics.
func describe(e core.Expr) string {
	switch x := e.(type) {
	case *core.BinaryExpr:
		return x.Op.String() + " expression"
	case *core.UnaryExpr:
		return x.Op.String() + " expression"
	case *core.FuncCall:
		return "call to " + x.Name
	case *core.InExpr:
		return "IN list"
	case *core.BetweenExpr:
		return "BETWEEN"
	case *core.LikeExpr:
		return "LIKE"
	case *core.IsNullExpr:
		return "IS NULL test"
	case *core.CaseExpr:
		return "CASE expression"
	case *core.CastExpr:
		return "CAST"
	case *core.ColumnRef:
		return "a bare column"
	default:
		return "expression"
	}
}
