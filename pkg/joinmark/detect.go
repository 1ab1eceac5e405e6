package joinmark

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
)

// HasJoinMark reports whether e is a column reference carrying the (+) marker.
func HasJoinMark(e core.Expr) bool {
	col, ok := e.(*core.ColumnRef)
	return ok && col.JoinMark
}

// ContainsJoinMark reports whether any column of e's own scope is marked.
// Nested statements are not searched.
func ContainsJoinMark(e core.Expr) bool {
	found := false
	core.Inspect(e, func(n core.Node) bool {
		if found {
			return false
		}
		switch x := n.(type) {
		case *core.SelectStmt:
			return false
		case *core.ColumnRef:
			found = x.JoinMark
		}
		return true
	})
	return found
}

// CountJoinMarks returns the number of marked columns in stmt, nested
// statements included.
func CountJoinMarks(stmt *core.SelectStmt) int {
	count := 0
	core.Inspect(stmt, func(n core.Node) bool {
		if HasJoinMark(asExpr(n)) {
			count++
		}
		return true
	})
	return count
}

func asExpr(n core.Node) core.Expr {
	e, _ := n.(core.Expr)
	return e
}

func markedColumns(cols []*core.ColumnRef) []*core.ColumnRef {
	var marked []*core.ColumnRef
	for _, col := range cols {
		if col.JoinMark {
			marked = append(marked, col)
		}
	}
	return marked
}

func firstMark(e core.Expr) *core.ColumnRef {
	for _, col := range columnsOf(e) {
		if col.JoinMark {
			return col
		}
	}
	return nil
}
