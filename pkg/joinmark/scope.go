package joinmark

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
)

// ColumnsInScope returns the column references of q's own scope in
// traversal order: select list, FROM (join conditions), WHERE, GROUP BY,
// HAVING, ORDER BY. Columns of nested statements belong to those
// statements and are not returned.
func ColumnsInScope(q *core.SelectCore) []*core.ColumnRef {
	if q == nil {
		return nil
	}
	return collectColumns(q)
}

func columnsOf(e core.Expr) []*core.ColumnRef {
	if e == nil {
		return nil
	}
	return collectColumns(e)
}

func collectColumns(root core.Node) []*core.ColumnRef {
	var cols []*core.ColumnRef
	core.Inspect(root, func(n core.Node) bool {
		switch x := n.(type) {
		case *core.SelectStmt:
			return false
		case *core.ColumnRef:
			cols = append(cols, x)
		}
		return true
	})
	return cols
}

// qualifier returns the normalized table identity a column is qualified with.
func (q *query) qualifier(col *core.ColumnRef) string {
	if col.Table == "" {
		return ""
	}
	return q.norm(col.Table)
}

// referencedTables returns the distinct table identities e's columns are
// qualified with, in order of appearance. Unqualified columns are skipped.
func (q *query) referencedTables(e core.Expr) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, col := range columnsOf(e) {
		key := q.qualifier(col)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}
