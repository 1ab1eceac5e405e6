package core

import "fmt"

// Inspect traverses the tree rooted at node in depth-first order. It calls
// fn(node) for each node; if fn returns false, the children of that node are
// skipped. Nested statements (subqueries, CTE bodies, derived tables) are
// visited as *SelectStmt nodes, so returning false for them limits the walk
// to a single query scope.
//
// Inspect panics on node types it does not know, so adding an AST node
// without teaching Inspect about it fails loudly in tests.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *SelectStmt:
		if n.With != nil {
			Inspect(n.With, fn)
		}
		if n.Body != nil {
			Inspect(n.Body, fn)
		}
	case *WithClause:
		for _, cte := range n.CTEs {
			Inspect(cte, fn)
		}
	case *CTE:
		if n.Select != nil {
			Inspect(n.Select, fn)
		}
	case *SelectBody:
		if n.Left != nil {
			Inspect(n.Left, fn)
		}
		if n.Right != nil {
			Inspect(n.Right, fn)
		}
	case *SelectCore:
		for _, item := range n.Columns {
			inspectExpr(item.Expr, fn)
		}
		if n.From != nil {
			Inspect(n.From, fn)
		}
		inspectExpr(n.Where, fn)
		inspectExprs(n.GroupBy, fn)
		inspectExpr(n.Having, fn)
		inspectOrderBy(n.OrderBy, fn)
		inspectExpr(n.Limit, fn)
		inspectExpr(n.Offset, fn)
		if n.Fetch != nil {
			inspectExpr(n.Fetch.Count, fn)
		}
	case *FromClause:
		if n.Source != nil {
			Inspect(n.Source, fn)
		}
		for _, j := range n.Joins {
			Inspect(j, fn)
		}
	case *Join:
		if n.Right != nil {
			Inspect(n.Right, fn)
		}
		inspectExpr(n.Condition, fn)
	case *TableName:
		// leaf
	case *DerivedTable:
		if n.Select != nil {
			Inspect(n.Select, fn)
		}

	case *ColumnRef, *Literal:
		// leaf
	case *BinaryExpr:
		inspectExpr(n.Left, fn)
		inspectExpr(n.Right, fn)
	case *UnaryExpr:
		inspectExpr(n.Expr, fn)
	case *FuncCall:
		inspectExprs(n.Args, fn)
		if n.Window != nil {
			inspectExprs(n.Window.PartitionBy, fn)
			inspectOrderBy(n.Window.OrderBy, fn)
			if f := n.Window.Frame; f != nil {
				if f.Start != nil {
					inspectExpr(f.Start.Offset, fn)
				}
				if f.End != nil {
					inspectExpr(f.End.Offset, fn)
				}
			}
		}
	case *CaseExpr:
		inspectExpr(n.Operand, fn)
		for _, w := range n.Whens {
			inspectExpr(w.Condition, fn)
			inspectExpr(w.Result, fn)
		}
		inspectExpr(n.Else, fn)
	case *CastExpr:
		inspectExpr(n.Expr, fn)
	case *InExpr:
		inspectExpr(n.Expr, fn)
		inspectExprs(n.Values, fn)
		if n.Query != nil {
			Inspect(n.Query, fn)
		}
	case *BetweenExpr:
		inspectExpr(n.Expr, fn)
		inspectExpr(n.Low, fn)
		inspectExpr(n.High, fn)
	case *IsNullExpr:
		inspectExpr(n.Expr, fn)
	case *LikeExpr:
		inspectExpr(n.Expr, fn)
		inspectExpr(n.Pattern, fn)
		inspectExpr(n.Escape, fn)
	case *ParenExpr:
		inspectExpr(n.Expr, fn)
	case *SubqueryExpr:
		if n.Select != nil {
			Inspect(n.Select, fn)
		}
	case *ExistsExpr:
		if n.Select != nil {
			Inspect(n.Select, fn)
		}
	default:
		panic(fmt.Sprintf("core.Inspect: unexpected node type %T", node))
	}
}

func inspectExpr(e Expr, fn func(Node) bool) {
	if e != nil {
		Inspect(e, fn)
	}
}

func inspectExprs(exprs []Expr, fn func(Node) bool) {
	for _, e := range exprs {
		inspectExpr(e, fn)
	}
}

func inspectOrderBy(items []OrderByItem, fn func(Node) bool) {
	for _, item := range items {
		inspectExpr(item.Expr, fn)
	}
}

// SelectCores returns every query block of stmt in pre-order discovery
// order: a block always precedes the blocks nested inside it.
func SelectCores(stmt *SelectStmt) []*SelectCore {
	var cores []*SelectCore
	Inspect(stmt, func(n Node) bool {
		if sc, ok := n.(*SelectCore); ok {
			cores = append(cores, sc)
		}
		return true
	})
	return cores
}
