package core

import "fmt"

// CloneStmt returns a deep copy of stmt. Source spans are kept; comments are
// shared since they are immutable.
func CloneStmt(stmt *SelectStmt) *SelectStmt {
	if stmt == nil {
		return nil
	}
	out := &SelectStmt{
		NodeInfo:        stmt.NodeInfo,
		Body:            cloneBody(stmt.Body),
		LeadingComments: stmt.LeadingComments,
	}
	if stmt.With != nil {
		out.With = &WithClause{NodeInfo: stmt.With.NodeInfo, Recursive: stmt.With.Recursive}
		for _, cte := range stmt.With.CTEs {
			out.With.CTEs = append(out.With.CTEs, &CTE{
				NodeInfo: cte.NodeInfo,
				Name:     cte.Name,
				Columns:  cloneStrings(cte.Columns),
				Select:   CloneStmt(cte.Select),
			})
		}
	}
	return out
}

func cloneBody(b *SelectBody) *SelectBody {
	if b == nil {
		return nil
	}
	return &SelectBody{
		NodeInfo: b.NodeInfo,
		Left:     CloneCore(b.Left),
		Op:       b.Op,
		All:      b.All,
		Right:    cloneBody(b.Right),
	}
}

// CloneCore returns a deep copy of a query block.
func CloneCore(sc *SelectCore) *SelectCore {
	if sc == nil {
		return nil
	}
	out := &SelectCore{
		NodeInfo: sc.NodeInfo,
		Hint:     sc.Hint,
		Distinct: sc.Distinct,
		Where:    CloneExpr(sc.Where),
		GroupBy:  cloneExprs(sc.GroupBy),
		Having:   CloneExpr(sc.Having),
		OrderBy:  cloneOrderBy(sc.OrderBy),
		Limit:    CloneExpr(sc.Limit),
		Offset:   CloneExpr(sc.Offset),
	}
	for _, item := range sc.Columns {
		item.Expr = CloneExpr(item.Expr)
		out.Columns = append(out.Columns, item)
	}
	if sc.From != nil {
		out.From = &FromClause{NodeInfo: sc.From.NodeInfo, Source: CloneTableRef(sc.From.Source)}
		for _, j := range sc.From.Joins {
			out.From.Joins = append(out.From.Joins, &Join{
				NodeInfo:  j.NodeInfo,
				Type:      j.Type,
				Natural:   j.Natural,
				Right:     CloneTableRef(j.Right),
				Condition: CloneExpr(j.Condition),
				Using:     cloneStrings(j.Using),
			})
		}
	}
	if sc.Fetch != nil {
		f := *sc.Fetch
		f.Count = CloneExpr(f.Count)
		out.Fetch = &f
	}
	return out
}

// CloneTableRef returns a deep copy of a table reference.
func CloneTableRef(ref TableRef) TableRef {
	switch t := ref.(type) {
	case nil:
		return nil
	case *TableName:
		c := *t
		return &c
	case *DerivedTable:
		return &DerivedTable{NodeInfo: t.NodeInfo, Lateral: t.Lateral, Select: CloneStmt(t.Select), Alias: t.Alias}
	default:
		panic(fmt.Sprintf("core.CloneTableRef: unexpected table ref %T", ref))
	}
}

// CloneExpr returns a deep copy of an expression tree.
func CloneExpr(e Expr) Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *ColumnRef:
		c := *n
		return &c
	case *Literal:
		c := *n
		return &c
	case *BinaryExpr:
		return &BinaryExpr{NodeInfo: n.NodeInfo, Left: CloneExpr(n.Left), Op: n.Op, Right: CloneExpr(n.Right)}
	case *UnaryExpr:
		return &UnaryExpr{NodeInfo: n.NodeInfo, Op: n.Op, Expr: CloneExpr(n.Expr)}
	case *FuncCall:
		return &FuncCall{
			NodeInfo: n.NodeInfo,
			Name:     n.Name,
			Distinct: n.Distinct,
			Args:     cloneExprs(n.Args),
			Star:     n.Star,
			Window:   cloneWindow(n.Window),
		}
	case *CaseExpr:
		c := &CaseExpr{NodeInfo: n.NodeInfo, Operand: CloneExpr(n.Operand), Else: CloneExpr(n.Else)}
		for _, w := range n.Whens {
			c.Whens = append(c.Whens, WhenClause{Condition: CloneExpr(w.Condition), Result: CloneExpr(w.Result)})
		}
		return c
	case *CastExpr:
		return &CastExpr{NodeInfo: n.NodeInfo, Expr: CloneExpr(n.Expr), TypeName: n.TypeName}
	case *InExpr:
		return &InExpr{NodeInfo: n.NodeInfo, Expr: CloneExpr(n.Expr), Not: n.Not, Values: cloneExprs(n.Values), Query: CloneStmt(n.Query)}
	case *BetweenExpr:
		return &BetweenExpr{NodeInfo: n.NodeInfo, Expr: CloneExpr(n.Expr), Not: n.Not, Low: CloneExpr(n.Low), High: CloneExpr(n.High)}
	case *IsNullExpr:
		return &IsNullExpr{NodeInfo: n.NodeInfo, Expr: CloneExpr(n.Expr), Not: n.Not}
	case *LikeExpr:
		return &LikeExpr{NodeInfo: n.NodeInfo, Expr: CloneExpr(n.Expr), Not: n.Not, Pattern: CloneExpr(n.Pattern), Escape: CloneExpr(n.Escape)}
	case *ParenExpr:
		return &ParenExpr{NodeInfo: n.NodeInfo, Expr: CloneExpr(n.Expr)}
	case *SubqueryExpr:
		return &SubqueryExpr{NodeInfo: n.NodeInfo, Select: CloneStmt(n.Select)}
	case *ExistsExpr:
		return &ExistsExpr{NodeInfo: n.NodeInfo, Not: n.Not, Select: CloneStmt(n.Select)}
	default:
		panic(fmt.Sprintf("core.CloneExpr: unexpected expression %T", e))
	}
}

func cloneExprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		out[i] = CloneExpr(e)
	}
	return out
}

func cloneOrderBy(items []OrderByItem) []OrderByItem {
	if items == nil {
		return nil
	}
	out := make([]OrderByItem, len(items))
	for i, item := range items {
		out[i] = OrderByItem{Expr: CloneExpr(item.Expr), Desc: item.Desc, NullsFirst: item.NullsFirst}
	}
	return out
}

func cloneWindow(w *WindowSpec) *WindowSpec {
	if w == nil {
		return nil
	}
	out := &WindowSpec{PartitionBy: cloneExprs(w.PartitionBy), OrderBy: cloneOrderBy(w.OrderBy)}
	if w.Frame != nil {
		out.Frame = &FrameSpec{Type: w.Frame.Type, Start: cloneBound(w.Frame.Start), End: cloneBound(w.Frame.End)}
	}
	return out
}

func cloneBound(b *FrameBound) *FrameBound {
	if b == nil {
		return nil
	}
	return &FrameBound{Type: b.Type, Offset: CloneExpr(b.Offset)}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
