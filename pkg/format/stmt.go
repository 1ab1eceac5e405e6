package format

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	"github.com/leapstack-labs/ansijoin/pkg/spi"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

func (p *Printer) formatSelectStmt(stmt *core.SelectStmt) {
	if stmt == nil {
		return
	}

	p.formatComments(stmt.LeadingComments)

	if stmt.With != nil {
		p.formatWithClause(stmt.With)
	}

	if stmt.Body != nil {
		p.formatSelectBody(stmt.Body)
	}
}

func (p *Printer) formatWithClause(with *core.WithClause) {
	p.kw(token.WITH)
	if with.Recursive {
		p.space()
		p.kw(token.RECURSIVE)
	}
	p.writeln()

	p.indent()
	p.formatList(len(with.CTEs), func(i int) {
		cte := with.CTEs[i]
		p.ident(cte.Name)
		if len(cte.Columns) > 0 {
			p.write(" (")
			p.formatIdentList(cte.Columns)
			p.write(")")
		}
		p.space()
		p.kw(token.AS)
		p.write(" (")
		p.writeln()

		p.indent()
		p.formatSelectStmt(cte.Select)
		p.dedent()

		p.write(")")
	}, ",", true)
	p.writeln()
	p.dedent()
}

func (p *Printer) formatIdentList(names []string) {
	p.formatList(len(names), func(i int) { p.ident(names[i]) }, ", ", false)
}

func (p *Printer) formatSelectBody(body *core.SelectBody) {
	if body == nil {
		return
	}

	p.formatSelectCore(body.Left)

	if body.Op == core.SetOpNone {
		return
	}

	switch body.Op {
	case core.SetOpUnion:
		p.kw(token.UNION)
	case core.SetOpIntersect:
		p.kw(token.INTERSECT)
	case core.SetOpExcept:
		// MINUS in Oracle
		p.keyword(p.dialect.ExceptKeyword())
	}
	if body.All {
		p.space()
		p.kw(token.ALL)
	}

	p.writeln()
	p.formatSelectBody(body.Right)
}

func (p *Printer) formatSelectCore(sc *core.SelectCore) {
	if sc == nil {
		return
	}

	// SELECT [hint] [DISTINCT]
	p.kw(token.SELECT)
	if sc.Hint != "" {
		p.space()
		p.write(sc.Hint)
	}
	if sc.Distinct {
		p.space()
		p.kw(token.DISTINCT)
	}
	p.writeln()

	// Columns
	p.indent()
	p.formatList(len(sc.Columns), func(i int) { p.formatSelectItem(sc.Columns[i]) }, ",", true)
	p.writeln()
	p.dedent()

	// FROM
	if sc.From != nil {
		p.kw(token.FROM)
		p.space()
		p.formatFromClause(sc.From)
		p.writeln()
	}

	// Dynamic clauses. Row limits are written last in the target dialect's form.
	for _, clauseType := range p.dialect.ClauseSequence() {
		def, ok := p.dialect.ClauseDef(clauseType)
		if !ok || isRowLimitSlot(def.Slot) {
			continue
		}
		p.formatClause(clauseType, def, sc)
	}

	p.formatRowLimit(sc)
}

func isRowLimitSlot(slot spi.ClauseSlot) bool {
	return slot == spi.SlotLimit || slot == spi.SlotOffset || slot == spi.SlotFetch
}

func (p *Printer) formatClause(t token.TokenType, def dialect.ClauseDef, sc *core.SelectCore) {
	val := p.getClauseValue(sc, def.Slot)
	if !hasValue(val) {
		return
	}

	if len(def.Keywords) > 0 {
		for i, kw := range def.Keywords {
			if i > 0 {
				p.space()
			}
			p.keyword(kw)
		}
	} else {
		p.kw(t)
	}

	if def.Inline {
		p.space()
		p.formatSlotValue(def.Slot, val)
	} else {
		p.writeln()
		p.indent()
		p.formatSlotValue(def.Slot, val)
		p.dedent()
	}
	p.writeln()
}

func hasValue(val any) bool {
	switch v := val.(type) {
	case nil:
		return false
	case core.Expr:
		return v != nil
	case []core.Expr:
		return len(v) > 0
	case []core.OrderByItem:
		return len(v) > 0
	}
	return true
}

func (p *Printer) getClauseValue(sc *core.SelectCore, slot spi.ClauseSlot) any {
	switch slot {
	case spi.SlotWhere:
		if sc.Where != nil {
			return sc.Where
		}
	case spi.SlotGroupBy:
		return sc.GroupBy
	case spi.SlotHaving:
		if sc.Having != nil {
			return sc.Having
		}
	case spi.SlotOrderBy:
		return sc.OrderBy
	}
	return nil
}

func (p *Printer) formatSlotValue(slot spi.ClauseSlot, val any) {
	switch slot {
	case spi.SlotWhere, spi.SlotHaving:
		if expr, ok := val.(core.Expr); ok {
			p.formatExpr(expr)
		}
	case spi.SlotGroupBy:
		if exprs, ok := val.([]core.Expr); ok {
			p.formatList(len(exprs), func(i int) { p.formatExpr(exprs[i]) }, ",", true)
		}
	case spi.SlotOrderBy:
		if items, ok := val.([]core.OrderByItem); ok {
			p.formatList(len(items), func(i int) { p.formatOrderByItem(items[i]) }, ",", true)
		}
	}
}

// formatRowLimit writes LIMIT/OFFSET or OFFSET/FETCH depending on the
// target dialect. A FETCH with PERCENT or WITH TIES has no LIMIT form and
// is always written as FETCH.
func (p *Printer) formatRowLimit(sc *core.SelectCore) {
	if p.dialect.RowLimit() == core.RowLimitLimit {
		count, fetch := sc.Limit, sc.Fetch
		if fetch != nil && count == nil && !fetch.Percent && !fetch.WithTies {
			count = fetch.Count
			if count == nil {
				count = &core.Literal{Type: core.LiteralNumber, Value: "1"}
			}
			fetch = nil
		}
		if count != nil {
			p.kw(token.LIMIT)
			p.space()
			p.formatExpr(count)
			p.writeln()
		}
		if sc.Offset != nil {
			p.kw(token.OFFSET)
			p.space()
			p.formatExpr(sc.Offset)
			p.writeln()
		}
		if fetch != nil {
			p.formatFetchClause(fetch)
			p.writeln()
		}
		return
	}

	if sc.Offset != nil {
		p.kw(token.OFFSET)
		p.space()
		p.formatExpr(sc.Offset)
		p.space()
		p.kw(token.ROWS)
		p.writeln()
	}
	fetch := sc.Fetch
	if fetch == nil && sc.Limit != nil {
		fetch = &core.FetchClause{First: true, Count: sc.Limit}
	}
	if fetch != nil {
		p.formatFetchClause(fetch)
		p.writeln()
	}
}

func (p *Printer) formatSelectItem(item core.SelectItem) {
	if item.Star {
		p.write("*")
		return
	}
	if item.TableStar != "" {
		p.ident(item.TableStar)
		p.write(".*")
		return
	}

	p.formatExpr(item.Expr)
	if item.Alias != "" {
		p.space()
		p.kw(token.AS)
		p.space()
		p.ident(item.Alias)
	}
}

func (p *Printer) formatFromClause(from *core.FromClause) {
	if from == nil {
		return
	}

	p.formatTableRef(from.Source)

	for _, join := range from.Joins {
		if join.Type == core.JoinComma {
			p.write(",")
			p.space()
			p.formatTableRef(join.Right)
			continue
		}
		p.writeln()
		p.formatJoin(join)
	}
}

func (p *Printer) formatTableRef(ref core.TableRef) {
	leading, trailing := commentsOf(ref)
	p.formatLeading(leading)
	defer p.formatTrailing(trailing)

	switch t := ref.(type) {
	case *core.TableName:
		p.formatTableName(t)
	case *core.DerivedTable:
		p.formatDerivedTable(t)
	}
}

func (p *Printer) formatTableName(t *core.TableName) {
	if t.Schema != "" {
		p.ident(t.Schema)
		p.write(".")
	}
	p.ident(t.Name)
	if t.DBLink != "" {
		p.write("@")
		p.write(t.DBLink)
	}
	p.formatTableAlias(t.Alias)
}

func (p *Printer) formatTableAlias(alias string) {
	if alias == "" {
		return
	}
	p.space()
	if p.dialect.TableAliasAS() {
		p.kw(token.AS)
		p.space()
	}
	p.ident(alias)
}

func (p *Printer) formatDerivedTable(t *core.DerivedTable) {
	if t.Lateral {
		p.kw(token.LATERAL)
		p.space()
	}
	p.write("(")
	p.writeln()
	p.indent()
	p.formatSelectStmt(t.Select)
	p.dedent()
	p.write(")")
	p.formatTableAlias(t.Alias)
}

func (p *Printer) formatJoin(join *core.Join) {
	if join.Natural {
		p.kw(token.NATURAL)
		p.space()
	}

	switch join.Type {
	case core.JoinInner:
		p.kw(token.JOIN)
	default:
		// The JoinType value is the keyword
		p.keyword(string(join.Type))
		p.space()
		p.kw(token.JOIN)
	}
	p.space()

	p.formatTableRef(join.Right)

	switch {
	case len(join.Using) > 0:
		p.writeln()
		p.indent()
		p.kw(token.USING)
		p.write(" (")
		p.formatIdentList(join.Using)
		p.write(")")
		p.dedent()
	case join.Condition != nil:
		p.writeln()
		p.indent()
		p.kw(token.ON)
		p.space()
		p.formatExpr(join.Condition)
		p.dedent()
	}
}

func (p *Printer) formatOrderByItem(item core.OrderByItem) {
	p.formatExpr(item.Expr)
	if item.Desc {
		p.space()
		p.kw(token.DESC)
	}
	if item.NullsFirst != nil {
		p.space()
		p.kw(token.NULLS)
		p.space()
		if *item.NullsFirst {
			p.kw(token.FIRST)
		} else {
			p.kw(token.LAST)
		}
	}
}

func (p *Printer) formatFetchClause(fetch *core.FetchClause) {
	p.kw(token.FETCH)
	p.space()

	if fetch.First {
		p.kw(token.FIRST)
	} else {
		p.kw(token.NEXT)
	}

	if fetch.Count != nil {
		p.space()
		p.formatExpr(fetch.Count)
		if fetch.Percent {
			p.space()
			p.keyword("PERCENT")
		}
	}

	p.space()
	p.kw(token.ROWS)
	p.space()

	if fetch.WithTies {
		p.kw(token.WITH)
		p.space()
		p.kw(token.TIES)
	} else {
		p.kw(token.ONLY)
	}
}
