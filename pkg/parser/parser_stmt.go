package parser

import (
	"fmt"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	"github.com/leapstack-labs/ansijoin/pkg/spi"
)

// Statement parsing: WITH clause, CTEs, SELECT body, SELECT list, ORDER BY.
//
// Grammar:
//
//	statement     → [WITH cte_list] select_body
//	cte_list      → cte ("," cte)*
//	cte           → identifier ["(" ident_list ")"] AS "(" statement ")"
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select_body]
//	select_core   → SELECT [hint] [DISTINCT|ALL] select_list
//	                [FROM from_clause]
//	                [clauses based on dialect sequence]
//	select_list   → select_item ("," select_item)*
//	select_item   → "*" | table "." "*" | expr [AS identifier]
//	order_list    → order_item ("," order_item)*
//	order_item    → expr [ASC|DESC] [NULLS FIRST|LAST]
//
// The parser uses dialect.ClauseSequence() and dialect.ClauseDef() to
// parse clauses in the correct order for the current dialect, and to
// reject unsupported clauses (like LIMIT in Oracle).

var _ spi.ParserOps = (*Parser)(nil)

// parseStatement parses a complete SQL statement.
func (p *Parser) parseStatement() *core.SelectStmt {
	start := p.token.Pos
	stmt := &core.SelectStmt{}

	if p.check(TOKEN_WITH) {
		stmt.With = p.parseWithClause()
	}

	stmt.Body = p.parseSelectBody()
	stmt.Span = p.spanFrom(start)

	return stmt
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *core.WithClause {
	start := p.token.Pos
	p.expect(TOKEN_WITH)
	with := &core.WithClause{}

	if p.match(TOKEN_RECURSIVE) {
		with.Recursive = true
	}

	for {
		with.CTEs = append(with.CTEs, p.parseCTE())
		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	with.Span = p.spanFrom(start)
	return with
}

// parseCTE parses a single CTE.
func (p *Parser) parseCTE() *core.CTE {
	start := p.token.Pos
	cte := &core.CTE{}

	if !p.isIdentLike(p.token) {
		p.addError("expected CTE name")
		return cte
	}
	cte.Name = p.token.Literal
	p.nextToken()

	// Optional column list
	if p.match(TOKEN_LPAREN) {
		cte.Columns = p.parseIdentList("column name in CTE column list")
		p.expect(TOKEN_RPAREN)
	}

	p.expect(TOKEN_AS)

	p.expect(TOKEN_LPAREN)
	cte.Select = p.parseStatement()
	p.expect(TOKEN_RPAREN)

	cte.Span = p.spanFrom(start)
	return cte
}

// parseIdentList parses ident ("," ident)*.
func (p *Parser) parseIdentList(what string) []string {
	var names []string
	for {
		if !p.isIdentLike(p.token) {
			p.addError("expected " + what)
			break
		}
		names = append(names, p.token.Literal)
		p.nextToken()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	return names
}

// parseSelectBody parses a SELECT body with possible set operations.
func (p *Parser) parseSelectBody() *core.SelectBody {
	start := p.token.Pos
	body := &core.SelectBody{}
	body.Left = p.parseSelectCore()

	switch p.token.Type {
	case TOKEN_UNION:
		p.nextToken()
		body.Op = core.SetOpUnion
		if p.match(TOKEN_ALL) {
			body.All = true
		} else {
			p.match(TOKEN_DISTINCT) // optional
		}
	case TOKEN_INTERSECT:
		p.nextToken()
		body.Op = core.SetOpIntersect
		body.All = p.match(TOKEN_ALL)
	case TOKEN_EXCEPT:
		// Also MINUS, which Oracle lexes as EXCEPT
		p.nextToken()
		body.Op = core.SetOpExcept
		body.All = p.match(TOKEN_ALL)
	}

	if body.Op != core.SetOpNone {
		// Chained operations recurse to the right
		body.Right = p.parseSelectBody()
	}

	body.Span = p.spanFrom(start)
	return body
}

// parseSelectCore parses a single SELECT clause.
func (p *Parser) parseSelectCore() *core.SelectCore {
	start := p.token.Pos
	selectEnd := p.tokenEnd
	p.expect(TOKEN_SELECT)
	sc := &core.SelectCore{}

	// Optimizer hint directly after SELECT: SELECT /*+ ORDERED */ ...
	sc.Hint = p.hintBetween(selectEnd.Offset, p.token.Pos.Offset)

	if p.match(TOKEN_DISTINCT) {
		sc.Distinct = true
	} else {
		p.match(TOKEN_ALL) // optional, consume if present
	}

	sc.Columns = p.parseSelectList()

	if p.match(TOKEN_FROM) {
		sc.From = p.parseFromClause()
	}

	p.parseClauses(sc)

	sc.Span = p.spanFrom(start)
	return sc
}

// parseClauses parses clauses using dialect.ClauseDef() for both
// parsing logic and slot-based assignment. This is fully declarative -
// no hardcoded clause knowledge in the parser.
func (p *Parser) parseClauses(sc *core.SelectCore) {
	sequence := p.dialect.ClauseSequence()

	for {
		matched := false

		for _, clauseType := range sequence {
			if !p.check(clauseType) {
				continue
			}
			def, ok := p.dialect.ClauseDef(clauseType)
			if !ok {
				p.addError(fmt.Sprintf("no definition for clause %s in dialect %s", clauseType, p.dialect.Name))
				p.nextToken()
				matched = true
				break
			}

			p.nextToken() // consume clause keyword

			before := len(p.errors)
			result, err := def.Handler(p)
			if err != nil && len(p.errors) == before {
				p.addError(err.Error())
			}

			p.assignToSlot(sc, def.Slot, result)
			matched = true
			break
		}

		if matched {
			continue
		}

		// Known globally but not in this dialect
		if name, isKnown := dialect.IsKnownClause(p.token.Type); isKnown {
			p.addError(fmt.Sprintf(ErrUnsupportedClause, name, p.dialect.Name))
		}
		return
	}
}

// assignToSlot stores the parsed clause result in the appropriate SelectCore field.
func (p *Parser) assignToSlot(sc *core.SelectCore, slot spi.ClauseSlot, result any) {
	if result == nil {
		return
	}

	switch slot {
	case spi.SlotWhere:
		if expr, ok := result.(core.Expr); ok {
			sc.Where = expr
		}
	case spi.SlotGroupBy:
		if exprs, ok := result.([]core.Expr); ok {
			sc.GroupBy = exprs
		}
	case spi.SlotHaving:
		if expr, ok := result.(core.Expr); ok {
			sc.Having = expr
		}
	case spi.SlotOrderBy:
		if items, ok := result.([]core.OrderByItem); ok {
			sc.OrderBy = items
		}
	case spi.SlotLimit:
		if expr, ok := result.(core.Expr); ok {
			sc.Limit = expr
		}
	case spi.SlotOffset:
		if expr, ok := result.(core.Expr); ok {
			sc.Offset = expr
		}
	case spi.SlotFetch:
		if fetch, ok := result.(*core.FetchClause); ok {
			sc.Fetch = fetch
		}
	}
}

// parseSelectList parses the list of SELECT items.
func (p *Parser) parseSelectList() []core.SelectItem {
	var items []core.SelectItem

	for {
		items = append(items, p.parseSelectItem())
		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return items
}

// parseSelectItem parses a single SELECT item.
func (p *Parser) parseSelectItem() core.SelectItem {
	item := core.SelectItem{}

	if p.match(TOKEN_STAR) {
		item.Star = true
		return item
	}

	// table.* using 3-token lookahead (no rollback needed)
	if p.isIdentLike(p.token) && p.checkPeek(TOKEN_DOT) && p.checkPeek2(TOKEN_STAR) {
		item.TableStar = p.token.Literal
		p.nextToken() // identifier
		p.nextToken() // DOT
		p.nextToken() // STAR
		return item
	}

	item.Expr = p.parseExpression()

	if p.match(TOKEN_AS) {
		if p.isIdentLike(p.token) {
			item.Alias = p.token.Literal
			p.nextToken()
		} else {
			p.addError("expected alias after AS")
		}
	} else if p.check(TOKEN_IDENT) && !p.isKeyword(p.token) {
		item.Alias = p.token.Literal
		p.nextToken()
	}

	return item
}

// parseOrderByList parses a list of ORDER BY items.
func (p *Parser) parseOrderByList() []core.OrderByItem {
	var items []core.OrderByItem

	for {
		items = append(items, p.parseOrderByItem())
		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return items
}

// parseOrderByItem parses a single ORDER BY item.
func (p *Parser) parseOrderByItem() core.OrderByItem {
	item := core.OrderByItem{}
	item.Expr = p.parseExpression()

	if p.match(TOKEN_ASC) {
		item.Desc = false
	} else if p.match(TOKEN_DESC) {
		item.Desc = true
	}

	if p.match(TOKEN_NULLS) {
		switch {
		case p.match(TOKEN_FIRST):
			b := true
			item.NullsFirst = &b
		case p.match(TOKEN_LAST):
			b := false
			item.NullsFirst = &b
		default:
			p.addError("expected FIRST or LAST after NULLS")
		}
	}

	return item
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []core.Expr {
	var exprs []core.Expr

	for {
		exprs = append(exprs, p.parseExpression())
		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return exprs
}
