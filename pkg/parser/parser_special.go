package parser

import (
	"strings"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// Special expression parsing: CASE, CAST, EXISTS, parenthesized expressions, subqueries.
//
// Grammar:
//
//	case_expr     → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//	cast_expr     → CAST "(" expr AS type_name ")"
//	exists_expr   → [NOT] EXISTS "(" statement ")"
//	paren_expr    → "(" expression ("," expression)* ")" | "(" statement ")"
//	type_name     → identifier+ ["(" number ["," number] ")"]

// parseCaseExpr parses a CASE expression.
func (p *Parser) parseCaseExpr() core.Expr {
	start := p.token.Pos
	p.expect(TOKEN_CASE)
	caseExpr := &core.CaseExpr{}

	// Simple CASE: CASE expr WHEN ...
	if !p.check(TOKEN_WHEN) {
		caseExpr.Operand = p.parseExpression()
	}

	for p.match(TOKEN_WHEN) {
		when := core.WhenClause{}
		when.Condition = p.parseExpression()
		p.expect(TOKEN_THEN)
		when.Result = p.parseExpression()
		caseExpr.Whens = append(caseExpr.Whens, when)
	}
	if len(caseExpr.Whens) == 0 {
		p.addError("CASE requires at least one WHEN clause")
	}

	if p.match(TOKEN_ELSE) {
		caseExpr.Else = p.parseExpression()
	}

	p.expect(TOKEN_END)
	caseExpr.Span = p.spanFrom(start)
	return caseExpr
}

// parseCastExpr parses a CAST expression.
func (p *Parser) parseCastExpr() core.Expr {
	start := p.token.Pos
	p.expect(TOKEN_CAST)
	p.expect(TOKEN_LPAREN)

	cast := &core.CastExpr{}
	cast.Expr = p.parseExpression()

	p.expect(TOKEN_AS)
	cast.TypeName = p.parseTypeName()

	p.expect(TOKEN_RPAREN)
	cast.Span = p.spanFrom(start)
	return cast
}

// parseTypeName parses a type name with optional parameters.
// Multi-word names such as DOUBLE PRECISION or TIMESTAMP WITH TIME ZONE are joined by spaces.
func (p *Parser) parseTypeName() string {
	if !p.isIdentLike(p.token) {
		p.addError("expected type name")
		return ""
	}

	words := []string{p.token.Literal}
	p.nextToken()
	for p.isIdentLike(p.token) || p.check(TOKEN_WITH) {
		words = append(words, p.token.Literal)
		p.nextToken()
	}
	typeName := strings.Join(words, " ")

	// VARCHAR2(255), NUMBER(10, 2), VARCHAR2(20 CHAR)
	if p.match(TOKEN_LPAREN) {
		var params []string
		for {
			var param []string
			for p.check(TOKEN_NUMBER) || p.isIdentLike(p.token) || p.check(TOKEN_STAR) {
				param = append(param, p.token.Literal)
				p.nextToken()
			}
			params = append(params, strings.Join(param, " "))
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		p.expect(TOKEN_RPAREN)
		typeName += "(" + strings.Join(params, ", ") + ")"
	}

	return typeName
}

// parseParenExpr parses a parenthesized expression, subquery, or row value list.
func (p *Parser) parseParenExpr() core.Expr {
	start := p.token.Pos
	p.expect(TOKEN_LPAREN)

	if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		// Scalar subquery, or the right side of IN/EXISTS
		subquery := &core.SubqueryExpr{Select: p.parseStatement()}
		p.expect(TOKEN_RPAREN)
		subquery.Span = p.spanFrom(start)
		return subquery
	}

	expr := p.parseExpression()

	// Row value: (a, b) IN (...). Elements are chained with COMMA.
	for p.match(TOKEN_COMMA) {
		right := p.parseExpression()
		expr = &core.BinaryExpr{Left: expr, Op: token.COMMA, Right: right}
	}

	p.expect(TOKEN_RPAREN)
	return &core.ParenExpr{NodeInfo: core.NodeInfo{Span: p.spanFrom(start)}, Expr: expr}
}

// parseExistsExpr parses an EXISTS expression. The current token is EXISTS.
func (p *Parser) parseExistsExpr(start Position, not bool) core.Expr {
	p.expect(TOKEN_EXISTS)

	p.expect(TOKEN_LPAREN)
	exists := &core.ExistsExpr{Not: not, Select: p.parseStatement()}
	p.expect(TOKEN_RPAREN)

	exists.Span = p.spanFrom(start)
	return exists
}
