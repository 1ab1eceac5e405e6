package parser

import (
	"fmt"

	"github.com/leapstack-labs/ansijoin/pkg/core"
)

// Primary expression parsing: literals, column refs, function calls.
//
// Grammar:
//
//	primary       → literal | param | column_ref | func_call | paren_expr | case_expr | cast_expr | exists_expr
//	literal       → NUMBER | STRING | TRUE | FALSE | NULL
//	param         → ":" identifier | ":" NUMBER | "?"
//	column_ref    → [[schema "."] table "."] column ["(" "+" ")"]
//	func_call     → identifier ["." identifier] "(" [DISTINCT|ALL] [expr_list | "*"] ")" [OVER window_spec]

// parsePrimary parses primary expressions.
func (p *Parser) parsePrimary() core.Expr {
	start := p.token.Pos

	switch p.token.Type {
	case TOKEN_NUMBER:
		return p.literal(core.LiteralNumber, p.token.Literal)

	case TOKEN_STRING:
		return p.literal(core.LiteralString, p.token.Literal)

	case TOKEN_PARAM:
		return p.literal(core.LiteralParam, p.token.Literal)

	case TOKEN_TRUE:
		return p.literal(core.LiteralBool, "TRUE")

	case TOKEN_FALSE:
		return p.literal(core.LiteralBool, "FALSE")

	case TOKEN_NULL:
		return p.literal(core.LiteralNull, "NULL")

	case TOKEN_CASE:
		return p.parseCaseExpr()

	case TOKEN_CAST:
		return p.parseCastExpr()

	case TOKEN_EXISTS:
		return p.parseExistsExpr(start, false)

	case TOKEN_LPAREN:
		return p.parseParenExpr()

	case TOKEN_LEFT, TOKEN_RIGHT:
		// LEFT(s, n) and RIGHT(s, n) string functions
		if p.checkPeek(TOKEN_LPAREN) {
			name := p.token.Literal
			p.nextToken()
			return p.parseFuncCall(start, name)
		}
	}

	if p.isIdentLike(p.token) {
		return p.parseIdentifierExpr()
	}

	p.addError(fmt.Sprintf("unexpected %s in expression", describe(p.token)))
	p.nextToken()
	return nil
}

// literal builds a literal from the current token and consumes it.
func (p *Parser) literal(t core.LiteralType, value string) core.Expr {
	lit := &core.Literal{Type: t, Value: value}
	lit.Span.Start = p.token.Pos
	p.nextToken()
	lit.Span.End = p.prevEnd
	return lit
}

// parseIdentifierExpr parses an identifier which could be a column ref or function call.
func (p *Parser) parseIdentifierExpr() core.Expr {
	start := p.token.Pos
	name := p.token.Literal
	p.nextToken()

	if p.atJoinMark() {
		return p.finishColumnRef(start, []string{name})
	}

	if p.check(TOKEN_LPAREN) {
		return p.parseFuncCall(start, name)
	}

	if p.check(TOKEN_DOT) {
		return p.parseQualifiedExpr(start, name)
	}

	return p.finishColumnRef(start, []string{name})
}

// atJoinMark reports whether the next tokens are the (+) marker.
func (p *Parser) atJoinMark() bool {
	return p.check(TOKEN_LPAREN) && p.checkPeek(TOKEN_PLUS) && p.checkPeek2(TOKEN_RPAREN)
}

// parseQualifiedExpr parses a dotted name: a qualified column or a
// package-qualified function call such as DBMS_RANDOM.VALUE().
func (p *Parser) parseQualifiedExpr(start Position, firstPart string) core.Expr {
	parts := []string{firstPart}

	for p.match(TOKEN_DOT) {
		if !p.isIdentLike(p.token) {
			p.addError("expected identifier after '.'")
			return nil
		}
		parts = append(parts, p.token.Literal)
		p.nextToken()
	}

	if p.check(TOKEN_LPAREN) && !p.atJoinMark() {
		qualified := parts[0]
		for _, part := range parts[1:] {
			qualified += "." + part
		}
		return p.parseFuncCall(start, qualified)
	}

	if len(parts) > 3 {
		p.addError("column references take at most schema.table.column")
		return nil
	}

	return p.finishColumnRef(start, parts)
}

// finishColumnRef builds a column reference and consumes a trailing (+) marker.
func (p *Parser) finishColumnRef(start Position, parts []string) core.Expr {
	ref := &core.ColumnRef{Column: parts[len(parts)-1]}
	switch len(parts) {
	case 2:
		ref.Table = parts[0]
	case 3:
		ref.Schema = parts[0]
		ref.Table = parts[1]
	}

	if p.atJoinMark() {
		if !p.dialect.SupportsJoinMark() {
			p.addError(fmt.Sprintf(ErrJoinMarkNotSupported, p.dialect.Name))
		}
		p.nextToken() // (
		p.nextToken() // +
		p.nextToken() // )
		ref.JoinMark = true
	}

	ref.Span = p.spanFrom(start)
	return ref
}

// parseFuncCall parses a function call.
func (p *Parser) parseFuncCall(start Position, name string) core.Expr {
	fn := &core.FuncCall{Name: name}

	p.expect(TOKEN_LPAREN)

	switch {
	case p.check(TOKEN_STAR):
		// COUNT(*)
		fn.Star = true
		p.nextToken()
	case !p.check(TOKEN_RPAREN):
		if p.match(TOKEN_DISTINCT) {
			fn.Distinct = true
		} else {
			p.match(TOKEN_ALL)
		}
		fn.Args = p.parseExpressionList()
	}

	p.expect(TOKEN_RPAREN)

	if p.match(TOKEN_OVER) {
		fn.Window = p.parseWindowSpec()
	}

	fn.Span = p.spanFrom(start)
	return fn
}
