package parser

import (
	"strings"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/spi"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// Expression precedence parsing using Pratt parser with dialect-aware precedence.
//
// Precedence levels (from spi package):
//
//	PrecedenceNone       = 0
//	PrecedenceOr         = 1
//	PrecedenceAnd        = 2
//	PrecedenceNot        = 3
//	PrecedenceComparison = 4  (=, <>, <, >, <=, >=, IS, IN, BETWEEN, LIKE)
//	PrecedenceAddition   = 5  (+, -, ||)
//	PrecedenceMultiply   = 6  (*, /, %)
//	PrecedenceUnary      = 7  (-, +, NOT)
//	PrecedencePostfix    = 8  (())
//
// The parser uses dialect.Precedence() to look up operator precedence, so a
// dialect only parses the operators it registers.

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() core.Expr {
	return p.parseExpressionWithPrecedence(spi.PrecedenceNone + 1)
}

// parseExpressionWithPrecedence implements Pratt parsing with dialect-aware precedence.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) core.Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := p.dialect.Precedence(p.token.Type)
		if prec == spi.PrecedenceNone || prec < minPrecedence {
			break
		}

		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses prefix expressions (unary operators and primary expressions).
func (p *Parser) parsePrefixExpr() core.Expr {
	start := p.token.Pos

	switch p.token.Type {
	case TOKEN_NOT:
		if p.checkPeek(TOKEN_EXISTS) {
			p.nextToken() // consume NOT
			return p.parseExistsExpr(start, true)
		}
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(spi.PrecedenceNot)
		return &core.UnaryExpr{NodeInfo: core.NodeInfo{Span: p.spanFrom(start)}, Op: token.NOT, Expr: expr}

	case TOKEN_MINUS, TOKEN_PLUS:
		op := p.token.Type
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(spi.PrecedenceUnary)
		return &core.UnaryExpr{NodeInfo: core.NodeInfo{Span: p.spanFrom(start)}, Op: op, Expr: expr}

	default:
		return p.parsePrimary()
	}
}

// parseInfixExpr parses an infix expression given the left operand and current precedence.
func (p *Parser) parseInfixExpr(left core.Expr, prec int) core.Expr {
	switch p.token.Type {
	case TOKEN_NOT:
		// NOT IN, NOT BETWEEN, NOT LIKE
		return p.parseNotInfixExpr(left)

	case TOKEN_IS:
		return p.parseIsExpr(left)

	case TOKEN_IN:
		p.nextToken()
		return p.parseInExpr(left, false)

	case TOKEN_BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)

	case TOKEN_LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, false)
	}

	// Custom infix handler (dialect-specific operators)
	if handler := p.dialect.InfixHandler(p.token.Type); handler != nil {
		op := p.token
		p.nextToken()
		result, err := handler(p, left)
		if err != nil {
			p.addError(err.Error())
			return left
		}
		if result != nil {
			return result
		}
		// A nil result asks for standard binary handling
		return &core.BinaryExpr{Left: left, Op: op.Type, Right: p.parseExpressionWithPrecedence(prec + 1)}
	}

	op := p.token
	p.nextToken()

	// Right operand binds tighter (left-associative)
	right := p.parseExpressionWithPrecedence(prec + 1)
	if right == nil {
		return nil
	}

	return &core.BinaryExpr{Left: left, Op: op.Type, Right: right}
}

// parseNotInfixExpr handles NOT as an infix modifier (NOT IN, NOT BETWEEN, NOT LIKE).
func (p *Parser) parseNotInfixExpr(left core.Expr) core.Expr {
	p.nextToken() // consume NOT

	switch p.token.Type {
	case TOKEN_IN:
		p.nextToken()
		return p.parseInExpr(left, true)

	case TOKEN_BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, true)

	case TOKEN_LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, true)

	default:
		p.addError("expected IN, BETWEEN, or LIKE after NOT")
		return nil
	}
}

// parseIsExpr parses IS [NOT] NULL.
func (p *Parser) parseIsExpr(left core.Expr) core.Expr {
	p.nextToken() // consume IS

	isNot := p.match(TOKEN_NOT)

	if !p.match(TOKEN_NULL) {
		p.addError("expected NULL after IS")
		return nil
	}
	return &core.IsNullExpr{NodeInfo: core.NodeInfo{Span: p.spanFrom(left.Pos())}, Expr: left, Not: isNot}
}

// parseInExpr parses an IN expression.
func (p *Parser) parseInExpr(left core.Expr, not bool) core.Expr {
	p.expect(TOKEN_LPAREN)
	in := &core.InExpr{Expr: left, Not: not}

	if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		in.Query = p.parseStatement()
	} else {
		in.Values = p.parseExpressionList()
	}

	p.expect(TOKEN_RPAREN)
	in.Span = p.spanFrom(left.Pos())
	return in
}

// parseBetweenExpr parses a BETWEEN expression.
func (p *Parser) parseBetweenExpr(left core.Expr, not bool) core.Expr {
	between := &core.BetweenExpr{Expr: left, Not: not}
	// Bounds parse at addition precedence so AND is not captured
	between.Low = p.parseExpressionWithPrecedence(spi.PrecedenceAddition)
	p.expect(TOKEN_AND)
	between.High = p.parseExpressionWithPrecedence(spi.PrecedenceAddition)
	between.Span = p.spanFrom(left.Pos())
	return between
}

// parseLikeExpr parses a LIKE expression with an optional ESCAPE character.
func (p *Parser) parseLikeExpr(left core.Expr, not bool) core.Expr {
	like := &core.LikeExpr{Expr: left, Not: not}
	like.Pattern = p.parseExpressionWithPrecedence(spi.PrecedenceAddition)
	// ESCAPE is not reserved, so it arrives as an identifier.
	if p.check(TOKEN_IDENT) && strings.EqualFold(p.token.Literal, "ESCAPE") {
		p.nextToken()
		like.Escape = p.parseExpressionWithPrecedence(spi.PrecedenceAddition)
	}
	like.Span = p.spanFrom(left.Pos())
	return like
}
