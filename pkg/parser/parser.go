// Package parser provides SQL parsing with dialect-aware syntax validation.
//
// # Usage
//
//	stmt, err := parser.ParseWithDialect("SELECT a, b FROM t", myDialect)
//	if err != nil {
//	    // handle error
//	}
//
// The parser requires a dialect. Use the dialect registry to get one by name:
//
//	d, err := dialect.Lookup("oracle")
//	stmt, err := parser.ParseWithDialect(sql, d)
//
// Dialects that report SupportsJoinMark accept the Oracle (+) marker after a
// column reference; the marker is recorded on core.ColumnRef.JoinMark.
//
// # Grammar Overview
//
//	statement     → [WITH cte_list] select_body [";"]
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT|MINUS) [ALL] select_body]
//	select_core   → SELECT [hint] [DISTINCT|ALL] select_list [FROM from_clause]
//	                [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	                [ORDER BY order_list] [row_limit]
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// Parser parses SQL into an AST.
type Parser struct {
	lexer *Lexer
	token Token // current token
	peek  Token // lookahead token
	peek2 Token // second lookahead token

	// End positions of token, peek and peek2, and of the last consumed token.
	tokenEnd Position
	peekEnd  Position
	peek2End Position
	prevEnd  Position

	errors  []error
	dialect *dialect.Dialect // required

	// hint comments consumed as SelectCore.Hint
	hints map[*token.Comment]bool
}

// NewParser creates a new parser for the given SQL input with dialect support.
func NewParser(sql string, d *dialect.Dialect) *Parser {
	p := &Parser{
		lexer:   NewLexer(sql, d),
		dialect: d,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// ParseWithDialect parses a single SELECT statement and returns the AST.
// Comments ahead of the statement are kept on SelectStmt.LeadingComments.
func ParseWithDialect(sql string, d *dialect.Dialect) (*core.SelectStmt, error) {
	stmt, _, err := parse(sql, d)
	return stmt, err
}

// ParseWithDialectAndComments is ParseWithDialect that also returns the
// comments found inside or after the statement, in source order. Leading
// comments and optimizer hints are already part of the AST and are not
// returned. Pass the comments to format.Decorate to keep them in the output.
func ParseWithDialectAndComments(sql string, d *dialect.Dialect) (*core.SelectStmt, []*token.Comment, error) {
	stmt, p, err := parse(sql, d)
	if err != nil {
		return nil, nil, err
	}
	start := stmt.Pos().Offset
	var comments []*token.Comment
	for _, c := range p.lexer.Comments {
		if c.Span.End.Offset <= start || p.hints[c] {
			continue
		}
		comments = append(comments, c)
	}
	return stmt, comments, nil
}

func parse(sql string, d *dialect.Dialect) (*core.SelectStmt, *Parser, error) {
	if d == nil {
		return nil, nil, dialect.ErrDialectRequired
	}
	p := NewParser(sql, d)
	stmt := p.parseStatement()

	p.match(TOKEN_SEMICOLON)
	if !p.check(TOKEN_EOF) {
		p.addError(fmt.Sprintf(ErrTrailingInput, describe(p.token)))
	}

	if len(p.lexer.Errors) > 0 {
		return nil, nil, p.lexer.Errors[0]
	}
	if len(p.errors) > 0 {
		return nil, nil, p.errors[0]
	}

	stmt.LeadingComments = p.leadingComments(stmt.Pos().Offset)
	return stmt, p, nil
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prevEnd = p.tokenEnd
	p.token, p.tokenEnd = p.peek, p.peekEnd
	p.peek, p.peekEnd = p.peek2, p.peek2End
	p.peek2 = p.lexer.NextToken()
	p.peek2End = p.lexer.currentPos()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t TokenType) bool {
	return p.peek.Type == t
}

// checkPeek2 returns true if the peek2 token is of the given type.
func (p *Parser) checkPeek2(t TokenType) bool {
	return p.peek2.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t))
	return false
}

// addError adds a parse error.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// spanFrom returns the span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start Position) token.Span {
	return token.Span{Start: start, End: p.prevEnd}
}

// describe renders a token for error messages.
func describe(tok Token) string {
	switch tok.Type {
	case TOKEN_EOF:
		return "end of input"
	case TOKEN_IDENT, TOKEN_NUMBER, TOKEN_PARAM, TOKEN_ILLEGAL:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	case TOKEN_STRING:
		return "string literal"
	}
	return tok.Type.String()
}

// leadingComments returns the comments that end before the given offset.
func (p *Parser) leadingComments(offset int) []*token.Comment {
	var out []*token.Comment
	for _, c := range p.lexer.Comments {
		if c.Span.End.Offset > offset {
			break
		}
		out = append(out, c)
	}
	return out
}

// hintBetween returns the optimizer hint comment found between two offsets.
func (p *Parser) hintBetween(from, to int) string {
	for _, c := range p.lexer.Comments {
		if c.Span.Start.Offset < from {
			continue
		}
		if c.Span.Start.Offset >= to {
			break
		}
		if c.IsHint() {
			if p.hints == nil {
				p.hints = make(map[*token.Comment]bool)
			}
			p.hints[c] = true
			return c.Text
		}
	}
	return ""
}

// ---------- Keyword Helpers ----------

// isKeyword returns true if the token is a reserved keyword that can't be used as alias.
func (p *Parser) isKeyword(tok Token) bool {
	if tok.Type == TOKEN_IDENT {
		return false
	}
	if token.IsKeyword(tok.Type) {
		return true
	}
	if p.dialect.IsClauseToken(tok.Type) {
		return true
	}
	// Global registry (keywords from other dialects)
	_, isKnown := dialect.IsKnownClause(tok.Type)
	return isKnown
}

// isIdentLike reports whether the token can name a column, alias or function.
func (p *Parser) isIdentLike(tok Token) bool {
	if tok.Type == TOKEN_IDENT || softKeywords[tok.Type] {
		return true
	}
	// LIMIT is an ordinary word in dialects without a LIMIT clause.
	return tok.Type == TOKEN_LIMIT && !p.dialect.IsClauseToken(TOKEN_LIMIT)
}

// isJoinKeyword returns true if token is a JOIN-related keyword.
func (p *Parser) isJoinKeyword(tok Token) bool {
	switch tok.Type {
	case TOKEN_JOIN, TOKEN_LEFT, TOKEN_RIGHT, TOKEN_INNER, TOKEN_OUTER,
		TOKEN_FULL, TOKEN_CROSS, TOKEN_NATURAL, TOKEN_ON, TOKEN_USING, TOKEN_LATERAL:
		return true
	}
	return p.dialect.IsJoinTypeToken(tok.Type)
}

// isClauseKeyword returns true if token starts a new clause.
func (p *Parser) isClauseKeyword(tok Token) bool {
	switch tok.Type {
	case TOKEN_UNION, TOKEN_INTERSECT, TOKEN_EXCEPT, TOKEN_WHERE, TOKEN_GROUP,
		TOKEN_HAVING, TOKEN_ORDER, TOKEN_FETCH, TOKEN_OFFSET:
		return true
	}
	if p.dialect.IsClauseToken(tok.Type) {
		return true
	}
	_, isKnown := dialect.IsKnownClause(tok.Type)
	return isKnown
}

// ---------- spi.ParserOps Implementation ----------
// These methods implement the spi.ParserOps interface for dialect clause handlers.

// Token returns the current token (implements spi.ParserOps).
func (p *Parser) Token() token.Token {
	return p.token
}

// Peek returns the lookahead token (implements spi.ParserOps).
func (p *Parser) Peek() token.Token {
	return p.peek
}

// Match consumes the current token if it matches (implements spi.ParserOps).
func (p *Parser) Match(t token.TokenType) bool {
	return p.match(t)
}

// Expect consumes the current token if it matches, otherwise returns an error (implements spi.ParserOps).
func (p *Parser) Expect(t token.TokenType) error {
	if p.check(t) {
		p.nextToken()
		return nil
	}
	return &ParseError{
		Pos:     p.token.Pos,
		Message: fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t),
	}
}

// NextToken advances to the next token (implements spi.ParserOps).
func (p *Parser) NextToken() {
	p.nextToken()
}

// Check returns true if the current token is of the given type (implements spi.ParserOps).
func (p *Parser) Check(t token.TokenType) bool {
	return p.check(t)
}

// ParseExpression parses an expression (implements spi.ParserOps).
func (p *Parser) ParseExpression() (core.Expr, error) {
	n := len(p.errors)
	expr := p.parseExpression()
	if len(p.errors) > n {
		return nil, p.errors[n]
	}
	return expr, nil
}

// ParseExpressionList parses a comma-separated list of expressions (implements spi.ParserOps).
func (p *Parser) ParseExpressionList() ([]core.Expr, error) {
	n := len(p.errors)
	exprs := p.parseExpressionList()
	if len(p.errors) > n {
		return nil, p.errors[n]
	}
	return exprs, nil
}

// ParseOrderByList parses an ORDER BY list (implements spi.ParserOps).
func (p *Parser) ParseOrderByList() ([]core.OrderByItem, error) {
	n := len(p.errors)
	items := p.parseOrderByList()
	if len(p.errors) > n {
		return nil, p.errors[n]
	}
	return items, nil
}

// AddError adds a parse error (implements spi.ParserOps).
func (p *Parser) AddError(msg string) {
	p.addError(msg)
}

// Position returns the current token's position (implements spi.ParserOps).
func (p *Parser) Position() token.Position {
	return p.token.Pos
}
