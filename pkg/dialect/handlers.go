package dialect

import (
	"strings"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/spi"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// ---------- Standard Clause Handlers ----------
// These are stateless functions that can be composed into any dialect.
// The leading keyword has already been consumed when these are called.

// ParseWhere handles the standard WHERE clause.
func ParseWhere(p spi.ParserOps) (any, error) {
	return p.ParseExpression()
}

// ParseGroupBy handles the standard GROUP BY clause.
func ParseGroupBy(p spi.ParserOps) (any, error) {
	if err := p.Expect(token.BY); err != nil {
		return nil, err
	}
	return p.ParseExpressionList()
}

// ParseHaving handles the standard HAVING clause.
func ParseHaving(p spi.ParserOps) (any, error) {
	return p.ParseExpression()
}

// ParseOrderBy handles the standard ORDER BY clause.
func ParseOrderBy(p spi.ParserOps) (any, error) {
	if err := p.Expect(token.BY); err != nil {
		return nil, err
	}
	return p.ParseOrderByList()
}

// ParseLimit handles the LIMIT clause.
func ParseLimit(p spi.ParserOps) (any, error) {
	return p.ParseExpression()
}

// ParseOffset handles OFFSET n, also accepting the SQL:2008 form OFFSET n ROWS.
func ParseOffset(p spi.ParserOps) (any, error) {
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.Match(token.ROWS) {
		p.Match(token.ROW)
	}
	return expr, nil
}

// ParseFetch handles the FETCH FIRST/NEXT clause (SQL:2008).
func ParseFetch(p spi.ParserOps) (any, error) {
	fetch := &core.FetchClause{}

	switch {
	case p.Match(token.FIRST):
		fetch.First = true
	case p.Match(token.NEXT):
		fetch.First = false
	default:
		p.AddError("expected FIRST or NEXT after FETCH")
		return fetch, nil
	}

	if !p.Check(token.ROW) && !p.Check(token.ROWS) {
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		fetch.Count = expr

		// PERCENT is not reserved
		if tok := p.Token(); tok.Type == token.IDENT && strings.EqualFold(tok.Literal, "PERCENT") {
			p.NextToken()
			fetch.Percent = true
		}
	}

	if !p.Match(token.ROW) && !p.Match(token.ROWS) {
		p.AddError("expected ROW or ROWS in FETCH clause")
	}

	switch {
	case p.Match(token.ONLY):
		fetch.WithTies = false
	case p.Match(token.WITH):
		if !p.Match(token.TIES) {
			p.AddError("expected TIES after WITH")
		}
		fetch.WithTies = true
	default:
		p.AddError("expected ONLY or WITH TIES")
	}

	return fetch, nil
}
