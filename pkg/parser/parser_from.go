package parser

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
)

// FROM clause parsing: table references, derived tables, lateral joins, JOINs.
//
// Grammar:
//
//	from_clause   → table_ref (join)*
//	table_ref     → table_name | derived_table | lateral_table
//	table_name    → [schema "."] identifier ["@" dblink] [[AS] identifier]
//	derived_table → "(" statement ")" [[AS] identifier]
//	lateral_table → LATERAL "(" statement ")" [[AS] identifier]
//	join          → [NATURAL] join_type JOIN table_ref [ON expr | USING "(" ident_list ")"]
//	              | "," table_ref
//	join_type     → [INNER] | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | CROSS

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() *core.FromClause {
	start := p.token.Pos
	from := &core.FromClause{}
	from.Source = p.parseTableRef()

	for {
		join := p.parseJoin()
		if join == nil {
			break
		}
		from.Joins = append(from.Joins, join)
	}

	from.Span = p.spanFrom(start)
	return from
}

// parseTableRef parses a table reference.
func (p *Parser) parseTableRef() core.TableRef {
	start := p.token.Pos

	if p.match(TOKEN_LATERAL) {
		derived := p.parseDerivedTable(start)
		derived.Lateral = true
		return derived
	}

	if p.check(TOKEN_LPAREN) {
		return p.parseDerivedTable(start)
	}

	return p.parseTableName()
}

// parseTableName parses a table name with optional schema and database link.
func (p *Parser) parseTableName() *core.TableName {
	start := p.token.Pos
	table := &core.TableName{}

	if !p.isIdentLike(p.token) {
		p.addError("expected table name, got " + describe(p.token))
		return table
	}

	parts := []string{p.token.Literal}
	p.nextToken()

	for p.match(TOKEN_DOT) {
		if !p.isIdentLike(p.token) {
			p.addError("expected identifier after '.'")
			break
		}
		parts = append(parts, p.token.Literal)
		p.nextToken()
	}

	switch len(parts) {
	case 1:
		table.Name = parts[0]
	case 2:
		table.Schema = parts[0]
		table.Name = parts[1]
	default:
		p.addError("table names take at most a schema qualifier")
		table.Schema = parts[len(parts)-2]
		table.Name = parts[len(parts)-1]
	}

	// Oracle remote object: name@dblink[.domain]
	if p.match(TOKEN_AT) {
		link := ""
		for p.isIdentLike(p.token) {
			link += p.token.Literal
			p.nextToken()
			if !p.match(TOKEN_DOT) {
				break
			}
			link += "."
		}
		if link == "" {
			p.addError("expected database link name after '@'")
		}
		table.DBLink = link
	}

	table.Alias = p.parseTableAlias()
	table.Span = p.spanFrom(start)
	return table
}

// parseTableAlias parses an optional [AS] alias after a table reference.
func (p *Parser) parseTableAlias() string {
	if p.match(TOKEN_AS) {
		if p.isIdentLike(p.token) {
			alias := p.token.Literal
			p.nextToken()
			return alias
		}
		p.addError("expected alias after AS")
		return ""
	}
	if p.check(TOKEN_IDENT) && !p.isJoinKeyword(p.token) && !p.isClauseKeyword(p.token) {
		alias := p.token.Literal
		p.nextToken()
		return alias
	}
	return ""
}

// parseDerivedTable parses a derived table (subquery in FROM).
func (p *Parser) parseDerivedTable(start Position) *core.DerivedTable {
	p.expect(TOKEN_LPAREN)
	derived := &core.DerivedTable{}
	derived.Select = p.parseStatement()
	p.expect(TOKEN_RPAREN)

	derived.Alias = p.parseTableAlias()
	derived.Span = p.spanFrom(start)
	return derived
}

// parseJoin parses a JOIN clause. It returns nil when no join follows.
func (p *Parser) parseJoin() *core.Join {
	start := p.token.Pos
	join := &core.Join{}

	// Comma join (implicit cross join)
	if p.match(TOKEN_COMMA) {
		join.Type = core.JoinComma
		join.Right = p.parseTableRef()
		join.Span = p.spanFrom(start)
		return join
	}

	if p.match(TOKEN_NATURAL) {
		join.Natural = true
	}

	if def, ok := p.dialect.JoinTypeDef(p.token.Type); ok {
		join.Type = def.Type
		p.nextToken()

		// Optional modifier (OUTER for LEFT/RIGHT/FULL)
		if def.OptionalToken != TOKEN_EOF {
			p.match(def.OptionalToken)
		}
	} else {
		if !p.check(TOKEN_JOIN) {
			if join.Natural {
				p.addError("expected JOIN after NATURAL")
			}
			return nil
		}
		// Plain JOIN is INNER JOIN
		join.Type = core.JoinInner
	}

	if !p.expect(TOKEN_JOIN) {
		return nil
	}

	join.Right = p.parseTableRef()
	p.parseJoinCondition(join)
	join.Span = p.spanFrom(start)
	return join
}

// parseJoinCondition handles ON/USING/NATURAL validation.
func (p *Parser) parseJoinCondition(join *core.Join) {
	switch {
	case join.Natural:
		if p.check(TOKEN_ON) {
			p.addError("NATURAL JOIN cannot have ON clause")
		}
		if p.check(TOKEN_USING) {
			p.addError("NATURAL JOIN cannot have USING clause")
		}
	case p.match(TOKEN_ON):
		join.Condition = p.parseExpression()
	case p.match(TOKEN_USING):
		p.expect(TOKEN_LPAREN)
		join.Using = p.parseIdentList("column name in USING clause")
		p.expect(TOKEN_RPAREN)
	case join.Type == core.JoinCross:
	default:
		p.addError(string(join.Type) + " JOIN requires an ON or USING clause")
	}
}
