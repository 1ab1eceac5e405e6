// Package ansi provides the base ANSI SQL dialect with standard clause sequences,
// handlers, and operator precedence.
//
// ANSI is the default render target: it never writes the (+) marker syntax
// and limits rows with OFFSET/FETCH.
package ansi

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
)

func init() {
	dialect.Register(ANSI)
}

// Config is the ANSI dialect configuration.
var Config = &core.DialectConfig{
	Name: "ansi",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Normalization: core.NormUppercase,
	},
	RowLimit:     core.RowLimitFetch,
	TableAliasAS: true,
	Keywords:     reservedWords,
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.New(Config).
	Clauses(dialect.StandardSelectClauses...).
	Operators(dialect.ANSIOperators).
	JoinTypes(dialect.ANSIJoinTypes).
	WithReservedWords(reservedWords...).
	Build()

var reservedWords = []string{
	"ALL", "AND", "AS", "ASC", "BETWEEN", "BY", "CASE", "CAST", "CROSS",
	"CURRENT", "DESC", "DISTINCT", "ELSE", "END", "EXCEPT", "EXISTS",
	"FALSE", "FETCH", "FROM", "FULL", "GROUP", "HAVING", "IN", "INNER",
	"INTERSECT", "IS", "JOIN", "LEFT", "LIKE", "NATURAL", "NOT", "NULL",
	"OFFSET", "ON", "OR", "ORDER", "OUTER", "RIGHT", "SELECT", "THEN",
	"TRUE", "UNION", "USING", "WHEN", "WHERE", "WITH",
}
