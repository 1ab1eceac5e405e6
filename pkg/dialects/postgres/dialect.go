// Package postgres provides the PostgreSQL SQL dialect definition.
// It is used as a render target for converted queries.
package postgres

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// Config is the PostgreSQL dialect configuration.
var Config = &core.DialectConfig{
	Name: "postgres",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Normalization: core.NormLowercase, // Postgres normalizes unquoted to lowercase
	},
	RowLimit:     core.RowLimitLimit,
	TableAliasAS: true,
}

// postgresReservedWords contains common PostgreSQL reserved words.
var postgresReservedWords = []string{
	"user", "order", "group", "table", "select", "from", "where",
	"all", "and", "any", "array", "as", "asc", "authorization",
	"between", "both", "case", "cast", "check", "collate", "column",
	"constraint", "create", "cross", "current_date", "current_user",
	"default", "desc", "distinct", "do", "else", "end", "except", "false",
	"fetch", "for", "foreign", "full", "grant", "having", "ilike", "in",
	"inner", "intersect", "into", "is", "join", "lateral", "leading", "left",
	"like", "limit", "natural", "not", "null", "offset", "on", "only", "or",
	"outer", "primary", "references", "returning", "right", "some", "then",
	"to", "trailing", "true", "union", "unique", "using", "when", "window", "with",
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.New(Config).
	Clauses(dialect.StandardSelectClauses...).
	Operators(dialect.ANSIOperators).
	JoinTypes(dialect.ANSIJoinTypes).
	WithReservedWords(postgresReservedWords...).
	Aliases(map[string]string{
		"NVL":    "COALESCE",
		"SUBSTR": "SUBSTRING",
	}).
	Build()
