// Package duckdb provides the DuckDB SQL dialect definition.
// It is used as a render target for converted queries.
package duckdb

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// Config is the DuckDB dialect configuration.
var Config = &core.DialectConfig{
	Name: "duckdb",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Normalization: core.NormLowercase,
	},
	RowLimit:     core.RowLimitLimit,
	TableAliasAS: true,
}

// DuckDB is the DuckDB dialect.
var DuckDB = dialect.New(Config).
	Clauses(dialect.StandardSelectClauses...).
	Operators(dialect.ANSIOperators).
	JoinTypes(dialect.ANSIJoinTypes).
	WithReservedWords(
		"all", "and", "as", "asc", "between", "by", "case", "cast", "cross",
		"desc", "distinct", "else", "end", "except", "exists", "false",
		"from", "full", "group", "having", "in", "inner", "intersect", "is",
		"join", "left", "like", "limit", "natural", "not", "null", "offset",
		"on", "or", "order", "outer", "qualify", "right", "select", "then",
		"true", "union", "using", "when", "where", "window", "with",
	).
	Aliases(map[string]string{
		"NVL": "COALESCE",
	}).
	Build()
