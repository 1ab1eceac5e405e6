// Package oracle provides the Oracle SQL dialect definition.
// It is the source dialect of the join-mark conversion: the only dialect
// that parses the (+) outer-join marker.
package oracle

import "github.com/leapstack-labs/ansijoin/pkg/core"

// Config is the Oracle dialect configuration.
// The Builder reads feature flags and auto-wires:
//   - MINUS as the EXCEPT keyword
//   - OFFSET ... ROWS / FETCH FIRST ... ROWS ONLY row limiting
var Config = &core.DialectConfig{
	Name: "oracle",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Normalization: core.NormUppercase, // Oracle folds unquoted identifiers to upper case
	},

	JoinMark:      true,
	ExceptKeyword: "MINUS",
	RowLimit:      core.RowLimitFetch,
	TableAliasAS:  false,

	Keywords: []string{
		"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "UNION",
		"INTERSECT", "MINUS", "DISTINCT", "CASE", "WHEN", "THEN", "ELSE", "END",
		"EXISTS", "IN", "BETWEEN", "LIKE", "IS", "NULL", "NOT", "AND", "OR",
		"NVL", "NVL2", "DECODE", "SYSDATE", "ROWNUM", "DUAL", "TO_CHAR",
		"TO_DATE", "TO_NUMBER", "TRUNC", "SUBSTR", "INSTR", "LISTAGG",
		"OFFSET", "FETCH", "FIRST", "NEXT", "ROWS", "ONLY",
	},
}
