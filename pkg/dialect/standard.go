package dialect

import (
	"github.com/leapstack-labs/ansijoin/pkg/spi"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// --- Standard Clause Definitions ---
// These are pre-configured ClauseDefs that dialects can compose.
// Each bundles the token, handler, slot, and formatting metadata.

var (
	// StandardWhere is the standard WHERE clause definition.
	StandardWhere = ClauseDef{
		Token:   token.WHERE,
		Handler: ParseWhere,
		Slot:    spi.SlotWhere,
	}

	// StandardGroupBy is the standard GROUP BY clause definition.
	StandardGroupBy = ClauseDef{
		Token:    token.GROUP,
		Handler:  ParseGroupBy,
		Slot:     spi.SlotGroupBy,
		Keywords: []string{"GROUP", "BY"},
	}

	// StandardHaving is the standard HAVING clause definition.
	StandardHaving = ClauseDef{
		Token:   token.HAVING,
		Handler: ParseHaving,
		Slot:    spi.SlotHaving,
	}

	// StandardOrderBy is the standard ORDER BY clause definition.
	StandardOrderBy = ClauseDef{
		Token:    token.ORDER,
		Handler:  ParseOrderBy,
		Slot:     spi.SlotOrderBy,
		Keywords: []string{"ORDER", "BY"},
	}

	// StandardLimit is the LIMIT clause definition.
	StandardLimit = ClauseDef{
		Token:   token.LIMIT,
		Handler: ParseLimit,
		Slot:    spi.SlotLimit,
		Inline:  true,
	}

	// StandardOffset is the OFFSET clause definition.
	StandardOffset = ClauseDef{
		Token:   token.OFFSET,
		Handler: ParseOffset,
		Slot:    spi.SlotOffset,
		Inline:  true,
	}

	// StandardFetch is the FETCH FIRST clause definition (SQL:2008).
	StandardFetch = ClauseDef{
		Token:   token.FETCH,
		Handler: ParseFetch,
		Slot:    spi.SlotFetch,
		Inline:  true,
	}
)

// StandardSelectClauses is the clause sequence shared by every dialect.
// Row limiting clauses are appended by Build according to the RowLimit style.
var StandardSelectClauses = []ClauseDef{
	StandardWhere,
	StandardGroupBy,
	StandardHaving,
	StandardOrderBy,
}
