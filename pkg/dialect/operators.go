package dialect

import (
	"github.com/leapstack-labs/ansijoin/pkg/spi"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// ANSIOperators contains standard SQL operators with their precedence.
var ANSIOperators = []OperatorDef{
	// Logical operators (lowest precedence)
	{Token: token.OR, Precedence: spi.PrecedenceOr},
	{Token: token.AND, Precedence: spi.PrecedenceAnd},

	// Comparison operators
	{Token: token.EQ, Precedence: spi.PrecedenceComparison},
	{Token: token.NE, Precedence: spi.PrecedenceComparison},
	{Token: token.LT, Precedence: spi.PrecedenceComparison},
	{Token: token.GT, Precedence: spi.PrecedenceComparison},
	{Token: token.LE, Precedence: spi.PrecedenceComparison},
	{Token: token.GE, Precedence: spi.PrecedenceComparison},
	{Token: token.LIKE, Precedence: spi.PrecedenceComparison},
	{Token: token.IN, Precedence: spi.PrecedenceComparison},
	{Token: token.BETWEEN, Precedence: spi.PrecedenceComparison},
	{Token: token.IS, Precedence: spi.PrecedenceComparison},
	{Token: token.NOT, Precedence: spi.PrecedenceComparison}, // x NOT IN / NOT LIKE / NOT BETWEEN

	// Additive operators
	{Token: token.PLUS, Precedence: spi.PrecedenceAddition},
	{Token: token.MINUS, Precedence: spi.PrecedenceAddition},
	{Token: token.DPIPE, Precedence: spi.PrecedenceAddition}, // || string concatenation

	// Multiplicative operators
	{Token: token.STAR, Precedence: spi.PrecedenceMultiply},
	{Token: token.SLASH, Precedence: spi.PrecedenceMultiply},
	{Token: token.PERCENT, Precedence: spi.PrecedenceMultiply},
}
