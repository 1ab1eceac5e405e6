// Package spi provides Service Provider Interface types for dialect
// clause handlers to interact with the parser without circular dependencies.
package spi

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// ParserOps exposes parser operations to dialect clause handlers.
type ParserOps interface {
	// Token access
	Token() token.Token
	Peek() token.Token

	// Consumption
	Match(t token.TokenType) bool
	Expect(t token.TokenType) error
	NextToken()
	Check(t token.TokenType) bool

	// Sub-parsers
	ParseExpression() (core.Expr, error)
	ParseExpressionList() ([]core.Expr, error)
	ParseOrderByList() ([]core.OrderByItem, error)

	// Error handling
	AddError(msg string)
	Position() token.Position
}

// ClauseHandler parses a dialect-specific clause.
// Called AFTER the clause keyword has been consumed.
type ClauseHandler func(p ParserOps) (any, error)

// InfixHandler parses a dialect-specific infix operator.
// Called AFTER the operator has been consumed.
// left is the already-parsed left operand.
type InfixHandler func(p ParserOps, left core.Expr) (core.Expr, error)

// Precedence constants for operator precedence parsing.
const (
	PrecedenceNone       = 0
	PrecedenceOr         = 1
	PrecedenceAnd        = 2
	PrecedenceNot        = 3
	PrecedenceComparison = 4 // =, <>, <, >, <=, >=, LIKE, IN, BETWEEN
	PrecedenceAddition   = 5 // +, -, ||
	PrecedenceMultiply   = 6 // *, /, %
	PrecedenceUnary      = 7 // -, +, NOT
	PrecedencePostfix    = 8 // ()
)

// ClauseSlot specifies where a parsed clause result is stored in SelectCore.
type ClauseSlot int

// ClauseSlot constants define where parsed clause results are stored in SelectCore.
const (
	SlotWhere ClauseSlot = iota
	SlotGroupBy
	SlotHaving
	SlotOrderBy
	SlotLimit
	SlotOffset
	SlotFetch
)

// String returns the slot name for debugging.
func (s ClauseSlot) String() string {
	switch s {
	case SlotWhere:
		return "WHERE"
	case SlotGroupBy:
		return "GROUP BY"
	case SlotHaving:
		return "HAVING"
	case SlotOrderBy:
		return "ORDER BY"
	case SlotLimit:
		return "LIMIT"
	case SlotOffset:
		return "OFFSET"
	case SlotFetch:
		return "FETCH"
	default:
		return "UNKNOWN"
	}
}
