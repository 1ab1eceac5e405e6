package parser

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel wrapped by every error this package returns.
var ErrParse = errors.New("parse error")

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Unwrap lets callers match any parse failure with errors.Is(err, ErrParse).
func (e *ParseError) Unwrap() error { return ErrParse }

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Unwrap returns ErrParse.
func (e *LexError) Unwrap() error { return ErrParse }

// Common error messages
const (
	ErrUnexpectedToken      = "unexpected token %s, expected %s"
	ErrUnterminatedString   = "unterminated string literal"
	ErrUnterminatedIdent    = "unterminated quoted identifier"
	ErrUnterminatedComment  = "unterminated block comment"
	ErrIllegalCharacter     = "illegal character %q"
	ErrTrailingInput        = "unexpected %s after end of statement"
	ErrUnsupportedClause    = "%s is not supported in %s dialect"
	ErrJoinMarkNotSupported = "the (+) join marker is not supported in %s dialect"
)
