package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	dialect *dialect.Dialect

	// Comments collected during lexing, including optimizer hints.
	Comments []*token.Comment

	// Errors collected during lexing. The offending text becomes an ILLEGAL token.
	Errors []error
}

// NewLexer creates a new dialect-aware Lexer for the given input.
// A nil dialect only recognizes builtin keywords.
func NewLexer(input string, d *dialect.Dialect) *Lexer {
	l := &Lexer{
		input:   input,
		line:    1,
		col:     0,
		dialect: d,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// atEOF distinguishes the end of input from a NUL byte inside it.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	var tok Token
	tok.Pos = pos

	if l.atEOF() {
		tok.Type = TOKEN_EOF
		return tok
	}

	switch l.ch {
	case '+':
		tok = l.newToken(TOKEN_PLUS, "+")
	case '-':
		tok = l.newToken(TOKEN_MINUS, "-")
	case '*':
		tok = l.newToken(TOKEN_STAR, "*")
	case '/':
		tok = l.newToken(TOKEN_SLASH, "/")
	case '%':
		tok = l.newToken(TOKEN_PERCENT, "%")
	case '=':
		tok = l.newToken(TOKEN_EQ, "=")
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = Token{Type: TOKEN_LE, Literal: "<=", Pos: pos}
		case '>':
			l.readChar()
			tok = Token{Type: TOKEN_NE, Literal: "<>", Pos: pos}
		default:
			tok = l.newToken(TOKEN_LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TOKEN_GE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_GT, ">")
		}
	case '!', '^':
		// != and Oracle's ^=
		if l.peekChar() == '=' {
			first := l.ch
			l.readChar()
			tok = Token{Type: TOKEN_NE, Literal: string(first) + "=", Pos: pos}
		} else {
			tok = l.illegal(pos)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = Token{Type: TOKEN_DPIPE, Literal: "||", Pos: pos}
		} else {
			tok = l.illegal(pos)
		}
	case '.':
		if isDigit(l.peekChar()) {
			return Token{Type: TOKEN_NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		tok = l.newToken(TOKEN_DOT, ".")
	case ',':
		tok = l.newToken(TOKEN_COMMA, ",")
	case '(':
		tok = l.newToken(TOKEN_LPAREN, "(")
	case ')':
		tok = l.newToken(TOKEN_RPAREN, ")")
	case '@':
		tok = l.newToken(TOKEN_AT, "@")
	case ';':
		tok = l.newToken(TOKEN_SEMICOLON, ";")
	case '?':
		tok = l.newToken(TOKEN_PARAM, "?")
	case ':':
		if isLetter(l.peekChar()) || isDigit(l.peekChar()) || l.peekChar() == '_' {
			return Token{Type: TOKEN_PARAM, Literal: l.readBindParam(), Pos: pos}
		}
		tok = l.illegal(pos)
	case '\'':
		return l.readString(pos)
	case '"':
		return l.readQuotedIdentifier(pos)
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			tok.Literal = l.readIdentifier()
			tok.Type = l.lookupKeyword(tok.Literal)
			tok.Pos = pos
			return tok
		case isDigit(l.ch):
			tok.Type = TOKEN_NUMBER
			tok.Literal = l.readNumber()
			tok.Pos = pos
			return tok
		default:
			tok = l.illegal(pos)
		}
	}

	l.readChar()
	return tok
}

// lookupKeyword resolves an unquoted word to a keyword token or IDENT.
func (l *Lexer) lookupKeyword(word string) TokenType {
	lowerIdent := strings.ToLower(word)
	// Builtin keywords first
	if t := token.LookupIdent(lowerIdent); t != TOKEN_IDENT {
		return t
	}
	// Dialect keywords (MINUS in Oracle)
	if l.dialect != nil {
		if t, ok := l.dialect.LookupKeyword(lowerIdent); ok {
			return t
		}
	}
	return TOKEN_IDENT
}

// newToken creates a new token.
func (l *Lexer) newToken(tokenType TokenType, literal string) Token {
	return Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// illegal records an error for the current character and returns an ILLEGAL token.
func (l *Lexer) illegal(pos Position) Token {
	l.addError(pos, fmt.Sprintf(ErrIllegalCharacter, l.ch))
	return Token{Type: TOKEN_ILLEGAL, Literal: string(l.ch), Pos: pos}
}

func (l *Lexer) addError(pos Position, msg string) {
	l.Errors = append(l.Errors, &LexError{Pos: pos, Message: msg})
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			l.collectLineComment()
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.collectBlockComment()
			continue
		}

		break
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: strings.TrimRight(l.input[startOffset:l.pos], "\r"),
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	closed := false
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			closed = true
			break
		}
		l.readChar()
	}
	if !closed {
		l.addError(startPos, ErrUnterminatedComment)
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readString reads a single-quoted string literal.
// Doubled single quotes are an escaped quote: 'it''s' -> it's
func (l *Lexer) readString(pos Position) Token {
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		if l.atEOF() {
			l.addError(pos, ErrUnterminatedString)
			return Token{Type: TOKEN_ILLEGAL, Literal: result.String(), Pos: pos}
		}
		if l.ch == '\'' {
			if l.peekChar() != '\'' {
				l.readChar() // skip closing quote
				break
			}
			result.WriteByte('\'')
			l.readChar()
			l.readChar()
			continue
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return Token{Type: TOKEN_STRING, Literal: result.String(), Pos: pos}
}

// readQuotedIdentifier reads a double-quoted identifier.
// The literal keeps its quotes so the identifier is written back verbatim.
func (l *Lexer) readQuotedIdentifier(pos Position) Token {
	start := l.pos
	l.readChar() // skip opening quote

	for {
		if l.atEOF() {
			l.addError(pos, ErrUnterminatedIdent)
			return Token{Type: TOKEN_ILLEGAL, Literal: l.input[start:l.pos], Pos: pos}
		}
		if l.ch == '"' {
			if l.peekChar() != '"' {
				l.readChar() // skip closing quote
				break
			}
			l.readChar()
		}
		l.readChar()
	}
	return Token{Type: TOKEN_IDENT, Literal: l.input[start:l.pos], Pos: pos, Quoted: true}
}

// readIdentifier reads an unquoted identifier.
// Oracle allows $ and # after the first character.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' || l.ch == '#' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readBindParam reads :name or :1.
func (l *Lexer) readBindParam() string {
	start := l.pos
	l.readChar() // skip ':'
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Exponent (1e10, 1E-5)
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// isLetter returns true if ch is a letter. Bytes above ASCII are
// treated as letters so UTF-8 identifiers survive tokenizing.
func isLetter(ch byte) bool {
	return ch >= 0x80 || unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, ending with EOF.
func Tokenize(input string, d *dialect.Dialect) []Token {
	l := NewLexer(input, d)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens
}
