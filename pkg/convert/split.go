package convert

import (
	"strings"

	"github.com/leapstack-labs/ansijoin/pkg/parser"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// Fragment is one statement of a script, as written.
type Fragment struct {
	// Text is the source between two terminators, without the terminator
	// and leading whitespace.
	Text string
	// Pos is where Text starts in the script.
	Pos token.Position
	// Blank is set when Text holds only whitespace and comments.
	Blank bool
}

// Translate maps a position relative to the fragment onto the script.
func (f Fragment) Translate(pos token.Position) token.Position {
	if !pos.IsValid() {
		return pos
	}
	out := token.Position{
		Line:   f.Pos.Line + pos.Line - 1,
		Column: pos.Column,
		Offset: f.Pos.Offset + pos.Offset,
	}
	if pos.Line == 1 {
		out.Column = f.Pos.Column + pos.Column - 1
	}
	return out
}

// SplitStatements cuts a script into statements. A statement ends at a
// semicolon or at a line holding only a slash, as SQL*Plus scripts do.
// Terminators inside string literals, quoted identifiers and comments do
// not count. Whitespace-only pieces are dropped; comment-only pieces are
// kept as blank fragments so no comment is lost.
func SplitStatements(text string) []Fragment {
	var frags []Fragment

	start := 0
	tokens := 0
	emit := func(end int) {
		piece := strings.TrimLeft(text[start:end], " \t\r\n")
		if strings.TrimSpace(piece) == "" {
			return
		}
		offset := end - len(piece)
		frags = append(frags, Fragment{
			Text:  piece,
			Pos:   positionAt(text, offset),
			Blank: tokens == 0,
		})
	}

	for _, tok := range parser.Tokenize(text, nil) {
		switch {
		case tok.Type == token.EOF:
			emit(len(text))
			return frags
		case tok.Type == token.SEMICOLON,
			tok.Type == token.SLASH && aloneOnLine(text, tok.Pos.Offset):
			emit(tok.Pos.Offset)
			start = tok.Pos.Offset + 1
			tokens = 0
		default:
			tokens++
		}
	}
	return frags
}

// aloneOnLine reports whether the byte at offset is the only non-blank
// character of its line.
func aloneOnLine(text string, offset int) bool {
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	if strings.TrimSpace(text[lineStart:offset]) != "" {
		return false
	}
	rest := text[offset+1:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSpace(rest) == ""
}

func positionAt(text string, offset int) token.Position {
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - (strings.LastIndexByte(before, '\n') + 1) + 1
	return token.Position{Line: line, Column: col, Offset: offset}
}

// endsInLineComment reports whether text ends inside a line comment, so a
// terminator appended to it needs a line of its own.
func endsInLineComment(text string) bool {
	l := parser.NewLexer(text, nil)
	for l.NextToken().Type != token.EOF {
	}
	n := len(l.Comments)
	return n > 0 && l.Comments[n-1].Kind == token.LineComment &&
		l.Comments[n-1].Span.End.Offset >= len(text)
}
