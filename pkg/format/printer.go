// Package format renders a parsed SQL statement back to text for a dialect.
//
// Two layouts are supported: pretty (one clause per line, list items and
// conditions indented) and compact (a single line). Both are stable under
// parse-then-render: rendering the parse of rendered output reproduces it.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

const indentSize = 2

// Printer handles SQL formatting with proper indentation and style.
type Printer struct {
	dialect     *dialect.Dialect
	pretty      bool
	output      *bytes.Buffer
	depth       int
	atLineStart bool

	// compact mode turns line breaks into a single pending space
	pendingSpace bool

	// trailing line comments wait for the end of the line
	lineComments []*token.Comment
	// the last thing written is a line comment and its newline
	afterLineComment bool
}

func newPrinter(d *dialect.Dialect, pretty bool) *Printer {
	return &Printer{
		dialect:     d,
		pretty:      pretty,
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the formatted output without a trailing newline, unless
// the output ends in a line comment.
func (p *Printer) String() string {
	p.flushLineComments()
	out := strings.TrimRight(p.output.String(), "\n ")
	if p.afterLineComment {
		out += "\n"
	}
	return out
}

func (p *Printer) write(s string) {
	if s == "" {
		return
	}
	if p.pendingSpace {
		p.pendingSpace = false
		if !p.lastByteIs('(') && s[0] != ')' && s[0] != ',' {
			p.output.WriteByte(' ')
		}
	}
	if p.atLineStart && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
	p.afterLineComment = false
}

func (p *Printer) lastByteIs(b byte) bool {
	n := p.output.Len()
	return n > 0 && p.output.Bytes()[n-1] == b
}

func (p *Printer) writeln() {
	if len(p.lineComments) > 0 {
		p.flushLineComments()
		return
	}
	if !p.pretty {
		if p.output.Len() > 0 && !p.lastByteIs(' ') && !p.lastByteIs('\n') {
			p.pendingSpace = true
		}
		return
	}
	p.output.WriteByte('\n')
	p.atLineStart = true
}

// hardNewline ends the line in both layouts. Line comments need it.
func (p *Printer) hardNewline() {
	p.pendingSpace = false
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	if !p.pretty {
		p.atLineStart = false
		return
	}
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) keyword(s string) {
	p.write(strings.ToUpper(s))
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	if p.pendingSpace || p.atLineStart {
		return
	}
	p.output.WriteByte(' ')
}

// kw prints keywords based on the token type.
func (p *Printer) kw(tokens ...token.TokenType) {
	for i, t := range tokens {
		if i > 0 {
			p.space()
		}
		p.write(t.String())
	}
}

// ident writes an identifier, quoting it when it is reserved in the target dialect.
func (p *Printer) ident(name string) {
	p.write(p.dialect.QuoteIdentifierIfNeeded(name))
}

func (p *Printer) formatComments(comments []*token.Comment) {
	for _, c := range comments {
		p.write(c.Text)
		p.hardNewline()
	}
}

// formatLeading writes comments attached ahead of a node. A line comment
// ends the line.
func (p *Printer) formatLeading(comments []*token.Comment) {
	for _, c := range comments {
		if c.Kind == token.BlockComment {
			p.write(c.Text)
			p.pendingSpace = true
			continue
		}
		p.flushLineComments()
		p.write(c.Text)
		p.hardNewline()
		p.afterLineComment = true
	}
}

// formatTrailing writes block comments right after the node and queues line
// comments until the line ends, so separators written after the node stay
// ahead of them.
func (p *Printer) formatTrailing(comments []*token.Comment) {
	for _, c := range comments {
		if c.Kind == token.LineComment {
			p.lineComments = append(p.lineComments, c)
			continue
		}
		p.space()
		p.write(c.Text)
	}
}

// flushLineComments writes the queued line comments, the first one on the
// current line, and ends the line.
func (p *Printer) flushLineComments() {
	if len(p.lineComments) == 0 {
		return
	}
	p.pendingSpace = false
	for _, c := range p.lineComments {
		if !p.atLineStart && !p.lastByteIs(' ') {
			p.output.WriteByte(' ')
		}
		p.write(c.Text)
		p.hardNewline()
	}
	p.lineComments = nil
	p.afterLineComment = true
}

// commentsOf returns the comments Decorate attached to n.
func commentsOf(n core.Node) (leading, trailing []*token.Comment) {
	c, ok := n.(interface{ AttachedComments() *core.NodeComments })
	if !ok {
		return nil, nil
	}
	cs := c.AttachedComments()
	if cs == nil {
		return nil, nil
	}
	return cs.Leading, cs.Trailing
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index,
// sep is the separator string, multiline adds newlines after separators.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			}
		}
	}
}
