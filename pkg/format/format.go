package format

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
)

// Render formats a parsed SQL statement for the target dialect.
// With pretty set, clauses start on their own line and their contents are
// indented; otherwise the statement is written on a single line. Comments
// that preceded the statement are written first, one per line. Comments
// attached by Decorate are written next to their node; a statement that ends
// in a line comment keeps its final newline so a terminator can follow.
func Render(stmt *core.SelectStmt, d *dialect.Dialect, pretty bool) string {
	p := newPrinter(d, pretty)
	p.formatSelectStmt(stmt)
	if stmt != nil {
		_, trailing := commentsOf(stmt)
		p.formatTrailing(trailing)
	}
	return p.String()
}
