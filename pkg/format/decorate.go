package format

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// anchor is a node a comment can be attached to: an expression or a table
// reference. The printer writes the comments of both.
type anchor interface {
	core.Node
	AddLeadingComment(c *token.Comment)
	AddTrailingComment(c *token.Comment)
}

// Decorate attaches comments to expressions and table references by
// position, so they travel with their node when predicates move into ON
// clauses or tables are reordered. A line comment that follows a node on the
// same line trails the closest such node; a block comment on the same line
// goes to whichever neighbor is nearer. Any other comment leads the node
// that starts after it. Comments with neither stay with the statement and
// are written after it.
//
// AND chains and parentheses never carry comments: the join-mark rewrite
// takes them apart.
func Decorate(stmt *core.SelectStmt, comments []*token.Comment) *core.SelectStmt {
	if stmt == nil || len(comments) == 0 {
		return stmt
	}

	anchors := collectAnchors(stmt)
	for _, c := range comments {
		prev, next := preceding(anchors, c), following(anchors, c)
		switch {
		case prev != nil && (next == nil || c.Kind == token.LineComment || !closerAfter(prev, next, c)):
			prev.AddTrailingComment(c)
		case next != nil:
			next.AddLeadingComment(c)
		default:
			stmt.AddTrailingComment(c)
		}
	}
	return stmt
}

// closerAfter reports whether a block comment sits nearer to the node after
// it than to the node before it, as in "WHERE /* hot */ x = 1".
func closerAfter(prev, next anchor, c *token.Comment) bool {
	return next.Pos().Offset-c.Span.End.Offset < c.Span.Start.Offset-prev.End().Offset
}

// collectAnchors lists candidate nodes in pre-order, so an outer node comes
// before the nodes nested in it.
func collectAnchors(stmt *core.SelectStmt) []anchor {
	var out []anchor
	core.Inspect(stmt, func(n core.Node) bool {
		switch x := n.(type) {
		case *core.BinaryExpr:
			if x.Op == token.AND {
				return true
			}
		case *core.ParenExpr:
			return true
		}
		_, isExpr := n.(core.Expr)
		_, isTable := n.(core.TableRef)
		if !isExpr && !isTable {
			return true
		}
		if a, ok := n.(anchor); ok && n.Pos().IsValid() && n.End().IsValid() {
			out = append(out, a)
		}
		return true
	})
	return out
}

// preceding returns the node ending closest before c on the line c starts on.
// Of nodes ending at the same place the outermost wins.
func preceding(anchors []anchor, c *token.Comment) anchor {
	var best anchor
	for _, a := range anchors {
		end := a.End()
		if end.Line != c.Span.Start.Line || end.Offset > c.Span.Start.Offset {
			continue
		}
		if best == nil || end.Offset > best.End().Offset {
			best = a
		}
	}
	return best
}

// following returns the node starting closest after c.
// Of nodes starting at the same place the outermost wins.
func following(anchors []anchor, c *token.Comment) anchor {
	var best anchor
	for _, a := range anchors {
		pos := a.Pos()
		if pos.Offset < c.Span.End.Offset {
			continue
		}
		if best == nil || pos.Offset < best.Pos().Offset {
			best = a
		}
	}
	return best
}
