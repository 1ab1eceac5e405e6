package core

import "github.com/leapstack-labs/ansijoin/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
}

// Expr is a marker interface for expression nodes.
// The set of implementations is closed: only types in this package satisfy it.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// TableRef is a table reference in a FROM or JOIN clause.
type TableRef interface {
	Node
	// Identity returns the alias if present, else the table name.
	Identity() string
	tableRefNode()
}

// NodeInfo carries the source span of a node and the comments attached to it.
// Nodes built by rewrites rather than the parser have a zero span.
type NodeInfo struct {
	Span     token.Span
	Comments *NodeComments
}

// NodeComments holds the source comments written around a node.
type NodeComments struct {
	Leading  []*token.Comment
	Trailing []*token.Comment
}

// AttachedComments returns the comments attached to the node, or nil.
func (n NodeInfo) AttachedComments() *NodeComments { return n.Comments }

// AddLeadingComment attaches a comment written before the node.
func (n *NodeInfo) AddLeadingComment(c *token.Comment) {
	if n.Comments == nil {
		n.Comments = &NodeComments{}
	}
	n.Comments.Leading = append(n.Comments.Leading, c)
}

// AddTrailingComment attaches a comment written after the node.
func (n *NodeInfo) AddTrailingComment(c *token.Comment) {
	if n.Comments == nil {
		n.Comments = &NodeComments{}
	}
	n.Comments.Trailing = append(n.Comments.Trailing, c)
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Span.Start }

// End implements Node.
func (n NodeInfo) End() token.Position { return n.Span.End }
