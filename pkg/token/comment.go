package token

// CommentKind distinguishes line vs block comments.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // -- comment
	BlockComment                    // /* comment */
)

// Comment represents a SQL comment with position.
// Optimizer hints (/*+ ... */) are block comments too.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters (-- or /* */)
	Span Span
}

// IsHint reports whether the comment is an Oracle optimizer hint.
func (c *Comment) IsHint() bool {
	return c.Kind == BlockComment && len(c.Text) > 2 && c.Text[2] == '+'
}
