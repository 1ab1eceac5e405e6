package joinmark

import (
	"fmt"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// Kind identifies the condition a diagnostic reports.
type Kind string

// Diagnostic kinds.
const (
	// KindNonConvertible marks a join mark left in the output.
	KindNonConvertible Kind = "non-convertible-predicate"
	// KindAmbiguousMerge marks two predicates that target the same table
	// with different join kinds. The first kind is kept.
	KindAmbiguousMerge Kind = "ambiguous-merge-target"
)

// Diagnostic is a soft finding produced while rewriting a statement.
type Diagnostic struct {
	Kind     Kind
	Severity core.Severity
	Query    int // 1-based ordinal of the query block
	Pos      token.Position
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}
