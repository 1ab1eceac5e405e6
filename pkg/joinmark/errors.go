package joinmark

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// ErrUnresolvableBaseTable is returned when the FROM table of a query became
// an outer-join target and no other table can take its place.
var ErrUnresolvableBaseTable = errors.New("cannot determine replacement base table")

// BaseTableError locates an unresolvable base table.
type BaseTableError struct {
	Query int // 1-based ordinal of the query block in the statement
	Table string
	Pos   token.Position
}

func (e *BaseTableError) Error() string {
	return fmt.Sprintf("query %d at %s: %v: %s is the outer-joined side of every join mark that references it",
		e.Query, e.Pos, ErrUnresolvableBaseTable, e.Table)
}

// Unwrap returns ErrUnresolvableBaseTable.
func (e *BaseTableError) Unwrap() error { return ErrUnresolvableBaseTable }

// NonConvertibleError explains why a marked predicate was left in WHERE.
type NonConvertibleError struct {
	Reason string
}

func (e *NonConvertibleError) Error() string {
	return "predicate is not convertible: " + e.Reason
}

func notConvertible(format string, args ...any) error {
	return &NonConvertibleError{Reason: fmt.Sprintf(format, args...)}
}
