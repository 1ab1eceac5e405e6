package core

import "github.com/leapstack-labs/ansijoin/pkg/token"

// ---------- Statement Types ----------

// SelectStmt represents a complete SELECT statement with optional WITH clause.
type SelectStmt struct {
	NodeInfo
	With *WithClause
	Body *SelectBody

	// Comments that precede the statement in the source text.
	LeadingComments []*token.Comment
}

func (*SelectStmt) stmtNode() {}

// WithClause represents a WITH clause with CTEs.
type WithClause struct {
	NodeInfo
	Recursive bool
	CTEs      []*CTE
}

// CTE represents a Common Table Expression.
type CTE struct {
	NodeInfo
	Name    string
	Columns []string // optional column list: name (a, b) AS (...)
	Select  *SelectStmt
}

// SelectBody represents the body of a SELECT with possible set operations.
type SelectBody struct {
	NodeInfo
	Left  *SelectCore
	Op    SetOpType   // UNION, INTERSECT, EXCEPT, or empty
	All   bool        // UNION ALL
	Right *SelectBody // For chained set operations
}

// SetOpType represents the type of set operation.
type SetOpType string

// SetOpType constants for set operations in queries.
// Oracle's MINUS is parsed as SetOpExcept and rendered per dialect.
const (
	SetOpNone      SetOpType = ""
	SetOpUnion     SetOpType = "UNION"
	SetOpIntersect SetOpType = "INTERSECT"
	SetOpExcept    SetOpType = "EXCEPT"
)

// SelectCore represents one SELECT query block.
// It is the unit the join-mark rewrite operates on.
type SelectCore struct {
	NodeInfo
	Hint     string // optimizer hint comment, e.g. /*+ ORDERED */
	Distinct bool
	Columns  []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderByItem
	Limit    Expr
	Offset   Expr
	Fetch    *FetchClause
}

// FetchClause represents FETCH FIRST/NEXT n ROWS ONLY/WITH TIES.
type FetchClause struct {
	First    bool // true = FIRST, false = NEXT (semantically identical)
	Count    Expr // Number of rows (nil = 1 row implied)
	Percent  bool // FETCH FIRST n PERCENT ROWS
	WithTies bool // true = WITH TIES, false = ONLY
}

// SelectItem represents an item in the SELECT list.
type SelectItem struct {
	Star      bool   // SELECT *
	TableStar string // SELECT t.*
	Expr      Expr
	Alias     string
}

// FromClause represents the FROM clause.
type FromClause struct {
	NodeInfo
	Source TableRef
	Joins  []*Join
}

// Join represents a JOIN clause, including comma joins.
type Join struct {
	NodeInfo
	Type      JoinType
	Natural   bool
	Right     TableRef
	Condition Expr     // ON clause (mutually exclusive with Using)
	Using     []string // USING (col1, col2) columns
}

// HasCondition reports whether the join carries an ON or USING clause.
func (j *Join) HasCondition() bool {
	return j.Condition != nil || len(j.Using) > 0 || j.Natural
}

// OrderByItem represents an item in ORDER BY clause.
type OrderByItem struct {
	Expr       Expr
	Desc       bool
	NullsFirst *bool // nil means default, true = NULLS FIRST, false = NULLS LAST
}
