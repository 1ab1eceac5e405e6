package core

import "github.com/leapstack-labs/ansijoin/pkg/token"

// JoinType represents the type of join.
// The value is the SQL keyword (e.g., "LEFT", "INNER").
type JoinType string

// Standard ANSI SQL join type values.
const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"

	// JoinComma represents an implicit cross join using comma syntax.
	// It is not a TYPE JOIN keyword pattern, so it is kept here rather
	// than in the dialect join tables.
	JoinComma JoinType = ","
)

// IsOuter reports whether the join preserves unmatched rows of either side.
func (t JoinType) IsOuter() bool {
	return t == JoinLeft || t == JoinRight || t == JoinFull
}

// JoinTypeDef defines a dialect join type.
type JoinTypeDef struct {
	Token         token.TokenType // The trigger token for this join type
	Type          JoinType        // JoinType value (e.g., "LEFT")
	OptionalToken token.TokenType // Optional modifier token (OUTER) - 0 means none
	RequiresOn    bool            // true if ON clause is required
	AllowsUsing   bool            // true if USING clause is allowed
}
