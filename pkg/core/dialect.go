package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data, no handler functions.
//
// The runtime behavior (clause handlers, infix handlers, etc.) lives in
// pkg/dialect.Dialect, which embeds this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "oracle", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// JoinMark enables the (+) outer-join marker after column references.
	JoinMark bool

	// ExceptKeyword is the keyword rendered for SetOpExcept ("EXCEPT" or "MINUS").
	ExceptKeyword string

	// RowLimit selects how row limits are written.
	RowLimit RowLimitStyle

	// TableAliasAS controls whether table aliases are written with AS.
	// Oracle rejects AS before a table alias.
	TableAliasAS bool

	// Keywords for completion in the REPL
	Keywords []string
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Oracle, Snowflake).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly.
	NormCaseSensitive
)

// RowLimitStyle defines how a dialect writes row limiting clauses.
type RowLimitStyle int

const (
	// RowLimitFetch writes OFFSET n ROWS FETCH FIRST m ROWS ONLY (ANSI, Oracle 12c).
	RowLimitFetch RowLimitStyle = iota
	// RowLimitLimit writes LIMIT m OFFSET n (Postgres, DuckDB).
	RowLimitLimit
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: "
	QuoteEnd      string                // End quote character (usually same as Quote)
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}
