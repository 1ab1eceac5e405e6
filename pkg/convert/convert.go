// Package convert drives the join-mark rewrite over SQL text: it parses a
// statement in the source dialect, optionally flattens derived tables,
// rewrites (+) predicates into ANSI joins and renders the result in the
// target dialect. Scripts with many statements are converted in parallel.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	"github.com/leapstack-labs/ansijoin/pkg/flatten"
	"github.com/leapstack-labs/ansijoin/pkg/format"
	"github.com/leapstack-labs/ansijoin/pkg/joinmark"
	"github.com/leapstack-labs/ansijoin/pkg/parser"

	// Built-in dialects register themselves on import.
	_ "github.com/leapstack-labs/ansijoin/pkg/dialects/all"
)

// DefaultDialect is the source dialect used when none is configured.
const DefaultDialect = "oracle"

// DefaultWorkers bounds batch parallelism when Config.Workers is unset.
const DefaultWorkers = 4

// Config holds converter configuration.
type Config struct {
	// SourceDialect is the dialect input is parsed with (default oracle).
	SourceDialect string
	// TargetDialect is the dialect output is rendered in (default: the source dialect).
	TargetDialect string
	// Pretty renders one clause per line instead of a single line.
	Pretty bool
	// Flatten hoists derived tables into WITH before rewriting.
	Flatten bool
	// ReorderJoins moves joins after the tables their conditions reference.
	ReorderJoins bool
	// Workers bounds how many statements of a batch convert at once.
	Workers int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Converter converts statements between dialects. It is safe for
// concurrent use.
type Converter struct {
	source  *dialect.Dialect
	target  *dialect.Dialect
	pretty  bool
	flatten bool
	reorder bool
	workers int
	logger  *slog.Logger
}

// Result is the outcome of converting one statement. The embedded rewrite
// result carries the rewritten tree, its diagnostics and counts, and decides
// NeedsReview.
type Result struct {
	*joinmark.Result
	SQL string
	// Marks counts the join marks of the input statement.
	Marks int
}

// New creates a converter, resolving the configured dialects.
func New(cfg Config) (*Converter, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sourceName := cfg.SourceDialect
	if sourceName == "" {
		sourceName = DefaultDialect
	}
	source, err := dialect.Lookup(sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source dialect: %w", err)
	}

	target := source
	if cfg.TargetDialect != "" {
		target, err = dialect.Lookup(cfg.TargetDialect)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve target dialect: %w", err)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	logger.Debug("initializing converter",
		"source", source.Name, "target", target.Name,
		"pretty", cfg.Pretty, "flatten", cfg.Flatten, "workers", workers)

	return &Converter{
		source:  source,
		target:  target,
		pretty:  cfg.Pretty,
		flatten: cfg.Flatten,
		reorder: cfg.ReorderJoins,
		workers: workers,
		logger:  logger,
	}, nil
}

// Source returns the dialect statements are parsed with.
func (c *Converter) Source() *dialect.Dialect { return c.source }

// Target returns the dialect statements are rendered in.
func (c *Converter) Target() *dialect.Dialect { return c.target }

// ConvertStatement converts a single statement. Parse failures wrap
// parser.ErrParse; a query whose base table cannot be replaced returns a
// *joinmark.BaseTableError.
func (c *Converter) ConvertStatement(ctx context.Context, sql string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	stmt, comments, err := parser.ParseWithDialectAndComments(sql, c.source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement: %w", err)
	}
	format.Decorate(stmt, comments)

	if c.flatten {
		stmt = flatten.Subqueries(stmt)
	}

	rewritten, err := joinmark.Rewrite(stmt, joinmark.Options{
		Dialect:      c.source,
		ReorderJoins: c.reorder,
		Logger:       c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite join marks: %w", err)
	}

	res := &Result{
		Result: rewritten,
		SQL:    format.Render(rewritten.Stmt, c.target, c.pretty),
		Marks:  joinmark.CountJoinMarks(stmt),
	}

	c.logger.Debug("statement converted",
		"converted", res.Converted,
		"remaining", res.Remaining,
		"diagnostics", len(res.Diagnostics),
		"duration", time.Since(start))

	return res, nil
}

// ConvertStatement converts one statement written in the named dialect and
// renders it back in the same dialect on a single line.
func ConvertStatement(sql, dialectName string) (string, error) {
	c, err := New(Config{SourceDialect: dialectName})
	if err != nil {
		return "", err
	}
	res, err := c.ConvertStatement(context.Background(), sql)
	if err != nil {
		return "", err
	}
	return res.SQL, nil
}

// relocate rewrites the position carried by err so it refers to the script
// rather than to the fragment.
func relocate(err error, frag Fragment) {
	var parseErr *parser.ParseError
	var lexErr *parser.LexError
	var baseErr *joinmark.BaseTableError
	switch {
	case errors.As(err, &parseErr):
		parseErr.Pos = frag.Translate(parseErr.Pos)
	case errors.As(err, &lexErr):
		lexErr.Pos = frag.Translate(lexErr.Pos)
	case errors.As(err, &baseErr):
		baseErr.Pos = frag.Translate(baseErr.Pos)
	}
}
