package convert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/ansijoin/pkg/joinmark"
)

// StatementResult is the outcome of one statement of a batch.
type StatementResult struct {
	Fragment Fragment
	// Result is nil for blank fragments and failed statements.
	Result *Result
	// Err is the conversion failure; the statement is then emitted as written.
	Err error
}

// SQL returns the statement text to emit, without terminator.
func (s StatementResult) SQL() string {
	if s.Result != nil {
		return s.Result.SQL
	}
	text := strings.TrimSpace(s.Fragment.Text)
	if !s.Fragment.Blank && endsInLineComment(text) {
		text += "\n"
	}
	return text
}

// BatchResult holds the per-statement outcomes of a script, in input order.
type BatchResult struct {
	Statements []StatementResult
	Pretty     bool
}

// SQL rejoins the statements into a script. Statements are terminated by
// a semicolon; pretty output separates them with a blank line. Blank
// fragments keep their comments and get no terminator.
func (b *BatchResult) SQL() string {
	sep := "\n"
	if b.Pretty {
		sep = "\n\n"
	}

	var sb strings.Builder
	for i, s := range b.Statements {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(s.SQL())
		if !s.Fragment.Blank {
			sb.WriteString(";")
		}
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

// Failed returns the number of statements that could not be converted.
func (b *BatchResult) Failed() int {
	n := 0
	for _, s := range b.Statements {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Converted returns the number of predicates turned into joins.
func (b *BatchResult) Converted() int {
	n := 0
	for _, s := range b.Statements {
		if s.Result != nil {
			n += s.Result.Converted
		}
	}
	return n
}

// Diagnostics returns every diagnostic of the batch with script positions.
func (b *BatchResult) Diagnostics() []joinmark.Diagnostic {
	var diags []joinmark.Diagnostic
	for _, s := range b.Statements {
		if s.Result != nil {
			diags = append(diags, s.Result.Diagnostics...)
		}
	}
	return diags
}

// Marks counts the join marks of the statements that parsed.
func (b *BatchResult) Marks() int {
	n := 0
	for _, s := range b.Statements {
		if s.Result != nil {
			n += s.Result.Marks
		}
	}
	return n
}

// Remaining counts the join marks left in the converted statements.
func (b *BatchResult) Remaining() int {
	n := 0
	for _, s := range b.Statements {
		if s.Result != nil {
			n += s.Result.Remaining
		}
	}
	return n
}

// NeedsReview reports whether any statement failed or needs review.
func (b *BatchResult) NeedsReview() bool {
	for _, s := range b.Statements {
		if s.Err != nil || (s.Result != nil && s.Result.NeedsReview()) {
			return true
		}
	}
	return false
}

// ConvertBatch splits text into statements and converts them in parallel.
// A statement that fails keeps its original text and records the error;
// the others convert normally. The returned error is non-nil only when ctx
// is done.
func (c *Converter) ConvertBatch(ctx context.Context, text string) (*BatchResult, error) {
	start := time.Now()
	frags := SplitStatements(text)
	results := make([]StatementResult, len(frags))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, frag := range frags {
		results[i].Fragment = frag
		if frag.Blank {
			continue
		}
		g.Go(func() error {
			res, err := c.ConvertStatement(gctx, frag.Text)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				relocate(err, frag)
				results[i].Err = fmt.Errorf("statement %d at %s: %w", i+1, frag.Pos, err)
				c.logger.Warn("statement left unchanged", "statement", i+1, "error", err)
				return nil
			}
			for j := range res.Diagnostics {
				res.Diagnostics[j].Pos = frag.Translate(res.Diagnostics[j].Pos)
			}
			results[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch conversion cancelled: %w", err)
	}

	batch := &BatchResult{Statements: results, Pretty: c.pretty}
	c.logger.Debug("batch converted",
		"statements", len(frags),
		"failed", batch.Failed(),
		"converted", batch.Converted(),
		"duration", time.Since(start))

	return batch, nil
}
