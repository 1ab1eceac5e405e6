package joinmark

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// Options configures a rewrite.
type Options struct {
	// Dialect supplies identifier normalization, so that e.ID and E.id
	// name the same table. When nil, unquoted names compare case-insensitively.
	Dialect *dialect.Dialect

	// ReorderJoins moves joins after the tables their conditions reference.
	// Off by default: the FROM list order is kept as written.
	ReorderJoins bool

	Logger *slog.Logger
}

// Result is the outcome of rewriting one statement.
type Result struct {
	Stmt        *core.SelectStmt
	Diagnostics []Diagnostic

	// Converted counts predicates moved from WHERE into join conditions.
	Converted int
	// Remaining counts join marks left in the output.
	Remaining int
}

// NeedsReview reports whether the output still carries join marks or
// produced warnings.
func (r *Result) NeedsReview() bool {
	if r.Remaining > 0 {
		return true
	}
	for _, d := range r.Diagnostics {
		if d.Severity.AtLeast(core.SeverityWarning) {
			return true
		}
	}
	return false
}

// Rewrite converts the join marks of every query block in stmt. The input is
// not modified; the rewritten copy is returned in Result.Stmt. Query blocks
// are processed innermost first so a subquery is final before the query
// containing it is rewritten.
func Rewrite(stmt *core.SelectStmt, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	out := core.CloneStmt(stmt)
	res := &Result{Stmt: out}

	cores := core.SelectCores(out)
	for i := len(cores) - 1; i >= 0; i-- {
		q := newQuery(i+1, cores[i], opts, logger)
		if err := q.rewrite(); err != nil {
			return nil, err
		}
		res.Diagnostics = append(res.Diagnostics, q.diags...)
		res.Converted += q.converted
	}

	sort.SliceStable(res.Diagnostics, func(i, j int) bool {
		return res.Diagnostics[i].Pos.Offset < res.Diagnostics[j].Pos.Offset
	})
	res.Remaining = CountJoinMarks(out)

	logger.Debug("rewrote statement",
		"queries", len(cores),
		"converted", res.Converted,
		"remaining", res.Remaining,
		"diagnostics", len(res.Diagnostics))

	return res, nil
}

// query holds the state of one query block's rewrite.
type query struct {
	ordinal int
	core    *core.SelectCore
	norm    func(string) string
	reorder bool
	logger  *slog.Logger

	base    core.TableRef
	baseKey string
	tables  map[string]core.TableRef
	dup     string // an identity declared twice, if any

	old   *Registry // joins as written, by target identity
	joins *Registry // joins built from marked predicates

	swappedBase string // former base identity after a swap
	converted   int
	diags       []Diagnostic
}

func newQuery(ordinal int, sc *core.SelectCore, opts Options, logger *slog.Logger) *query {
	q := &query{
		ordinal: ordinal,
		core:    sc,
		norm:    normalizer(opts.Dialect),
		reorder: opts.ReorderJoins,
		logger:  logger,
		tables:  make(map[string]core.TableRef),
		old:     NewRegistry(),
		joins:   NewRegistry(),
	}
	if sc.From == nil {
		return q
	}

	q.base = sc.From.Source
	q.baseKey = q.identity(q.base)
	q.addTable(q.baseKey, q.base)
	for _, j := range sc.From.Joins {
		key := q.identity(j.Right)
		q.addTable(key, j.Right)
		if !q.old.Has(key) {
			q.old.Register(key, j)
		}
	}
	return q
}

func normalizer(d *dialect.Dialect) func(string) string {
	if d != nil {
		return d.NormalizeName
	}
	return func(name string) string {
		if strings.HasPrefix(name, `"`) {
			return name
		}
		return strings.ToUpper(name)
	}
}

func (q *query) identity(ref core.TableRef) string {
	if ref == nil {
		return ""
	}
	return q.norm(ref.Identity())
}

func (q *query) addTable(key string, ref core.TableRef) {
	if key == "" {
		// unaliased derived table, never a join target
		return
	}
	if _, ok := q.tables[key]; ok && q.dup == "" {
		q.dup = key
	}
	q.tables[key] = ref
}

// rewrite runs the conversion for one query block.
func (q *query) rewrite() error {
	marks := markedColumns(ColumnsInScope(q.core))
	if len(marks) == 0 {
		return nil
	}

	switch {
	case q.core.From == nil:
		for _, col := range marks {
			q.nonConvertible(col, "query has no FROM clause")
		}
		return nil
	case q.dup != "":
		for _, col := range marks {
			q.nonConvertible(col, fmt.Sprintf("table %s is declared twice", q.dup))
		}
		return nil
	}

	inWhere := make(map[*core.ColumnRef]bool)
	for _, col := range markedColumns(columnsOf(q.core.Where)) {
		inWhere[col] = true
	}
	for _, col := range marks {
		if !inWhere[col] {
			q.nonConvertible(col, "join mark outside the WHERE clause")
		}
	}

	skip := make(map[core.Expr]bool)
	for {
		c, ok := q.nextCandidate(skip)
		if !ok {
			break
		}

		term := *c.slot
		key, join, err := q.convert(unparen(term))
		if err != nil {
			skip[term] = true
			reason := err.Error()
			var nc *NonConvertibleError
			if errors.As(err, &nc) {
				reason = nc.Reason
			}
			q.nonConvertible(firstMark(term), reason)
			continue
		}

		detach(c)
		q.converted++
		q.logger.Debug("converted join mark",
			"query", q.ordinal,
			"table", key,
			"kind", string(join.Type))

		if q.joins.Register(key, join) {
			existing := q.joins.Get(key)
			q.diags = append(q.diags, Diagnostic{
				Kind:     KindAmbiguousMerge,
				Severity: core.SeverityInfo,
				Query:    q.ordinal,
				Pos:      join.Condition.Pos(),
				Message: fmt.Sprintf("join on %s combines %s and %s predicates; keeping %s JOIN",
					key, existing.Type, join.Type, existing.Type),
			})
		}
	}

	if q.joins.Len() == 0 {
		return nil
	}
	if err := q.resolveBase(); err != nil {
		return err
	}
	q.assemble()
	return nil
}

// nextCandidate returns the first WHERE term that carries a join mark and
// has not been rejected yet.
func (q *query) nextCandidate(skip map[core.Expr]bool) (conjunct, bool) {
	for _, c := range conjuncts(&q.core.Where) {
		if !skip[*c.slot] && ContainsJoinMark(*c.slot) {
			return c, true
		}
	}
	return conjunct{}, false
}

func (q *query) nonConvertible(col *core.ColumnRef, reason string) {
	var pos token.Position
	name := "column"
	if col != nil {
		pos = col.Pos()
		name = columnName(col)
	}
	q.diags = append(q.diags, Diagnostic{
		Kind:     KindNonConvertible,
		Severity: core.SeverityWarning,
		Query:    q.ordinal,
		Pos:      pos,
		Message:  fmt.Sprintf("join mark on %s left unconverted: %s", name, reason),
	})
}
