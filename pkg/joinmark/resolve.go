package joinmark

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
)

// resolveBase replaces the FROM table when it became a join target.
// The replacement is the first table of the FROM list that was joined by a
// plain comma or CROSS JOIN and is not itself a join target. It keeps its
// alias and is removed from the old join set.
//
// Tables joined with their own ON or USING clause (INNER, LEFT, NATURAL and
// so on) are never candidates, even when they are not join targets: Oracle
// rejects (+) in a query block that also uses ANSI joins, and moving such a
// table to FROM would drop its condition. A query whose only other tables
// are joined that way fails with ErrUnresolvableBaseTable.
func (q *query) resolveBase() error {
	if !q.joins.Has(q.baseKey) {
		return nil
	}

	for _, key := range q.old.Keys() {
		if q.joins.Has(key) {
			continue
		}
		old := q.old.Get(key)
		if old.HasCondition() || (old.Type != core.JoinComma && old.Type != core.JoinCross) {
			continue
		}

		q.logger.Debug("replacing base table",
			"query", q.ordinal,
			"from", q.baseKey,
			"to", key)

		q.core.From.Source = old.Right
		q.old.Delete(key)
		q.swappedBase = q.baseKey
		q.baseKey = key
		q.base = old.Right
		return nil
	}

	return &BaseTableError{
		Query: q.ordinal,
		Table: q.baseKey,
		Pos:   q.base.Pos(),
	}
}

// assemble builds the final join list: every original join in its original
// position, replaced by its converted form when one exists, followed by the
// join of a replaced base table.
func (q *query) assemble() {
	joins := make([]*core.Join, 0, len(q.core.From.Joins)+1)
	for _, old := range q.core.From.Joins {
		key := q.identity(old.Right)
		if !q.old.Has(key) {
			// promoted to base table
			continue
		}
		if j := q.joins.Get(key); j != nil {
			joins = append(joins, j)
			continue
		}
		joins = append(joins, old)
	}
	if q.swappedBase != "" {
		joins = append(joins, q.joins.Get(q.swappedBase))
	}

	if q.reorder {
		joins = q.reorderJoins(joins)
	}
	q.core.From.Joins = crossBeforeExplicit(joins)
}

// crossBeforeExplicit turns comma joins that precede an explicit join into
// CROSS JOINs. A comma binds looser than JOIN, so in "a, b LEFT JOIN c ON
// a.id = c.id" the ON condition cannot see a; "a CROSS JOIN b LEFT JOIN c"
// keeps the same rows and scopes every table before the ON condition.
// Join order is untouched.
func crossBeforeExplicit(joins []*core.Join) []*core.Join {
	lastExplicit := -1
	for i, j := range joins {
		if j.Type != core.JoinComma {
			lastExplicit = i
		}
	}
	for _, j := range joins[:lastExplicit+1] {
		if j.Type == core.JoinComma {
			j.Type = core.JoinCross
		}
	}
	return joins
}

// reorderJoins stably moves each join after the joins declaring the tables
// its condition references.
func (q *query) reorderJoins(joins []*core.Join) []*core.Join {
	declared := map[string]bool{q.baseKey: true}
	pending := append([]*core.Join(nil), joins...)
	ordered := make([]*core.Join, 0, len(joins))

	for len(pending) > 0 {
		next := 0
		for i, j := range pending {
			if q.ready(j, declared) {
				next = i
				break
			}
		}
		j := pending[next]
		pending = append(pending[:next], pending[next+1:]...)
		declared[q.identity(j.Right)] = true
		ordered = append(ordered, j)
	}
	return ordered
}

// ready reports whether every table j's condition references is declared.
func (q *query) ready(j *core.Join, declared map[string]bool) bool {
	self := q.identity(j.Right)
	for _, key := range q.referencedTables(j.Condition) {
		if key != self && !declared[key] && q.tables[key] != nil {
			return false
		}
	}
	return true
}
