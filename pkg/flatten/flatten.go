// Package flatten hoists derived tables out of FROM clauses into
// common table expressions.
//
// Converting join marks is simpler to read when every table of a query
// block is a plain name: a derived table in FROM becomes a WITH entry of
// the statement that contains it, and its FROM slot becomes a reference
// to that entry under the original alias.
//
//	SELECT * FROM emp e, (SELECT id FROM dept) d WHERE e.dept_id = d.id(+)
//
// becomes
//
//	WITH d AS (SELECT id FROM dept) SELECT * FROM emp e, d WHERE e.dept_id = d.id(+)
package flatten

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/ansijoin/pkg/core"
)

// Subqueries returns a copy of stmt with every aliased, non-LATERAL derived
// table in a FROM or JOIN clause moved into the WITH clause of its nearest
// enclosing statement. Hoisted entries are appended after existing CTEs so
// they can refer to them. A CTE is named after the derived table's alias
// unless that name is already taken by a table or CTE of the statement, in
// which case a numeric suffix is added and the alias is kept on the
// reference. The input is not modified.
func Subqueries(stmt *core.SelectStmt) *core.SelectStmt {
	if stmt == nil {
		return nil
	}
	out := core.CloneStmt(stmt)
	f := &flattener{taken: takenNames(out)}
	f.statement(out)
	return out
}

type flattener struct {
	taken map[string]bool
}

func (f *flattener) statement(stmt *core.SelectStmt) {
	var hoisted []*core.CTE

	core.Inspect(stmt, func(n core.Node) bool {
		switch x := n.(type) {
		case *core.SelectStmt:
			if x != stmt {
				f.statement(x)
				return false
			}
		case *core.FromClause:
			x.Source = f.hoist(x.Source, &hoisted)
			for _, j := range x.Joins {
				j.Right = f.hoist(j.Right, &hoisted)
			}
		}
		return true
	})

	if len(hoisted) == 0 {
		return
	}
	if stmt.With == nil {
		stmt.With = &core.WithClause{}
	}
	stmt.With.CTEs = append(stmt.With.CTEs, hoisted...)
}

func (f *flattener) hoist(ref core.TableRef, hoisted *[]*core.CTE) core.TableRef {
	dt, ok := ref.(*core.DerivedTable)
	if !ok || dt.Lateral || dt.Alias == "" || dt.Select == nil {
		return ref
	}

	// Inner derived tables land in the hoisted body's own WITH.
	f.statement(dt.Select)

	name := f.claim(dt.Alias)
	*hoisted = append(*hoisted, &core.CTE{
		NodeInfo: dt.NodeInfo,
		Name:     name,
		Select:   dt.Select,
	})

	tn := &core.TableName{NodeInfo: dt.NodeInfo, Name: name}
	if name != dt.Alias {
		tn.Alias = dt.Alias
	}
	return tn
}

// claim reserves a CTE name derived from alias.
func (f *flattener) claim(alias string) string {
	name := alias
	for i := 2; f.taken[nameKey(name)]; i++ {
		name = withSuffix(alias, "_"+strconv.Itoa(i))
	}
	f.taken[nameKey(name)] = true
	return name
}

func takenNames(stmt *core.SelectStmt) map[string]bool {
	taken := make(map[string]bool)
	core.Inspect(stmt, func(n core.Node) bool {
		switch x := n.(type) {
		case *core.TableName:
			taken[nameKey(x.Name)] = true
		case *core.CTE:
			taken[nameKey(x.Name)] = true
		}
		return true
	})
	return taken
}

// nameKey compares quoted names exactly and unquoted names case-insensitively.
func nameKey(name string) string {
	if isQuoted(name) {
		return name
	}
	return strings.ToUpper(name)
}

func withSuffix(name, suffix string) string {
	if isQuoted(name) {
		return name[:len(name)-1] + suffix + `"`
	}
	return name + suffix
}

func isQuoted(name string) bool {
	return len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"'
}
