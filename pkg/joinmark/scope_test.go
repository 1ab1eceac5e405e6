package joinmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/joinmark"
)

func columnNames(cols []*core.ColumnRef) []string {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Table + "." + col.Column
	}
	return names
}

func TestColumnsInScope(t *testing.T) {
	stmt := parse(t, `SELECT a.x, (SELECT MAX(s.v) FROM s WHERE s.k = a.k) m
		FROM a JOIN b ON a.id = b.id, (SELECT d.y FROM d) dd
		WHERE a.z = dd.y AND EXISTS (SELECT 1 FROM e WHERE e.id = a.id)
		GROUP BY a.x
		HAVING COUNT(b.id) > 1
		ORDER BY a.x`)

	got := columnNames(joinmark.ColumnsInScope(stmt.Body.Left))

	assert.Equal(t, []string{
		"a.x",
		"a.id", "b.id",
		"a.z", "dd.y",
		"a.x",
		"b.id",
		"a.x",
	}, got)
}

func TestColumnsInScopeNil(t *testing.T) {
	assert.Nil(t, joinmark.ColumnsInScope(nil))
}
