package testutil

import (
	"testing"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
	"github.com/leapstack-labs/ansijoin/pkg/parser"
)

// MustParse parses sql with dialect d and fails the test on error.
func MustParse(t testing.TB, sql string, d *dialect.Dialect) *core.SelectStmt {
	t.Helper()
	stmt, err := parser.ParseWithDialect(sql, d)
	if err != nil {
		t.Fatalf("parse %q: %v", sql, err)
	}
	return stmt
}
