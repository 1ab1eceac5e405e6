// Package all registers every built-in dialect.
//
//	import _ "github.com/leapstack-labs/ansijoin/pkg/dialects/all"
package all

import (
	// Registered for their init side effects.
	_ "github.com/leapstack-labs/ansijoin/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/ansijoin/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/ansijoin/pkg/dialects/oracle"
	_ "github.com/leapstack-labs/ansijoin/pkg/dialects/postgres"
)
