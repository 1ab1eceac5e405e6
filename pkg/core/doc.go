// Package core defines the shared language of the ansijoin system.
//
// This package contains:
//   - The SQL AST (statements, expressions, table references)
//   - Tree traversal and deep-copy helpers (Inspect, CloneStmt, CloneExpr)
//   - Dialect configuration data (DialectConfig)
//   - Diagnostic severities
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
