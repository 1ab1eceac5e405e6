package oracle

import (
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
)

func init() {
	dialect.Register(Oracle)
}

// oracleReservedWords contains Oracle reserved words that must be quoted
// when used as identifiers. Pseudo-columns such as ROWNUM, LEVEL and
// SYSDATE are left out: they are written unquoted.
var oracleReservedWords = []string{
	"ACCESS", "ADD", "ALL", "ALTER", "AND", "ANY", "AS", "ASC", "AUDIT",
	"BETWEEN", "BY", "CHAR", "CHECK", "CLUSTER", "COLUMN", "COMMENT",
	"COMPRESS", "CONNECT", "CREATE", "CURRENT", "DATE", "DECIMAL", "DEFAULT",
	"DELETE", "DESC", "DISTINCT", "DROP", "ELSE", "EXCLUSIVE", "EXISTS",
	"FILE", "FLOAT", "FOR", "FROM", "GRANT", "GROUP", "HAVING", "IDENTIFIED",
	"IMMEDIATE", "IN", "INCREMENT", "INDEX", "INITIAL", "INSERT", "INTEGER",
	"INTERSECT", "INTO", "IS", "LIKE", "LOCK", "LONG", "MAXEXTENTS",
	"MINUS", "MODE", "MODIFY", "NOAUDIT", "NOCOMPRESS", "NOT", "NOWAIT",
	"NULL", "NUMBER", "OF", "OFFLINE", "ON", "ONLINE", "OPTION", "OR",
	"ORDER", "PCTFREE", "PUBLIC", "RAW", "RENAME", "RESOURCE",
	"REVOKE", "ROW", "ROWS", "SELECT", "SESSION", "SET",
	"SHARE", "SIZE", "SMALLINT", "START", "SUCCESSFUL", "SYNONYM", "TABLE", "THEN", "TO", "TRIGGER", "UNION", "UNIQUE", "UPDATE",
	"VALIDATE", "VALUES", "VARCHAR", "VARCHAR2", "VIEW", "WHENEVER",
	"WHERE", "WITH",
}

// Oracle is the Oracle dialect.
var Oracle = dialect.New(Config).
	Clauses(dialect.StandardSelectClauses...).
	Operators(dialect.ANSIOperators).
	JoinTypes(dialect.ANSIJoinTypes).
	WithReservedWords(oracleReservedWords...).
	Build()
