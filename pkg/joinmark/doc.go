// Package joinmark rewrites Oracle (+) outer-join markers into ANSI joins.
//
// A marked predicate such as
//
//	SELECT * FROM a, b WHERE a.id = b.id(+)
//
// is moved out of WHERE and becomes the ON condition of an explicit join:
//
//	SELECT * FROM a LEFT JOIN b ON a.id = b.id
//
// Every query block of a statement is rewritten, innermost first. Marks that
// cannot be converted are left in place and reported as diagnostics; a query
// whose FROM table becomes an outer-join target with no other table to take
// its place fails with ErrUnresolvableBaseTable.
package joinmark
