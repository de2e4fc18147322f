// Package sqlast builds the relational query tree (SQL AST) for a request.
//
// The tree sits between the request and SQL generation:
//
//	[query.Field] + [schema.Registry] → [sqlast.Node] → [SQL generator]
//
// Build walks the request top-down. Each field is classified against its
// schema metadata into one of three node shapes:
//
//	*Table       the field returns an object type backed by a table; its
//	             selections are built recursively into Children
//	*Column      the field maps to one column
//	*Dependency  the field is computed from a set of columns
//
// NODE SHAPES:
//
// Node is a sealed interface using the marker method pattern, so a type
// switch over *Table, *Column and *Dependency is exhaustive:
//
//	switch n := node.(type) {
//	case *Table:
//	    // join n.Table AS n.As, recurse into n.Children
//	case *Column:
//	    // select n.Column
//	case *Dependency:
//	    // select every column in n.ColumnDeps
//	}
//
// ALIASES:
//
// Every table reference, join tables included, gets an alias that is unique
// within one Build call. The field name is the first candidate; on collision
// AliasSuffix is appended until the name is free.
//
// ROW IDENTITY:
//
// Result hydration treats the first child column of a list-returning table
// as the row identity. Build therefore puts the object type's unique key
// first in Children whenever GrabMany is set, ahead of (and independent of)
// anything the request selected.
//
// Build is pure: no I/O, no shared state. Concurrent calls are safe.
package sqlast
