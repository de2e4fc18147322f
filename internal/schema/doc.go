// Package schema is the read-only type registry the plan builder consults.
//
// A Schema holds object types keyed by name. Each object type may name the
// table that backs it (SQLTable) and the column that identifies one of its
// rows (UniqueKey). Each field carries a GraphQL-style type reference plus
// optional relational annotations:
//
//	SQLColumn   explicit column for a scalar field
//	SQLDeps     columns a computed (resolver) field needs
//	Where       row filter template, passed through verbatim
//	SQLJoin     join condition template, passed through verbatim
//	JoinTable   junction table for many-to-many fields
//	SQLJoins    the two join templates through JoinTable
//	Resolver    whether the field has a custom resolver
//
// Named types that are not object types are leaves (scalars and enums).
// The builtin scalars Int, Float, String, Boolean and ID are always known.
package schema
