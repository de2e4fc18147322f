// Package harness provides conformance testing for plan compilation.
//
// The harness loads a CUE schema, compiles a query against it, and checks
// the resulting plan tree (or compile error) against declared assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: users_list
//	description: "What this scenario validates"
//	schema: ../schemas/blog      # CUE package dir, relative to this file
//	query: "{ users { name } }"
//	parent_type: Query           # optional, defaults to the schema's query type
//	assertions:
//	  - type: aliases
//	    aliases: [users]
//	  - type: children
//	    table: users
//	    children: [column:id, column:name]
//	  - type: grab_many
//	    table: users
//	    expect: true
//
// # Assertion Types
//
//   - error: Compilation fails with the given error code
//   - aliases: Every allocated alias, in preorder, matches exactly
//   - children: Child descriptors of the table with the given alias match exactly
//   - grab_many: The table with the given alias has the expected grabMany flag
//   - plan_hash: The plan hash matches exactly
//
// Child descriptors are "table:<alias>", "column:<column>" and
// "deps:<col>,<col>".
//
// # Golden Files
//
// RunWithGolden snapshots the canonical plan JSON under testdata/golden so
// any change to plan shape shows up as a diff.
package harness
