package sqlast

import "github.com/roach88/relplan/internal/ir"

// Node is one node of the relational query tree.
// Sealed: only *Table, *Column and *Dependency implement it.
type Node interface {
	sqlNode()
}

// Arg is an argument captured from the request for a table node.
type Arg struct {
	Name  string
	Value ir.Value
}

// Table reads rows from a table.
//
// Where, SQLJoin and SQLJoins are opaque templates copied from the schema;
// the SQL generator interprets them.
type Table struct {
	Table     string
	As        string
	FieldName string
	GrabMany  bool
	Args      []Arg

	Where   string
	SQLJoin string

	// Set only for fields declared with a junction table.
	SQLJoins    []string
	JoinTable   string
	JoinTableAs string

	Children []Node
}

func (*Table) sqlNode() {}

// Column selects a single column.
type Column struct {
	Column    string
	FieldName string
}

func (*Column) sqlNode() {}

// Dependency selects the columns a computed field needs.
type Dependency struct {
	ColumnDeps []string
}

func (*Dependency) sqlNode() {}

// Arg returns the named argument.
func (t *Table) Arg(name string) (ir.Value, bool) {
	for _, a := range t.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}
