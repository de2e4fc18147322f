package sqlast

import "fmt"

// CheckResult lists invariant violations found in a tree.
type CheckResult struct {
	OK         bool
	Violations []string
}

// Check verifies the structural invariants of a built tree:
//   - every node is non-nil
//   - tables have a table name and an alias
//   - aliases (table and join-table) are unique across the tree
//   - a join table has its own alias
//   - a GrabMany table starts with a column child (the row identity)
//   - columns name a column; dependencies name at least one column
//
// Trees from Build always pass. Check exists for trees assembled or edited
// by other code before they reach SQL generation.
func Check(root Node) CheckResult {
	c := &checker{aliases: make(map[string]bool)}
	c.checkNode(root, "$")
	return CheckResult{OK: len(c.violations) == 0, Violations: c.violations}
}

type checker struct {
	aliases    map[string]bool
	violations []string
}

func (c *checker) addViolation(format string, args ...any) {
	c.violations = append(c.violations, fmt.Sprintf(format, args...))
}

func (c *checker) claimAlias(alias, path string) {
	if c.aliases[alias] {
		c.addViolation("%s: alias %q is used more than once", path, alias)
		return
	}
	c.aliases[alias] = true
}

func (c *checker) checkNode(n Node, path string) {
	switch node := n.(type) {
	case nil:
		c.addViolation("%s: nil node", path)
	case *Table:
		if node == nil {
			c.addViolation("%s: nil table", path)
			return
		}
		c.checkTable(node, path)
	case *Column:
		if node == nil || node.Column == "" {
			c.addViolation("%s: column node without a column name", path)
		}
	case *Dependency:
		if node == nil || len(node.ColumnDeps) == 0 {
			c.addViolation("%s: dependency node without columns", path)
		}
	default:
		c.addViolation("%s: unknown node type %T", path, n)
	}
}

func (c *checker) checkTable(t *Table, path string) {
	path = path + "." + t.FieldName
	if t.Table == "" {
		c.addViolation("%s: table node without a table name", path)
	}
	if t.As == "" {
		c.addViolation("%s: table node without an alias", path)
	} else {
		c.claimAlias(t.As, path)
	}
	if t.JoinTable != "" {
		if t.JoinTableAs == "" {
			c.addViolation("%s: join table %q without an alias", path, t.JoinTable)
		} else {
			c.claimAlias(t.JoinTableAs, path)
		}
	}
	if t.GrabMany {
		if len(t.Children) == 0 {
			c.addViolation("%s: list table has no unique key column", path)
		} else if _, ok := t.Children[0].(*Column); !ok {
			c.addViolation("%s: list table must start with its unique key column, got %T", path, t.Children[0])
		}
	}
	for i, child := range t.Children {
		c.checkNode(child, fmt.Sprintf("%s[%d]", path, i))
	}
}
