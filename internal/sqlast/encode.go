package sqlast

import (
	"fmt"
	"strings"

	"github.com/roach88/relplan/internal/ir"
)

// Encode converts a tree to an ir.Object. Each node carries a "kind" tag;
// optional fields are omitted when empty and arguments keep request order.
func Encode(n Node) ir.Object {
	switch node := n.(type) {
	case *Table:
		obj := ir.Object{
			"kind":      ir.String(KindTable.String()),
			"table":     ir.String(node.Table),
			"as":        ir.String(node.As),
			"fieldName": ir.String(node.FieldName),
			"grabMany":  ir.Bool(node.GrabMany),
		}
		if len(node.Args) > 0 {
			args := make(ir.List, len(node.Args))
			for i, a := range node.Args {
				args[i] = ir.Object{"name": ir.String(a.Name), "value": a.Value}
			}
			obj["args"] = args
		}
		if node.Where != "" {
			obj["where"] = ir.String(node.Where)
		}
		if node.SQLJoin != "" {
			obj["sqlJoin"] = ir.String(node.SQLJoin)
		}
		if node.JoinTable != "" {
			obj["joinTable"] = ir.String(node.JoinTable)
			obj["joinTableAs"] = ir.String(node.JoinTableAs)
			obj["sqlJoins"] = ir.Strings(node.SQLJoins...)
		}
		children := make(ir.List, len(node.Children))
		for i, child := range node.Children {
			children[i] = Encode(child)
		}
		obj["children"] = children
		return obj
	case *Column:
		return ir.Object{
			"kind":      ir.String(KindColumn.String()),
			"column":    ir.String(node.Column),
			"fieldName": ir.String(node.FieldName),
		}
	case *Dependency:
		return ir.Object{
			"kind":       ir.String(KindDependency.String()),
			"columnDeps": ir.Strings(node.ColumnDeps...),
		}
	default:
		return ir.Object{"kind": ir.String(fmt.Sprintf("unknown:%T", n))}
	}
}

// MarshalCanonical returns the canonical JSON of a tree.
func MarshalCanonical(n Node) ([]byte, error) {
	return ir.MarshalCanonical(Encode(n))
}

// Hash returns the content hash of a tree. Equal trees hash equally.
func Hash(n Node) (string, error) {
	return ir.Hash(ir.DomainPlan, Encode(n))
}

// Walk visits the tree in preorder. Returning false from fn skips the
// children of that node.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	if t, ok := n.(*Table); ok {
		for _, child := range t.Children {
			Walk(child, fn)
		}
	}
}

// Aliases lists every allocated alias in preorder, a table's join-table
// alias directly after its own.
func Aliases(n Node) []string {
	var out []string
	Walk(n, func(n Node) bool {
		if t, ok := n.(*Table); ok {
			out = append(out, t.As)
			if t.JoinTableAs != "" {
				out = append(out, t.JoinTableAs)
			}
		}
		return true
	})
	return out
}

// Describe renders a node as a short descriptor: "table:<as>",
// "column:<column>" or "deps:<a>,<b>".
func Describe(n Node) string {
	switch node := n.(type) {
	case *Table:
		return "table:" + node.As
	case *Column:
		return "column:" + node.Column
	case *Dependency:
		return "deps:" + strings.Join(node.ColumnDeps, ",")
	default:
		return fmt.Sprintf("unknown:%T", n)
	}
}

// FindTable returns the first table in preorder whose alias is as.
func FindTable(root Node, as string) (*Table, bool) {
	var found *Table
	Walk(root, func(n Node) bool {
		if found != nil {
			return false
		}
		if t, ok := n.(*Table); ok && t.As == as {
			found = t
			return false
		}
		return true
	})
	return found, found != nil
}
