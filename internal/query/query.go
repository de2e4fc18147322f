// Package query models the hierarchical request a plan is built from and
// converts GraphQL syntax trees into it.
//
// A Field is immutable once built: a name, ordered arguments and an ordered
// selection set. Documents come either from query text (Parse) or from the
// field ASTs a GraphQL resolver receives (FromFieldASTs).
package query

import (
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/roach88/relplan/internal/ir"
)

// Field is one field reference in a request.
type Field struct {
	Name       string
	Alias      string // response key if aliased; plans always use Name
	Args       []Arg
	Selections []Field
}

// Arg is one argument as written in the request.
// Literal is false for variables, lists and input objects; Value is Null then.
type Arg struct {
	Name    string
	Value   ir.Value
	Literal bool
}

// Document is a parsed request: the top-level selection of one operation.
type Document struct {
	Operation string // "query", "mutation" or "subscription"
	Name      string
	Fields    []Field
}

// Parse parses GraphQL query text and returns its first operation.
// Fragment spreads and inline fragments are rejected.
func Parse(text string) (*Document, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: text})
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		out := &Document{Operation: op.Operation}
		if op.Name != nil {
			out.Name = op.Name.Value
		}
		if op.SelectionSet != nil {
			out.Fields, err = convertSelections(op.SelectionSet.Selections)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("parse query: document has no operation")
}

// MustParse is like Parse but panics on error. Use in tests and fixtures.
func MustParse(text string) *Document {
	doc, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return doc
}

// FromFieldASTs converts resolver field ASTs (graphql.ResolveInfo.FieldASTs).
func FromFieldASTs(fields []*ast.Field) ([]Field, error) {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		conv, err := convertField(f)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, nil
}

func convertSelections(sels []ast.Selection) ([]Field, error) {
	out := make([]Field, 0, len(sels))
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ast.Field:
			f, err := convertField(s)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		case *ast.FragmentSpread:
			return nil, fmt.Errorf("fragment spread %q is not supported", s.Name.Value)
		case *ast.InlineFragment:
			return nil, fmt.Errorf("inline fragments are not supported")
		default:
			return nil, fmt.Errorf("unsupported selection %T", sel)
		}
	}
	return out, nil
}

func convertField(f *ast.Field) (Field, error) {
	out := Field{Name: f.Name.Value}
	if f.Alias != nil {
		out.Alias = f.Alias.Value
	}
	for _, a := range f.Arguments {
		out.Args = append(out.Args, convertArg(a))
	}
	if f.SelectionSet != nil {
		sels, err := convertSelections(f.SelectionSet.Selections)
		if err != nil {
			return Field{}, fmt.Errorf("field %s: %w", out.Name, err)
		}
		out.Selections = sels
	}
	return out, nil
}

func convertArg(a *ast.Argument) Arg {
	arg := Arg{Name: a.Name.Value, Value: ir.Null{}}
	switch v := a.Value.(type) {
	case *ast.StringValue:
		arg.Value, arg.Literal = ir.String(v.Value), true
	case *ast.EnumValue:
		arg.Value, arg.Literal = ir.String(v.Value), true
	case *ast.BooleanValue:
		arg.Value, arg.Literal = ir.Bool(v.Value), true
	case *ast.IntValue:
		n, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			// out of int64 range: keep the literal text
			arg.Value, arg.Literal = ir.String(v.Value), true
			break
		}
		arg.Value, arg.Literal = ir.Int(n), true
	case *ast.FloatValue:
		arg.Value, arg.Literal = ir.String(v.Value), true
	}
	return arg
}
