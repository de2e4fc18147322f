package sqlast

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/relplan/internal/query"
	"github.com/roach88/relplan/internal/schema"
)

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger for per-node debug output.
// The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

type builder struct {
	reg     schema.Registry
	aliases *AliasAllocator
	logger  *slog.Logger
}

// Build compiles the request rooted at parentType into a tree.
//
// fields is the request's top-level selection and must hold exactly one
// field; anything else fails with a structural error before traversal.
// Any error aborts the whole build and no tree is returned.
func Build(reg schema.Registry, parentType string, fields []query.Field, opts ...Option) (Node, error) {
	if len(fields) != 1 {
		return nil, &CompileError{
			Code:    ErrCodeStructural,
			Message: fmt.Sprintf("expected exactly one top-level field, got %d", len(fields)),
			Type:    parentType,
		}
	}
	b := &builder{
		reg:     reg,
		aliases: NewAliasAllocator(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	if _, ok := reg.Object(parentType); !ok {
		return nil, &CompileError{
			Code:    ErrCodeUnknownType,
			Message: fmt.Sprintf("parent type %q is not an object type in the schema", parentType),
			Type:    parentType,
		}
	}
	return b.build(fields[0], parentType)
}

// BuildDocument compiles a parsed document against the registry's query type.
func BuildDocument(reg schema.Registry, doc *query.Document, opts ...Option) (Node, error) {
	return Build(reg, reg.QueryType(), doc.Fields, opts...)
}

func (b *builder) build(q query.Field, parentType string) (Node, error) {
	field, ok := b.reg.Field(parentType, q.Name)
	if !ok {
		return nil, &CompileError{
			Code:    ErrCodeUnknownField,
			Message: fmt.Sprintf("type %s has no field %q", parentType, q.Name),
			Type:    parentType,
			Field:   q.Name,
		}
	}

	typ := field.Type.StripNonNull()
	grabMany := false
	if typ.IsList() {
		typ = typ.Unwrap()
		grabMany = true
	}
	typeName := typ.NamedType()
	obj, _ := b.reg.Object(typeName)

	kind, err := Classify(field, obj)
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) && ce.Type == "" {
			ce.Type = parentType
		}
		return nil, err
	}

	switch kind {
	case KindTable:
		t, err := b.buildTable(q, field, obj, grabMany, parentType)
		if err != nil {
			return nil, err
		}
		return t, nil
	case KindColumn:
		column := field.SQLColumn
		if column == "" {
			column = field.Name
		}
		b.logger.Debug("column node", "type", parentType, "field", field.Name, "column", column)
		return &Column{Column: column, FieldName: field.Name}, nil
	default:
		b.logger.Debug("dependency node", "type", parentType, "field", field.Name, "deps", field.SQLDeps)
		deps := make([]string, len(field.SQLDeps))
		copy(deps, field.SQLDeps)
		return &Dependency{ColumnDeps: deps}, nil
	}
}

func (b *builder) buildTable(q query.Field, field *schema.Field, obj *schema.Object, grabMany bool, parentType string) (*Table, error) {
	if obj.SQLTable == "" {
		err := missingTableError(field, obj)
		err.Type = parentType
		return nil, err
	}

	t := &Table{
		Table:     obj.SQLTable,
		As:        b.aliases.Allocate(field.Name),
		FieldName: field.Name,
		GrabMany:  grabMany,
		Where:     field.Where,
		SQLJoin:   field.SQLJoin,
	}
	for _, a := range q.Args {
		if a.Literal {
			t.Args = append(t.Args, Arg{Name: a.Name, Value: a.Value})
		}
	}
	if field.JoinTable != "" {
		t.SQLJoins = append([]string(nil), field.SQLJoins...)
		t.JoinTable = field.JoinTable
		t.JoinTableAs = b.aliases.Allocate(field.JoinTable)
	}

	t.Children = make([]Node, 0, len(q.Selections)+1)
	if grabMany {
		if obj.UniqueKey == "" {
			return nil, &CompileError{
				Code: ErrCodeSchemaConfiguration,
				Message: fmt.Sprintf("requesting a list of %s: must specify \"uniqueKey\" on object type %s",
					obj.SQLTable, obj.Name),
				Type:  parentType,
				Field: field.Name,
			}
		}
		t.Children = append(t.Children, &Column{Column: obj.UniqueKey, FieldName: obj.UniqueKey})
	}

	b.logger.Debug("table node",
		"type", parentType,
		"field", field.Name,
		"table", t.Table,
		"as", t.As,
		"grab_many", grabMany,
		"join_table", t.JoinTable,
	)

	for _, sel := range q.Selections {
		child, err := b.build(sel, obj.Name)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)
	}
	return t, nil
}
