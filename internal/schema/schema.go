package schema

import (
	"fmt"
	"sort"

	"github.com/roach88/relplan/internal/ir"
)

// BuiltinScalars are the scalar names every schema knows.
var BuiltinScalars = []string{"Boolean", "Float", "ID", "Int", "String"}

// Registry is the read-only view the plan builder needs.
type Registry interface {
	// QueryType names the root object type.
	QueryType() string
	// Object returns the object type with the given name.
	Object(name string) (*Object, bool)
	// Field returns the field of an object type.
	Field(typeName, fieldName string) (*Field, bool)
}

// Field is one field of an object type with its relational annotations.
type Field struct {
	Name      string
	Type      TypeRef
	SQLColumn string
	SQLDeps   []string
	Where     string
	SQLJoin   string
	SQLJoins  []string
	JoinTable string
	Resolver  bool
}

// Object is an object type. SQLTable and UniqueKey apply when the type is
// reached through a field; the query root usually has neither.
type Object struct {
	Name      string
	SQLTable  string
	UniqueKey string

	fields []*Field
	index  map[string]*Field
}

// NewObject creates an object type with the given fields in order.
func NewObject(name string, fields ...*Field) (*Object, error) {
	o := &Object{Name: name, index: make(map[string]*Field)}
	for _, f := range fields {
		if err := o.AddField(f); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// AddField appends a field. Field names are unique per object.
func (o *Object) AddField(f *Field) error {
	if f == nil || f.Name == "" {
		return fmt.Errorf("object %s: field name is required", o.Name)
	}
	if o.index == nil {
		o.index = make(map[string]*Field)
	}
	if _, dup := o.index[f.Name]; dup {
		return fmt.Errorf("object %s: duplicate field %q", o.Name, f.Name)
	}
	o.index[f.Name] = f
	o.fields = append(o.fields, f)
	return nil
}

// Field returns the named field.
func (o *Object) Field(name string) (*Field, bool) {
	f, ok := o.index[name]
	return f, ok
}

// Fields returns fields in declaration order.
func (o *Object) Fields() []*Field {
	return o.fields
}

// Schema is the in-memory Registry implementation.
type Schema struct {
	queryType string
	objects   map[string]*Object
	order     []string
	scalars   map[string]bool
}

// New creates an empty schema rooted at queryType.
func New(queryType string) *Schema {
	s := &Schema{
		queryType: queryType,
		objects:   make(map[string]*Object),
		scalars:   make(map[string]bool),
	}
	for _, name := range BuiltinScalars {
		s.scalars[name] = true
	}
	return s
}

// NewRegistry creates a schema rooted at queryType holding objects.
func NewRegistry(queryType string, objects ...*Object) (*Schema, error) {
	s := New(queryType)
	for _, o := range objects {
		if err := s.AddObject(o); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// QueryType implements Registry.
func (s *Schema) QueryType() string {
	return s.queryType
}

// AddObject registers an object type. Names are unique across objects and scalars.
func (s *Schema) AddObject(o *Object) error {
	if o == nil || o.Name == "" {
		return fmt.Errorf("object name is required")
	}
	if _, dup := s.objects[o.Name]; dup {
		return fmt.Errorf("duplicate type %q", o.Name)
	}
	if s.scalars[o.Name] {
		return fmt.Errorf("type %q is already declared as a scalar", o.Name)
	}
	s.objects[o.Name] = o
	s.order = append(s.order, o.Name)
	return nil
}

// AddScalar declares a custom leaf type (scalar or enum).
func (s *Schema) AddScalar(name string) error {
	if _, isObj := s.objects[name]; isObj {
		return fmt.Errorf("type %q is already declared as an object", name)
	}
	s.scalars[name] = true
	return nil
}

// Object implements Registry.
func (s *Schema) Object(name string) (*Object, bool) {
	o, ok := s.objects[name]
	return o, ok
}

// Field implements Registry.
func (s *Schema) Field(typeName, fieldName string) (*Field, bool) {
	o, ok := s.objects[typeName]
	if !ok {
		return nil, false
	}
	return o.Field(fieldName)
}

// IsScalar reports whether name is a builtin or declared leaf type.
func (s *Schema) IsScalar(name string) bool {
	return s.scalars[name]
}

// Objects returns object types in registration order.
func (s *Schema) Objects() []*Object {
	out := make([]*Object, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.objects[name])
	}
	return out
}

// Scalars returns custom (non-builtin) scalar names, sorted.
func (s *Schema) Scalars() []string {
	builtin := make(map[string]bool, len(BuiltinScalars))
	for _, name := range BuiltinScalars {
		builtin[name] = true
	}
	var out []string
	for name := range s.scalars {
		if !builtin[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Encode converts the schema to an ir.Object for hashing and storage.
// Objects are keyed by name so registration order does not matter.
func (s *Schema) Encode() ir.Object {
	objects := make(ir.Object, len(s.objects))
	for _, o := range s.objects {
		fields := make(ir.List, 0, len(o.fields))
		for _, f := range o.fields {
			fields = append(fields, encodeField(f))
		}
		obj := ir.Object{"fields": fields}
		if o.SQLTable != "" {
			obj["sqlTable"] = ir.String(o.SQLTable)
		}
		if o.UniqueKey != "" {
			obj["uniqueKey"] = ir.String(o.UniqueKey)
		}
		objects[o.Name] = obj
	}
	return ir.Object{
		"query":   ir.String(s.queryType),
		"types":   objects,
		"scalars": ir.Strings(s.Scalars()...),
	}
}

func encodeField(f *Field) ir.Object {
	obj := ir.Object{
		"name": ir.String(f.Name),
		"type": ir.String(f.Type.String()),
	}
	if f.SQLColumn != "" {
		obj["sqlColumn"] = ir.String(f.SQLColumn)
	}
	if len(f.SQLDeps) > 0 {
		obj["sqlDeps"] = ir.Strings(f.SQLDeps...)
	}
	if f.Where != "" {
		obj["where"] = ir.String(f.Where)
	}
	if f.SQLJoin != "" {
		obj["sqlJoin"] = ir.String(f.SQLJoin)
	}
	if len(f.SQLJoins) > 0 {
		obj["sqlJoins"] = ir.Strings(f.SQLJoins...)
	}
	if f.JoinTable != "" {
		obj["joinTable"] = ir.String(f.JoinTable)
	}
	if f.Resolver {
		obj["resolver"] = ir.Bool(true)
	}
	return obj
}

// Hash returns the content hash of the schema.
func (s *Schema) Hash() (string, error) {
	return ir.Hash(ir.DomainSchema, s.Encode())
}
