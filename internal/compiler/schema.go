package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/relplan/internal/schema"
)

// DefaultQueryType is used when the schema does not name its root type.
const DefaultQueryType = "Query"

// CompileSchema parses a CUE value into a schema registry.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value is the package root, e.g.:
//
//	query: "Query"
//	scalars: ["DateTime"]
//	type: User: {
//		sqlTable:  "users"
//		uniqueKey: "id"
//		fields: {
//			id:   "Int!"
//			name: {type: "String", sqlColumn: "full_name"}
//		}
//	}
//
// A field is either a type string or a struct with a "type" key and any of
// sqlColumn, sqlDeps, where, sqlJoin, sqlJoins, joinTable and resolver.
func CompileSchema(v cue.Value) (*schema.Schema, error) {
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	queryType := DefaultQueryType
	if qv := v.LookupPath(cue.ParsePath("query")); qv.Exists() {
		s, err := concreteString(qv, "query")
		if err != nil {
			return nil, err
		}
		queryType = s
	}

	s := schema.New(queryType)

	if sv := v.LookupPath(cue.ParsePath("scalars")); sv.Exists() {
		names, err := stringList(sv, "scalars")
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if err := s.AddScalar(name); err != nil {
				return nil, &CompileError{Field: "scalars", Message: err.Error(), Pos: sv.Pos()}
			}
		}
	}

	typesVal := v.LookupPath(cue.ParsePath("type"))
	if !typesVal.Exists() {
		return nil, &CompileError{
			Field:   "type",
			Message: "at least one object type is required",
			Pos:     v.Pos(),
		}
	}
	if typesVal.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{Field: "type", Message: "must be a struct of object types", Pos: typesVal.Pos()}
	}

	iter, err := typesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		obj, err := compileObject(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		if err := s.AddObject(obj); err != nil {
			return nil, &CompileError{
				Field:   "type." + iter.Label(),
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
	}

	return s, nil
}

// compileObject parses one entry of the "type" struct.
func compileObject(name string, v cue.Value) (*schema.Object, error) {
	path := "type." + name
	if v.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{Field: path, Message: "object type must be a struct", Pos: v.Pos()}
	}

	obj, _ := schema.NewObject(name)

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		key := iter.Label()
		val := iter.Value()
		switch key {
		case "sqlTable":
			if obj.SQLTable, err = concreteString(val, path+".sqlTable"); err != nil {
				return nil, err
			}
		case "uniqueKey":
			if obj.UniqueKey, err = concreteString(val, path+".uniqueKey"); err != nil {
				return nil, err
			}
		case "fields":
			if err := compileFields(obj, val, path+".fields"); err != nil {
				return nil, err
			}
		default:
			return nil, &CompileError{
				Field:   path + "." + key,
				Message: fmt.Sprintf("unknown object key %q", key),
				Pos:     val.Pos(),
			}
		}
	}

	return obj, nil
}

func compileFields(obj *schema.Object, v cue.Value, path string) error {
	if v.IncompleteKind() != cue.StructKind {
		return &CompileError{Field: path, Message: "fields must be a struct", Pos: v.Pos()}
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		f, err := compileField(iter.Label(), iter.Value(), path+"."+iter.Label())
		if err != nil {
			return err
		}
		if err := obj.AddField(f); err != nil {
			return &CompileError{Field: path + "." + iter.Label(), Message: err.Error(), Pos: iter.Value().Pos()}
		}
	}
	return nil
}

// compileField parses a field declaration in either shorthand or struct form.
func compileField(name string, v cue.Value, path string) (*schema.Field, error) {
	f := &schema.Field{Name: name}

	// Shorthand: id: "Int!"
	if v.IncompleteKind() == cue.StringKind {
		typ, err := compileTypeRef(v, path)
		if err != nil {
			return nil, err
		}
		f.Type = typ
		return f, nil
	}

	if v.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{
			Field:   path,
			Message: "field must be a type string or a struct",
			Pos:     v.Pos(),
		}
	}

	hasType := false
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		key := iter.Label()
		val := iter.Value()
		keyPath := path + "." + key
		switch key {
		case "type":
			if f.Type, err = compileTypeRef(val, keyPath); err != nil {
				return nil, err
			}
			hasType = true
		case "sqlColumn":
			f.SQLColumn, err = concreteString(val, keyPath)
		case "sqlDeps":
			f.SQLDeps, err = stringList(val, keyPath)
		case "where":
			f.Where, err = concreteString(val, keyPath)
		case "sqlJoin":
			f.SQLJoin, err = concreteString(val, keyPath)
		case "sqlJoins":
			f.SQLJoins, err = stringList(val, keyPath)
		case "joinTable":
			f.JoinTable, err = concreteString(val, keyPath)
		case "resolver":
			f.Resolver, err = val.Bool()
			if err != nil {
				err = &CompileError{Field: keyPath, Message: "must be a concrete bool", Pos: val.Pos()}
			}
		default:
			err = &CompileError{
				Field:   keyPath,
				Message: fmt.Sprintf("unknown field key %q", key),
				Pos:     val.Pos(),
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if !hasType {
		return nil, &CompileError{
			Field:   path + ".type",
			Message: "field type is required",
			Pos:     v.Pos(),
		}
	}

	return f, nil
}

func compileTypeRef(v cue.Value, path string) (schema.TypeRef, error) {
	s, err := concreteString(v, path)
	if err != nil {
		return schema.TypeRef{}, err
	}
	typ, err := schema.ParseTypeRef(s)
	if err != nil {
		return schema.TypeRef{}, &CompileError{Field: path, Message: err.Error(), Pos: v.Pos()}
	}
	return typ, nil
}

func concreteString(v cue.Value, path string) (string, error) {
	if v.Kind() != cue.StringKind {
		return "", &CompileError{Field: path, Message: "must be a concrete string", Pos: v.Pos()}
	}
	s, err := v.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func stringList(v cue.Value, path string) ([]string, error) {
	if v.Kind() != cue.ListKind {
		return nil, &CompileError{Field: path, Message: "must be a list of strings", Pos: v.Pos()}
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := concreteString(iter.Value(), path)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
