package sqlast

import (
	"fmt"

	"github.com/roach88/relplan/internal/schema"
)

// Kind is the node shape a field compiles to.
type Kind int

const (
	KindTable Kind = iota + 1
	KindColumn
	KindDependency
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindColumn:
		return "column"
	case KindDependency:
		return "dependency"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classify picks the node shape for field. obj is the object type the field
// returns after unwrapping, or nil when it returns a leaf type.
//
// Rules, first match wins:
//  1. object type with sqlTable → table (object type without it is an error)
//  2. sqlColumn set, or no custom resolver → column
//  3. sqlDeps set → dependency
//  4. otherwise → UnsupportedField error
func Classify(field *schema.Field, obj *schema.Object) (Kind, error) {
	if obj != nil {
		if obj.SQLTable == "" {
			return 0, missingTableError(field, obj)
		}
		return KindTable, nil
	}
	if field.SQLColumn != "" || !field.Resolver {
		return KindColumn, nil
	}
	if len(field.SQLDeps) > 0 {
		return KindDependency, nil
	}
	return 0, &CompileError{
		Code: ErrCodeUnsupportedField,
		Message: fmt.Sprintf("field %q needs relational metadata: object types need \"sqlTable\", "+
			"resolved fields need \"sqlColumn\" or \"sqlDeps\"", field.Name),
		Field: field.Name,
	}
}

func missingTableError(field *schema.Field, obj *schema.Object) *CompileError {
	return &CompileError{
		Code:    ErrCodeSchemaConfiguration,
		Message: fmt.Sprintf("must specify \"sqlTable\" on object type %s (returned by field %q)", obj.Name, field.Name),
		Field:   field.Name,
	}
}
