package compiler

import (
	"fmt"

	"github.com/roach88/relplan/internal/schema"
)

// Validation error codes (E120-E129)
const (
	ErrUnknownFieldType  = "E120" // field type names no object or scalar
	ErrMissingSQLTable   = "E121" // object reached through a field has no sqlTable
	ErrMissingUniqueKey  = "E122" // list-returned object has no uniqueKey
	ErrMissingQueryType  = "E123" // query root is not a declared object
	ErrUnresolvableField = "E124" // resolver field with no column and no sqlDeps
	ErrInvalidJoinTable  = "E125" // joinTable without exactly two sqlJoins
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate lints a compiled schema against the rules the plan builder
// relies on. Returns all errors found (does not fail-fast), in type
// registration order.
func Validate(s *schema.Schema) []ValidationError {
	var errs []ValidationError

	// E123: query root must exist
	if _, ok := s.Object(s.QueryType()); !ok {
		errs = append(errs, ValidationError{
			Field:   "query",
			Message: fmt.Sprintf("query type %q is not a declared object type", s.QueryType()),
			Code:    ErrMissingQueryType,
		})
	}

	for _, obj := range s.Objects() {
		for _, f := range obj.Fields() {
			errs = append(errs, validateField(s, obj, f)...)
		}
	}

	return errs
}

func validateField(s *schema.Schema, parent *schema.Object, f *schema.Field) []ValidationError {
	var errs []ValidationError
	path := fmt.Sprintf("type.%s.fields.%s", parent.Name, f.Name)

	named := f.Type.NamedType()
	target, isObject := s.Object(named)

	// E120: unknown type
	if !isObject && !s.IsScalar(named) {
		errs = append(errs, ValidationError{
			Field:   path + ".type",
			Message: fmt.Sprintf("unknown type %q", named),
			Code:    ErrUnknownFieldType,
		})
		return errs
	}

	if isObject {
		// E121: object must map to a table
		if target.SQLTable == "" {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("returns object type %q which has no sqlTable", named),
				Code:    ErrMissingSQLTable,
			})
		}

		// E122: lists of objects need a key to group rows by
		if f.Type.StripNonNull().IsList() && target.UniqueKey == "" {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("returns a list of %q which has no uniqueKey", named),
				Code:    ErrMissingUniqueKey,
			})
		}

		// E125: join tables are reached through exactly two join conditions
		if f.JoinTable != "" && len(f.SQLJoins) != 2 {
			errs = append(errs, ValidationError{
				Field:   path + ".sqlJoins",
				Message: fmt.Sprintf("joinTable %q needs exactly two sqlJoins, got %d", f.JoinTable, len(f.SQLJoins)),
				Code:    ErrInvalidJoinTable,
			})
		}
		return errs
	}

	// E124: a computed scalar needs its source columns
	if f.Resolver && f.SQLColumn == "" && len(f.SQLDeps) == 0 {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: "field has a custom resolver but neither sqlColumn nor sqlDeps",
			Code:    ErrUnresolvableField,
		})
	}

	return errs
}
