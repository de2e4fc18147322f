package sqlast

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes compile errors.
type ErrorCode string

const (
	// ErrCodeStructural: the request does not have exactly one top-level field.
	ErrCodeStructural ErrorCode = "STRUCTURAL_ASSERTION"

	// ErrCodeSchemaConfiguration: an object type lacks sqlTable, or a
	// list-returned object type lacks uniqueKey.
	ErrCodeSchemaConfiguration ErrorCode = "SCHEMA_CONFIGURATION"

	// ErrCodeUnsupportedField: no classification rule matched a field.
	ErrCodeUnsupportedField ErrorCode = "UNSUPPORTED_FIELD"

	// ErrCodeUnknownField: the registry has no such field on the parent type.
	ErrCodeUnknownField ErrorCode = "UNKNOWN_FIELD"

	// ErrCodeUnknownType: the registry has no such parent type.
	ErrCodeUnknownType ErrorCode = "UNKNOWN_TYPE"
)

// CompileError aborts a Build. No partial tree accompanies it.
// The message is meant to be shown verbatim to the schema author.
type CompileError struct {
	Code    ErrorCode
	Message string
	Type    string // parent type of the offending field, if known
	Field   string // offending field, if known
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	switch {
	case e.Type != "" && e.Field != "":
		return fmt.Sprintf("%s: %s (field=%s.%s)", e.Code, e.Message, e.Type, e.Field)
	case e.Type != "":
		return fmt.Sprintf("%s: %s (type=%s)", e.Code, e.Message, e.Type)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// ErrorCodeOf returns the code of a wrapped CompileError, or "".
func ErrorCodeOf(err error) ErrorCode {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsStructuralError reports a root-arity violation.
func IsStructuralError(err error) bool {
	return ErrorCodeOf(err) == ErrCodeStructural
}

// IsSchemaConfigurationError reports a schema-authoring mistake.
func IsSchemaConfigurationError(err error) bool {
	return ErrorCodeOf(err) == ErrCodeSchemaConfiguration
}

// IsUnsupportedFieldError reports a field without usable relational metadata.
func IsUnsupportedFieldError(err error) bool {
	return ErrorCodeOf(err) == ErrCodeUnsupportedField
}

// IsLookupError reports a request that names a type or field the registry
// does not have. Requests are expected to be validated before Build.
func IsLookupError(err error) bool {
	code := ErrorCodeOf(err)
	return code == ErrCodeUnknownField || code == ErrCodeUnknownType
}
