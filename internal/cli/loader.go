package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/token"

	"github.com/roach88/relplan/internal/compiler"
	"github.com/roach88/relplan/internal/schema"
	"github.com/roach88/relplan/internal/sqlast"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No CUE files found
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeQueryInvalid = "E008" // Query missing or unparseable
	ErrCodeStoreFailed  = "E009" // Plan store error

	// Schema definition errors
	ErrCodeSchemaDefinition = "E101" // CUE schema does not follow the schema format

	// Plan build errors
	ErrCodeStructural          = "E130" // top-level selection count is not one
	ErrCodeSchemaConfiguration = "E131" // missing sqlTable or uniqueKey
	ErrCodeUnsupportedField    = "E132" // no classification rule matched
	ErrCodeUnknownField        = "E133" // field or type lookup missed
)

// LoadResult contains a compiled schema and facts about its source.
type LoadResult struct {
	Schema     *schema.Schema
	SchemaHash string
	FileCount  int // Number of CUE files found
}

// LoadError represents an error that occurred during schema loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSchema loads and compiles the CUE schema package in dir.
// All returned errors are *LoadError.
func LoadSchema(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	value, err := compiler.LoadValue(dir)
	if err != nil {
		return nil, convertCompileError(err, ErrCodeLoadFailed)
	}

	s, err := compiler.CompileSchema(value)
	if err != nil {
		return nil, convertCompileError(err, ErrCodeSchemaDefinition)
	}

	hash, err := s.Hash()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("hashing schema: %v", err)}
	}

	return &LoadResult{
		Schema:     s,
		SchemaHash: hash,
		FileCount:  len(cueFiles),
	}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
// CUE evaluation errors (field "cue") are build failures; "load" errors are
// load failures; anything else gets fallback.
func convertCompileError(err error, fallback string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		code := fallback
		switch compileErr.Field {
		case "cue":
			code = ErrCodeBuildFailed
		case "load":
			code = ErrCodeLoadFailed
		}
		return &LoadError{
			Code:    code,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    fallback,
		Message: err.Error(),
	}
}

// MapBuildErrorCode maps a plan build error to a CLI error code.
func MapBuildErrorCode(err error) string {
	switch sqlast.ErrorCodeOf(err) {
	case sqlast.ErrCodeStructural:
		return ErrCodeStructural
	case sqlast.ErrCodeSchemaConfiguration:
		return ErrCodeSchemaConfiguration
	case sqlast.ErrCodeUnsupportedField:
		return ErrCodeUnsupportedField
	case sqlast.ErrCodeUnknownField, sqlast.ErrCodeUnknownType:
		return ErrCodeUnknownField
	default:
		return ErrCodeGeneric
	}
}
