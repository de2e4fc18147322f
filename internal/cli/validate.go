package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relplan/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Objects  int                        `json:"objects"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []compiler.TypeWarning     `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Lint a schema without compiling a query",
		Long: `Validate a CUE schema against the rules the plan builder relies on.

Reports every object type without a table, list-returned type without a
unique key, unknown field type and unresolvable field. Recursive
relations and types unreachable from the query root are reported as
warnings and do not fail validation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, err := LoadSchema(schemaDir)
	if err != nil {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			return outputValidateError(formatter, ErrCodeGeneric, err.Error(), nil)
		}
		// A schema that loads but does not follow the schema format is a
		// validation failure, not a command error.
		if loadErr.Code == ErrCodeSchemaDefinition {
			return outputValidationErrors(formatter, ValidationResult{
				Errors: []compiler.ValidationError{{
					Field:   "schema",
					Message: loadErr.Message,
					Code:    loadErr.Code,
					Line:    lineOf(loadErr),
				}},
			})
		}
		return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, schemaDir)
	for _, obj := range loadResult.Schema.Objects() {
		formatter.VerboseLog("Validating type: %s", obj.Name)
	}

	result := ValidationResult{
		Objects:  len(loadResult.Schema.Objects()),
		Errors:   compiler.Validate(loadResult.Schema),
		Warnings: compiler.AnalyzeTypeGraph(loadResult.Schema),
	}
	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}

	result.Valid = true
	return outputValidateSuccess(formatter, result)
}

func lineOf(e *LoadError) int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Schema valid: %d object type(s)\n", result.Objects)
	writeWarnings(formatter, result.Warnings)
	return nil
}

func writeWarnings(formatter *OutputFormatter, warnings []compiler.TypeWarning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(formatter.Writer)
	for _, w := range warnings {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", w.Level, w.Message)
	}
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	writeWarnings(formatter, result.Warnings)

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
