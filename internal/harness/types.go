package harness

import (
	"github.com/roach88/relplan/internal/sqlast"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Plan is the compiled tree, nil when compilation failed.
	Plan sqlast.Node `json:"-"`

	// PlanHash is the content hash of Plan.
	PlanHash string `json:"plan_hash,omitempty"`

	// SchemaHash is the content hash of the loaded schema.
	SchemaHash string `json:"schema_hash,omitempty"`

	// CompileErr is the error compilation failed with, if any.
	CompileErr error `json:"-"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
