package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/relplan/internal/compiler"
	"github.com/roach88/relplan/internal/query"
	"github.com/roach88/relplan/internal/sqlast"
)

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger passed to the plan builder.
// Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Load and compile the CUE schema
// 2. Parse the query document
// 3. Build the plan (a build error is an outcome, not a run failure)
// 4. Check plan invariants
// 5. Evaluate assertions
//
// An error is returned only when the scenario cannot be executed at all:
// the schema fails to load or the query does not parse.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := &runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(cfg)
	}

	reg, err := compiler.LoadDir(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	doc, err := query.Parse(scenario.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	result := NewResult()
	if result.SchemaHash, err = reg.Hash(); err != nil {
		return nil, fmt.Errorf("failed to hash schema: %w", err)
	}

	parentType := scenario.ParentType
	if parentType == "" {
		parentType = reg.QueryType()
	}

	cfg.logger.Debug("running scenario",
		"scenario", scenario.Name,
		"parent_type", parentType,
	)

	plan, err := sqlast.Build(reg, parentType, doc.Fields, sqlast.WithLogger(cfg.logger))
	if err != nil {
		result.CompileErr = err
	} else {
		result.Plan = plan
		if result.PlanHash, err = sqlast.Hash(plan); err != nil {
			return nil, fmt.Errorf("failed to hash plan: %w", err)
		}
		if check := sqlast.Check(plan); !check.OK {
			for _, v := range check.Violations {
				result.AddError("plan invariant violated: " + v)
			}
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}
