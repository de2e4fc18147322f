package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/relplan/internal/sqlast"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Aliases  []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Aliases) > 0 {
		fmt.Fprintf(&buf, "\nPlan aliases: %s\n", strings.Join(e.Aliases, ", "))
	}

	return buf.String()
}

// assertError checks that compilation failed with the expected code.
func assertError(result *Result, assertion Assertion) error {
	if result.CompileErr == nil {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("compile error %s", assertion.Code),
			Actual:   "plan compiled successfully",
			Aliases:  sqlast.Aliases(result.Plan),
		}
	}

	code := string(sqlast.ErrorCodeOf(result.CompileErr))
	if code != assertion.Code {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("compile error %s", assertion.Code),
			Actual:   fmt.Sprintf("compile error %s: %v", code, result.CompileErr),
		}
	}
	return nil
}

// assertAliases checks the full alias list in preorder.
func assertAliases(plan sqlast.Node, assertion Assertion) error {
	got := sqlast.Aliases(plan)
	if !slices.Equal(got, assertion.Aliases) {
		return &AssertionError{
			Type:     AssertAliases,
			Expected: fmt.Sprintf("%v", assertion.Aliases),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

// assertChildren checks the child descriptors of one table.
func assertChildren(plan sqlast.Node, assertion Assertion) error {
	table, ok := sqlast.FindTable(plan, assertion.Table)
	if !ok {
		return tableNotFound(plan, AssertChildren, assertion.Table)
	}

	got := make([]string, len(table.Children))
	for i, child := range table.Children {
		got[i] = sqlast.Describe(child)
	}
	if !slices.Equal(got, assertion.Children) {
		return &AssertionError{
			Type:     AssertChildren,
			Expected: fmt.Sprintf("%s children %v", assertion.Table, assertion.Children),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

// assertGrabMany checks one table's grabMany flag.
func assertGrabMany(plan sqlast.Node, assertion Assertion) error {
	table, ok := sqlast.FindTable(plan, assertion.Table)
	if !ok {
		return tableNotFound(plan, AssertGrabMany, assertion.Table)
	}
	if table.GrabMany != *assertion.Expect {
		return &AssertionError{
			Type:     AssertGrabMany,
			Expected: fmt.Sprintf("%s grabMany=%t", assertion.Table, *assertion.Expect),
			Actual:   fmt.Sprintf("grabMany=%t", table.GrabMany),
		}
	}
	return nil
}

// assertPlanHash checks the plan's content hash.
func assertPlanHash(result *Result, assertion Assertion) error {
	if result.PlanHash != assertion.Hash {
		return &AssertionError{
			Type:     AssertPlanHash,
			Expected: assertion.Hash,
			Actual:   result.PlanHash,
		}
	}
	return nil
}

func tableNotFound(plan sqlast.Node, typ, alias string) error {
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("table with alias %q", alias),
		Actual:   "not found in plan",
		Aliases:  sqlast.Aliases(plan),
	}
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
//
// A compile error is itself a failure unless an error assertion expects it;
// plan assertions are skipped when there is no plan.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	expectsError := slices.ContainsFunc(assertions, func(a Assertion) bool {
		return a.Type == AssertError
	})
	if result.CompileErr != nil && !expectsError {
		errors = append(errors, fmt.Sprintf("unexpected compile error: %v", result.CompileErr))
	}

	for i, assertion := range assertions {
		if assertion.Type != AssertError && result.Plan == nil {
			continue
		}

		var err error
		switch assertion.Type {
		case AssertError:
			err = assertError(result, assertion)
		case AssertAliases:
			err = assertAliases(result.Plan, assertion)
		case AssertChildren:
			err = assertChildren(result.Plan, assertion)
		case AssertGrabMany:
			err = assertGrabMany(result.Plan, assertion)
		case AssertPlanHash:
			err = assertPlanHash(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
