package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/relplan/internal/ir"
	"github.com/roach88/relplan/internal/sqlast"
)

// PlanSnapshot captures the compile outcome of a scenario.
// Serialized with canonical JSON for deterministic comparison.
type PlanSnapshot struct {
	ScenarioName string
	Plan         sqlast.Node
	PlanHash     string
	ErrorCode    string
}

// toCanonical converts the snapshot to an ir.Object for canonical JSON.
func (s *PlanSnapshot) toCanonical() ir.Object {
	obj := ir.Object{
		"scenario_name": ir.String(s.ScenarioName),
	}
	if s.Plan != nil {
		obj["plan"] = sqlast.Encode(s.Plan)
		obj["plan_hash"] = ir.String(s.PlanHash)
	}
	if s.ErrorCode != "" {
		obj["error"] = ir.Object{"code": ir.String(s.ErrorCode)}
	}
	return obj
}

func snapshotOf(name string, result *Result) PlanSnapshot {
	snap := PlanSnapshot{
		ScenarioName: name,
		Plan:         result.Plan,
		PlanHash:     result.PlanHash,
	}
	if result.CompileErr != nil {
		snap.ErrorCode = string(sqlast.ErrorCodeOf(result.CompileErr))
	}
	return snap
}

// MarshalSnapshot returns the canonical JSON golden files hold for a result.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snap := snapshotOf(scenarioName, result)
	return ir.MarshalCanonical(snap.toCanonical())
}

// RunWithGolden executes a scenario and compares the plan against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the plan doesn't match the golden file; assertion failures are
// reported in the returned result.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
