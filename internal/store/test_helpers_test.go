package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/relplan/internal/ir"
	"github.com/roach88/relplan/internal/sqlast"
)

// createTestStore creates a new store in a temp directory with fixed ids.
func createTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(NewFixedGenerator(ids...)))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPlan builds the plan for `{ users { name } }`.
func createTestPlan() sqlast.Node {
	return &sqlast.Table{
		Table:     "users",
		As:        "users",
		FieldName: "users",
		GrabMany:  true,
		Children: []sqlast.Node{
			&sqlast.Column{Column: "id", FieldName: "id"},
			&sqlast.Column{Column: "name", FieldName: "name"},
		},
	}
}

// createTestPlanWithArg builds the plan for `{ user(id: <id>) { name } }`.
func createTestPlanWithArg(id int64) sqlast.Node {
	return &sqlast.Table{
		Table:     "users",
		As:        "user",
		FieldName: "user",
		Args:      []sqlast.Arg{{Name: "id", Value: ir.Int(id)}},
		Children: []sqlast.Node{
			&sqlast.Column{Column: "name", FieldName: "name"},
		},
	}
}
