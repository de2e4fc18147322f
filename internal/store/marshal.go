package store

import (
	"fmt"

	"github.com/roach88/relplan/internal/sqlast"
)

// marshalPlan converts a plan tree to canonical JSON TEXT for storage and
// returns it with the plan hash.
func marshalPlan(root sqlast.Node) (data string, hash string, err error) {
	raw, err := sqlast.MarshalCanonical(root)
	if err != nil {
		return "", "", fmt.Errorf("marshal plan: %w", err)
	}
	hash, err = sqlast.Hash(root)
	if err != nil {
		return "", "", fmt.Errorf("hash plan: %w", err)
	}
	return string(raw), hash, nil
}

// rootFieldName returns the query field a plan was built for.
// Dependency roots have no field name.
func rootFieldName(root sqlast.Node) string {
	switch n := root.(type) {
	case *sqlast.Table:
		return n.FieldName
	case *sqlast.Column:
		return n.FieldName
	default:
		return ""
	}
}
