package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrPlanNotFound is returned by ReadPlan for an unknown hash.
var ErrPlanNotFound = errors.New("plan not found")

// Plan is a stored plan tree in canonical JSON form.
type Plan struct {
	Hash      string          `json:"hash"`
	RootField string          `json:"root_field"`
	Plan      json.RawMessage `json:"plan"`
}

// ReadPlan returns the plan stored under hash.
func (s *Store) ReadPlan(ctx context.Context, hash string) (Plan, error) {
	var (
		p    Plan
		data string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT hash, root_field, plan FROM plans WHERE hash = ?
	`, hash).Scan(&p.Hash, &p.RootField, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, hash)
	}
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	p.Plan = json.RawMessage(data)
	return p, nil
}

// ListCompilations returns logged compilations in log order.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
// A limit of zero or less returns every record.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ListCompilations(ctx context.Context, limit int) ([]Compilation, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.seq, c.plan_hash, c.schema_hash, p.root_field, c.query
		FROM compilations c
		JOIN plans p ON c.plan_hash = p.hash
		ORDER BY c.seq ASC, c.id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	compilations := []Compilation{}
	for rows.Next() {
		var c Compilation
		if err := rows.Scan(&c.ID, &c.Seq, &c.PlanHash, &c.SchemaHash, &c.RootField, &c.Query); err != nil {
			return nil, fmt.Errorf("scan compilation: %w", err)
		}
		compilations = append(compilations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}

	return compilations, nil
}
