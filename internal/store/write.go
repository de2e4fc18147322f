package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/relplan/internal/sqlast"
)

// Record is one compile request to be logged.
type Record struct {
	Query      string
	SchemaHash string
	Plan       sqlast.Node
}

// Compilation is a logged compile request.
type Compilation struct {
	ID         string `json:"id"`
	Seq        int64  `json:"seq"`
	PlanHash   string `json:"plan_hash"`
	SchemaHash string `json:"schema_hash"`
	RootField  string `json:"root_field"`
	Query      string `json:"query"`
}

// RecordCompilation stores the plan (once per hash) and appends a
// compilation record pointing at it. The record's seq is one past the
// highest seq in the log.
//
// Plans use ON CONFLICT(hash) DO NOTHING: the hash covers the full canonical
// tree, so an existing row is already identical.
func (s *Store) RecordCompilation(ctx context.Context, rec Record) (Compilation, error) {
	if rec.Plan == nil {
		return Compilation{}, errors.New("record compilation: plan is required")
	}

	planJSON, planHash, err := marshalPlan(rec.Plan)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}

	c := Compilation{
		ID:         s.ids.Generate(),
		PlanHash:   planHash,
		SchemaHash: rec.SchemaHash,
		RootField:  rootFieldName(rec.Plan),
		Query:      rec.Query,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (hash, root_field, plan)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, c.PlanHash, c.RootField, planJSON)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: write plan: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations
	`).Scan(&c.Seq)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO compilations (id, seq, plan_hash, schema_hash, query)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Seq, c.PlanHash, c.SchemaHash, c.Query)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: write compilation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Compilation{}, fmt.Errorf("record compilation: commit: %w", err)
	}
	return c, nil
}
