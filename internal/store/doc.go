// Package store provides SQLite-backed durable storage for compiled plans.
//
// The store keeps an append-only log with:
//   - Plans: Canonical plan JSON keyed by its content hash
//   - Compilations: One record per compile request, pointing at its plan
//
// # Critical Patterns
//
// Content-Addressed Plans
//   - plans.hash is the plan hash computed by sqlast.Hash
//   - Writes use ON CONFLICT DO NOTHING, so recompiling an identical query
//     stores the plan once
//
// Logical Ordering
//   - Compilations are ordered by seq INTEGER (logical clock), NEVER timestamps
//   - All list queries include: ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Compilation IDs are UUIDv7 strings from an IDGenerator.
package store
