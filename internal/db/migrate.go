package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent so the
// whole list re-runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// The budget tree. A node is a chapter when unit is empty; slot records
	// which child list of the parent it came from so load reproduces the
	// original ordering exactly.
	`CREATE TABLE IF NOT EXISTS budget_nodes (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id        TEXT REFERENCES budget_nodes(id) ON DELETE CASCADE,
		slot             TEXT NOT NULL DEFAULT 'item' CHECK(slot IN ('chapter','item')),
		order_index      INTEGER NOT NULL DEFAULT 0,
		code             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		full_description TEXT NOT NULL DEFAULT '',
		unit             TEXT NOT NULL DEFAULT '',
		price            REAL NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_budget_nodes_project ON budget_nodes(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_budget_nodes_parent ON budget_nodes(parent_id)`,

	`CREATE TABLE IF NOT EXISTS node_measurements (
		id           TEXT PRIMARY KEY,
		node_id      TEXT NOT NULL REFERENCES budget_nodes(id) ON DELETE CASCADE,
		order_index  INTEGER NOT NULL DEFAULT 0,
		description  TEXT NOT NULL DEFAULT '',
		units        REAL NOT NULL DEFAULT 0,
		length       REAL NOT NULL DEFAULT 0,
		width        REAL NOT NULL DEFAULT 0,
		height       REAL NOT NULL DEFAULT 0,
		is_increment INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_node_measurements_node ON node_measurements(node_id)`,

	// Cost decomposition lines, owned either by a tree node (owner_node)
	// or by a price-database entry (owner_code holds the normalized code).
	`CREATE TABLE IF NOT EXISTS breakdown_lines (
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		owner_node  TEXT REFERENCES budget_nodes(id) ON DELETE CASCADE,
		owner_code  TEXT,
		order_index INTEGER NOT NULL DEFAULT 0,
		code        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		unit        TEXT NOT NULL DEFAULT '',
		yield       REAL NOT NULL DEFAULT 0,
		price       REAL NOT NULL DEFAULT 0,
		total       REAL NOT NULL DEFAULT 0,
		CHECK(owner_node IS NOT NULL OR owner_code IS NOT NULL)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_breakdown_lines_project ON breakdown_lines(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_breakdown_lines_node ON breakdown_lines(owner_node)`,

	`CREATE TABLE IF NOT EXISTS price_entries (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		norm_code  TEXT NOT NULL,
		code       TEXT NOT NULL,
		unit       TEXT NOT NULL DEFAULT '',
		summary    TEXT NOT NULL DEFAULT '',
		price      REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, norm_code)
	)`,
}
