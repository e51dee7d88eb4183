package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
)

// Step option lists, feedback and deltas are stored as JSON arrays; they are
// only ever read back whole.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		prompt TEXT NOT NULL,
		xp_value INTEGER NOT NULL CHECK (xp_value >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS item_options (
		item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		option_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		label TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		is_correct BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (item_id, option_id)
	)`,
	`CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		title TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scenario_steps (
		scenario_id TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		question TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_index INTEGER NOT NULL,
		feedback TEXT NOT NULL,
		delta TEXT NOT NULL,
		PRIMARY KEY (scenario_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS imports (
		revision INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		items INTEGER NOT NULL,
		scenarios INTEGER NOT NULL,
		imported_at TIMESTAMP NOT NULL
	)`,
}

func migrate(ctx context.Context, drv dialect.ExecQuerier) error {
	for _, ddl := range tables {
		if err := drv.Exec(ctx, ddl, []any{}, nil); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
