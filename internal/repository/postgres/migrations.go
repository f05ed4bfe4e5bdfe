package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS dataset_snapshots (
		id UUID PRIMARY KEY,
		source TEXT NOT NULL,
		hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dataset_snapshots_created ON dataset_snapshots(created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS snapshot_buildings (
		snapshot_id UUID NOT NULL REFERENCES dataset_snapshots(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		building_id TEXT NOT NULL,
		era TEXT NOT NULL,
		name TEXT NOT NULL,
		event_tag TEXT NOT NULL,
		squares DOUBLE PRECISION NOT NULL,
		other_productions TEXT[] NOT NULL DEFAULT '{}',
		record JSONB NOT NULL,
		PRIMARY KEY (snapshot_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshot_buildings_id ON snapshot_buildings(building_id, era)`,
}

// Migrate создаёт таблицы снимков, если их нет. Все шаги в одной транзакции.
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, m := range migrations {
		if _, err := tx.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	db.logger.Debug("Snapshot schema ready", zap.Int("steps", len(migrations)))
	return nil
}
