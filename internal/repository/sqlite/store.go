// Package sqlite - локальное хранилище снимков датасета в файле SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/domain/repository"
)

// Store handles snapshot persistence
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

var _ repository.SnapshotRepository = (*Store)(nil)

// New открывает (или создаёт) базу и применяет миграции.
// ":memory:" подходит для тестов.
func New(dbPath string, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// один писатель, иначе SQLITE_BUSY при параллельных сохранениях
	db.SetMaxOpenConns(1)

	store := &Store{db: db, logger: logger}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("SQLite store opened", zap.String("path", dbPath))
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			hash TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at)`,
		`CREATE TABLE IF NOT EXISTS buildings (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			building_id TEXT NOT NULL,
			era TEXT NOT NULL,
			name TEXT,
			event_tag TEXT,
			squares REAL,
			data TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_buildings_id ON buildings(building_id, era)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Save пишет снимок в одной транзакции
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, hash, created_at) VALUES (?, ?, ?, ?)`,
		snapshot.ID.String(), snapshot.Source, snapshot.Hash, snapshot.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO buildings (snapshot_id, position, building_id, era, name, event_tag, squares, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare building insert: %w", err)
	}
	defer stmt.Close()

	for i := range snapshot.Records {
		rec := &snapshot.Records[i]
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %s/%s: %w", rec.ID, rec.Era, err)
		}
		_, err = stmt.ExecContext(ctx,
			snapshot.ID.String(), i, rec.ID, string(rec.Era), rec.Name, rec.EventTag, rec.SquaresAvg, string(data))
		if err != nil {
			return fmt.Errorf("insert building %s/%s: %w", rec.ID, rec.Era, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	s.logger.Info("Snapshot saved",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.String("hash", snapshot.Hash),
		zap.Int("records", len(snapshot.Records)))
	return nil
}

// LoadLatest возвращает последний снимок, nil если снимков нет
func (s *Store) LoadLatest(ctx context.Context) (*domain.Snapshot, error) {
	var (
		id        string
		snap      domain.Snapshot
		createdAt time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, hash, created_at FROM snapshots
		ORDER BY created_at DESC LIMIT 1
	`).Scan(&id, &snap.Source, &snap.Hash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select latest snapshot: %w", err)
	}

	snap.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("snapshot id %q: %w", id, err)
	}
	snap.CreatedAt = createdAt

	var payloads []string
	err = s.db.SelectContext(ctx, &payloads,
		`SELECT data FROM buildings WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("select buildings: %w", err)
	}

	snap.Records = make([]domain.BuildingRecord, 0, len(payloads))
	for _, p := range payloads {
		var rec domain.BuildingRecord
		if err := json.Unmarshal([]byte(p), &rec); err != nil {
			return nil, fmt.Errorf("decode building: %w", err)
		}
		snap.Records = append(snap.Records, rec)
	}
	return &snap, nil
}

// Prune оставляет keep последних снимков
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY created_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}
