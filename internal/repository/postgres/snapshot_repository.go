package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/domain/repository"
)

type snapshotRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSnapshotRepository создает хранилище снимков в PostgreSQL
func NewSnapshotRepository(db *DB) repository.SnapshotRepository {
	return &snapshotRepository{
		db:     db,
		logger: db.logger,
	}
}

type snapshotRow struct {
	ID        uuid.UUID `db:"id"`
	Source    string    `db:"source"`
	Hash      string    `db:"hash"`
	CreatedAt time.Time `db:"created_at"`
}

type buildingRow struct {
	SnapshotID       uuid.UUID      `db:"snapshot_id"`
	Position         int            `db:"position"`
	BuildingID       string         `db:"building_id"`
	Era              string         `db:"era"`
	Name             string         `db:"name"`
	EventTag         string         `db:"event_tag"`
	Squares          float64        `db:"squares"`
	OtherProductions pq.StringArray `db:"other_productions"`
	Record           []byte         `db:"record"`
}

// Save пишет снимок и все его записи в одной транзакции
func (r *snapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO dataset_snapshots (id, source, hash, created_at)
		VALUES (:id, :source, :hash, :created_at)
	`, snapshotRow{ID: snapshot.ID, Source: snapshot.Source, Hash: snapshot.Hash, CreatedAt: snapshot.CreatedAt})
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO snapshot_buildings
			(snapshot_id, position, building_id, era, name, event_tag, squares, other_productions, record)
		VALUES
			(:snapshot_id, :position, :building_id, :era, :name, :event_tag, :squares, :other_productions, :record)
	`)
	if err != nil {
		return fmt.Errorf("prepare building insert: %w", err)
	}
	defer stmt.Close()

	for i := range snapshot.Records {
		rec := &snapshot.Records[i]
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %s/%s: %w", rec.ID, rec.Era, err)
		}
		row := buildingRow{
			SnapshotID:       snapshot.ID,
			Position:         i,
			BuildingID:       rec.ID,
			Era:              string(rec.Era),
			Name:             rec.Name,
			EventTag:         rec.EventTag,
			Squares:          rec.SquaresAvg,
			OtherProductions: pq.StringArray(nonNil(rec.OtherProductions)),
			Record:           payload,
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("insert building %s/%s: %w", rec.ID, rec.Era, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	r.logger.Info("Snapshot saved",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.String("hash", snapshot.Hash),
		zap.Int("records", len(snapshot.Records)))
	return nil
}

// LoadLatest возвращает последний снимок или nil, если снимков нет
func (r *snapshotRepository) LoadLatest(ctx context.Context) (*domain.Snapshot, error) {
	var head snapshotRow
	err := r.db.GetContext(ctx, &head, `
		SELECT id, source, hash, created_at
		FROM dataset_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to load latest snapshot", zap.Error(err))
		return nil, fmt.Errorf("select latest snapshot: %w", err)
	}

	var rows []buildingRow
	err = r.db.SelectContext(ctx, &rows, `
		SELECT snapshot_id, position, building_id, era, name, event_tag, squares, other_productions, record
		FROM snapshot_buildings
		WHERE snapshot_id = $1
		ORDER BY position
	`, head.ID)
	if err != nil {
		return nil, fmt.Errorf("select snapshot buildings: %w", err)
	}

	records := make([]domain.BuildingRecord, 0, len(rows))
	for _, row := range rows {
		var rec domain.BuildingRecord
		if err := json.Unmarshal(row.Record, &rec); err != nil {
			return nil, fmt.Errorf("decode building %s/%s: %w", row.BuildingID, row.Era, err)
		}
		records = append(records, rec)
	}

	return &domain.Snapshot{
		ID:        head.ID,
		Source:    head.Source,
		Hash:      head.Hash,
		CreatedAt: head.CreatedAt,
		Records:   records,
	}, nil
}

// Prune оставляет keep последних снимков, записи удаляются каскадно
func (r *snapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM dataset_snapshots WHERE id NOT IN (
			SELECT id FROM dataset_snapshots ORDER BY created_at DESC LIMIT $1
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// Close закрывает пул соединений
func (r *snapshotRepository) Close() error {
	return r.db.Close()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
