package repository

import (
	"context"

	"github.com/building-analyzer/internal/domain"
)

// SnapshotRepository хранит копии распарсенного датасета
type SnapshotRepository interface {
	// Save сохраняет снимок со всеми записями
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// LoadLatest возвращает последний снимок, nil если снимков нет
	LoadLatest(ctx context.Context) (*domain.Snapshot, error)

	// Close освобождает соединение
	Close() error
}
