package repository

import (
	"context"
	"time"

	"github.com/building-analyzer/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу, промах - nil без ошибки
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetTable получает собранную таблицу по хешу документа
	GetTable(ctx context.Context, hash string) (*domain.Table, error)

	// SetTable сохраняет таблицу по хешу документа
	SetTable(ctx context.Context, hash string, table *domain.Table, ttl time.Duration) error
}
