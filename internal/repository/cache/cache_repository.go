package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/domain/repository"
)

const tableKeyPrefix = "dataset:table:"

// TableKey - ключ таблицы в Redis по хешу документа
func TableKey(hash string) string {
	return tableKeyPrefix + hash
}

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key), zap.Int("bytes", len(val)))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// GetTable восстанавливает таблицу из JSON записей
func (r *cacheRepository) GetTable(ctx context.Context, hash string) (*domain.Table, error) {
	data, err := r.Get(ctx, TableKey(hash))
	if err != nil || data == nil {
		return nil, err
	}

	table, err := domain.TableFromJSON(data)
	if err != nil {
		r.logger.Warn("Corrupted table in cache, dropping",
			zap.String("hash", hash),
			zap.Error(err))
		_ = r.Delete(ctx, TableKey(hash))
		return nil, nil
	}
	return table, nil
}

// SetTable сохраняет таблицу как JSON записей
func (r *cacheRepository) SetTable(ctx context.Context, hash string, table *domain.Table, ttl time.Duration) error {
	data, err := table.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}
	return r.Set(ctx, TableKey(hash), data, ttl)
}
