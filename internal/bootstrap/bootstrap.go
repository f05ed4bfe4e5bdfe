// Package bootstrap собирает общие для cmd/api и cmd/worker зависимости
// загрузки датасета: источники, Redis, хранилище снимков.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/building-analyzer/internal/config"
	"github.com/building-analyzer/internal/domain/repository"
	"github.com/building-analyzer/internal/infrastructure/objectstore"
	"github.com/building-analyzer/internal/infrastructure/remote"
	"github.com/building-analyzer/internal/infrastructure/source"
	"github.com/building-analyzer/internal/pkg/metrics"
	"github.com/building-analyzer/internal/repository/cache"
	"github.com/building-analyzer/internal/repository/postgres"
	"github.com/building-analyzer/internal/repository/sqlite"
	"github.com/building-analyzer/internal/usecase"
)

const healthTimeout = 5 * time.Second

// Sources - маршрутизатор источников: файл, http(s) и s3://.
// Без AWS конфигурации схема s3:// недоступна.
func Sources(ctx context.Context, cfg *config.Config, log *zap.Logger) repository.SourceRepository {
	remoteClient := remote.NewClient(&cfg.Remote, log)

	objects, err := objectstore.NewS3Repository(ctx, &cfg.AWS, log)
	if err != nil {
		log.Warn("S3 client unavailable, s3:// sources disabled", zap.Error(err))
	}

	return source.NewRouter(remoteClient, objects, log)
}

// Redis подключается к Redis. nil без ошибки означает, что кеш выключен.
func Redis(cfg *config.Config, log *zap.Logger) (*cache.Redis, error) {
	if !cfg.Cache.Enabled {
		log.Info("Dataset cache disabled")
		return nil, nil
	}

	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()
	if err := redisClient.Health(ctx); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("redis health check: %w", err)
	}
	log.Info("Redis connected")
	return redisClient, nil
}

// SnapshotStore открывает хранилище снимков по STORE_DRIVER.
// Для "none" возвращает nil.
func SnapshotStore(cfg *config.Config, log *zap.Logger) (repository.SnapshotRepository, error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		store, err := sqlite.New(cfg.Store.SQLitePath, log)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info("SQLite snapshot store opened", zap.String("path", cfg.Store.SQLitePath))
		return store, nil

	case config.StorePostgres:
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		if err := db.Health(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres health check: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		log.Info("PostgreSQL snapshot store ready")
		return postgres.NewSnapshotRepository(db), nil

	default:
		log.Info("Snapshot store disabled")
		return nil, nil
	}
}

// DatasetUseCase собирает загрузчик датасета. redisClient и snapshots могут быть nil.
func DatasetUseCase(
	cfg *config.Config,
	sources repository.SourceRepository,
	redisClient *cache.Redis,
	snapshots repository.SnapshotRepository,
	m *metrics.Metrics,
	log *zap.Logger,
) *usecase.DatasetUseCase {
	var cacheRepo repository.CacheRepository
	if redisClient != nil {
		cacheRepo = cache.NewCacheRepository(redisClient)
	}

	return usecase.NewDatasetUseCase(sources, cacheRepo, snapshots, m, usecase.DatasetOptions{
		Source:            cfg.Dataset.Source,
		IDPrefixes:        cfg.Dataset.IDPrefixes,
		ParseTimeout:      cfg.Dataset.ParseTimeout,
		EventTagsPath:     cfg.Dataset.EventTagsPath,
		TagExceptionsPath: cfg.Dataset.TagExceptionsPath,
		CacheTTL:          cfg.Cache.DatasetTTL,
		KeepSnapshots:     cfg.Store.KeepSnapshots,
	}, log)
}
