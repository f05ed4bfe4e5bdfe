package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/domain/repository"
	"github.com/building-analyzer/internal/parser"
	apperrors "github.com/building-analyzer/internal/pkg/errors"
	"github.com/building-analyzer/internal/pkg/metrics"
)

// maxMemoized - сколько датасетов держим в памяти по ключу разбора
const maxMemoized = 4

// DatasetOptions - параметры загрузки датасета
type DatasetOptions struct {
	Source            string
	IDPrefixes        []string
	ParseTimeout      time.Duration
	EventTagsPath     string
	TagExceptionsPath string
	CacheTTL          time.Duration
	// KeepSnapshots - сколько снимков оставлять, 0 - не чистить
	KeepSnapshots int
}

// snapshotPruner - хранилища, умеющие удалять старые снимки
type snapshotPruner interface {
	Prune(ctx context.Context, keep int) (int64, error)
}

// DatasetUseCase загружает, кеширует и хранит текущий датасет
type DatasetUseCase struct {
	sources   repository.SourceRepository
	cacheRepo repository.CacheRepository
	snapshots repository.SnapshotRepository
	metrics   *metrics.Metrics
	opts      DatasetOptions
	logger    *zap.Logger

	group   singleflight.Group
	current atomic.Pointer[domain.Dataset]

	memoMu   sync.Mutex
	memo     map[string]*domain.Dataset
	memoKeys []string
}

// NewDatasetUseCase создает новый экземпляр DatasetUseCase.
// cacheRepo, snapshots и m могут быть nil.
func NewDatasetUseCase(
	sources repository.SourceRepository,
	cacheRepo repository.CacheRepository,
	snapshots repository.SnapshotRepository,
	m *metrics.Metrics,
	opts DatasetOptions,
	logger *zap.Logger,
) *DatasetUseCase {
	return &DatasetUseCase{
		sources:   sources,
		cacheRepo: cacheRepo,
		snapshots: snapshots,
		metrics:   m,
		opts:      opts,
		logger:    logger,
		memo:      make(map[string]*domain.Dataset),
	}
}

// Current возвращает текущий датасет, пустой если ничего не загружено
func (uc *DatasetUseCase) Current() *domain.Dataset {
	if ds := uc.current.Load(); ds != nil {
		return ds
	}
	return domain.EmptyDataset()
}

// Loaded - загружен ли хоть один датасет
func (uc *DatasetUseCase) Loaded() bool {
	return uc.current.Load() != nil
}

// Load загружает документ по расположению (пусто - источник из конфигурации)
// и делает его текущим. При ошибке текущий датасет не меняется, а
// возвращается пустой датасет и DATASET_LOAD_FAILED.
func (uc *DatasetUseCase) Load(ctx context.Context, source string) (*domain.Dataset, error) {
	if strings.TrimSpace(source) == "" {
		source = uc.opts.Source
	}

	files, err := uc.fetch(ctx, source)
	if err != nil {
		return uc.loadFailed(source, err)
	}
	tagger, err := parser.NewEventTagger(files.keywords, files.exceptions)
	if err != nil {
		return uc.loadFailed(source, fmt.Errorf("event tags: %w", err))
	}

	hash := ContentHash(files.raw)
	key := ParseKey(files.raw, uc.opts.IDPrefixes, files.keywords, files.exceptions)
	v, err, shared := uc.group.Do(key, func() (interface{}, error) {
		return uc.build(ctx, key, hash, source, files.raw, tagger)
	})
	if err != nil {
		return uc.loadFailed(source, err)
	}

	ds := v.(*domain.Dataset)
	uc.swap(ds)
	uc.logger.Info("Dataset loaded",
		zap.String("source", source),
		zap.String("hash", ds.Hash),
		zap.String("origin", ds.Origin),
		zap.Int("rows", ds.Table.Len()),
		zap.Bool("shared", shared))
	return ds, nil
}

// LoadOrRestore - стартовая загрузка: при недоступном источнике
// поднимаем последний снимок
func (uc *DatasetUseCase) LoadOrRestore(ctx context.Context) (*domain.Dataset, error) {
	ds, err := uc.Load(ctx, "")
	if err == nil {
		return ds, nil
	}
	if uc.snapshots == nil {
		return ds, err
	}

	uc.logger.Warn("Dataset source unavailable, restoring latest snapshot", zap.Error(err))
	restored, restoreErr := uc.RestoreLatest(ctx)
	if restoreErr != nil {
		uc.logger.Error("Failed to restore snapshot", zap.Error(restoreErr))
		return ds, err
	}
	return restored, nil
}

// RestoreLatest делает текущим последний сохранённый снимок
func (uc *DatasetUseCase) RestoreLatest(ctx context.Context) (*domain.Dataset, error) {
	if uc.snapshots == nil {
		return domain.EmptyDataset(), apperrors.ErrDatasetNotLoaded
	}

	snapshot, err := uc.snapshots.LoadLatest(ctx)
	if err != nil {
		return domain.EmptyDataset(), fmt.Errorf("load latest snapshot: %w", err)
	}
	if snapshot == nil {
		return domain.EmptyDataset(), apperrors.ErrDatasetNotLoaded
	}

	report := domain.ParseReport{Records: len(snapshot.Records)}
	ds := domain.NewDataset(snapshot.Hash, snapshot.Source, domain.BuildTable(snapshot.Records), report, domain.OriginSnapshot)
	uc.swap(ds)

	uc.logger.Info("Dataset restored from snapshot",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.String("hash", snapshot.Hash),
		zap.Time("created_at", snapshot.CreatedAt),
		zap.Int("rows", ds.Table.Len()))
	return ds, nil
}

// ContentHash - SHA-256 сырого документа в hex
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ParseKey - ключ разобранной таблицы: документ, префиксы id и файлы меток.
// Одинаковый документ с другими метками или префиксами разбирается заново.
// Пустые файлы в конце списка не меняют ключ.
func ParseKey(raw []byte, prefixes []string, tagFiles ...[]byte) string {
	if len(prefixes) == 0 {
		prefixes = parser.DefaultPrefixes
	}
	sorted := append([]string(nil), prefixes...)
	sort.Strings(sorted)

	for len(tagFiles) > 0 && len(tagFiles[len(tagFiles)-1]) == 0 {
		tagFiles = tagFiles[:len(tagFiles)-1]
	}

	h := sha256.New()
	h.Write(raw)
	fmt.Fprintf(h, "\x00%s", strings.Join(sorted, ","))
	for _, f := range tagFiles {
		fmt.Fprintf(h, "\x00%d:", len(f))
		h.Write(f)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// fetchedFiles - документ и файлы меток событий одной загрузки
type fetchedFiles struct {
	raw        []byte
	keywords   []byte
	exceptions []byte
}

// fetch параллельно читает документ и файлы меток событий
func (uc *DatasetUseCase) fetch(ctx context.Context, source string) (*fetchedFiles, error) {
	files := &fetchedFiles{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := uc.sources.Fetch(gctx, source)
		if err != nil {
			return fmt.Errorf("fetch dataset: %w", err)
		}
		files.raw = b
		return nil
	})
	g.Go(func() (err error) {
		files.keywords, err = uc.readOptional(gctx, uc.opts.EventTagsPath)
		return err
	})
	g.Go(func() (err error) {
		files.exceptions, err = uc.readOptional(gctx, uc.opts.TagExceptionsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (uc *DatasetUseCase) readOptional(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, nil
	}
	b, err := uc.sources.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return b, nil
}

// build получает датасет по ключу разбора: память, затем Redis, затем разбор
func (uc *DatasetUseCase) build(ctx context.Context, key, hash, source string, raw []byte, tagger *parser.EventTagger) (*domain.Dataset, error) {
	// 1. Память
	if ds := uc.memoized(key); ds != nil {
		uc.metrics.CacheHit()
		uc.logger.Debug("Dataset found in memory", zap.String("key", key))
		return ds, nil
	}

	// 2. Redis
	if uc.cacheRepo != nil {
		table, err := uc.cacheRepo.GetTable(ctx, key)
		if err != nil {
			uc.logger.Warn("Failed to get dataset from cache", zap.String("key", key), zap.Error(err))
		}
		if table != nil {
			uc.metrics.CacheHit()
			ds := domain.NewDataset(hash, source, table, domain.ParseReport{Records: table.Len()}, domain.OriginCache)
			uc.remember(key, ds)
			return ds, nil
		}
	}
	uc.metrics.CacheMiss()

	// 3. Разбор
	parseCtx := ctx
	if uc.opts.ParseTimeout > 0 {
		var cancel context.CancelFunc
		parseCtx, cancel = context.WithTimeout(ctx, uc.opts.ParseTimeout)
		defer cancel()
	}

	records, report, err := parser.New(uc.opts.IDPrefixes, tagger, uc.logger).Parse(parseCtx, raw)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	uc.metrics.DatasetParsed(report.Duration, report.Errors)

	ds := domain.NewDataset(hash, source, domain.BuildTable(records), report, domain.OriginParse)
	uc.remember(key, ds)

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetTable(ctx, key, ds.Table, uc.opts.CacheTTL); err != nil {
			uc.logger.Warn("Failed to cache dataset", zap.String("key", key), zap.Error(err))
		}
	}
	uc.saveSnapshot(ctx, hash, source, records)

	return ds, nil
}

func (uc *DatasetUseCase) saveSnapshot(ctx context.Context, hash, source string, records []domain.BuildingRecord) {
	if uc.snapshots == nil {
		return
	}

	snapshot := &domain.Snapshot{
		ID:        uuid.New(),
		Source:    source,
		Hash:      hash,
		CreatedAt: time.Now().UTC(),
		Records:   records,
	}
	if err := uc.snapshots.Save(ctx, snapshot); err != nil {
		uc.logger.Error("Failed to save dataset snapshot", zap.String("hash", hash), zap.Error(err))
		return
	}
	uc.logger.Info("Dataset snapshot saved",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.Int("records", len(records)))

	pruner, ok := uc.snapshots.(snapshotPruner)
	if !ok || uc.opts.KeepSnapshots <= 0 {
		return
	}
	if removed, err := pruner.Prune(ctx, uc.opts.KeepSnapshots); err != nil {
		uc.logger.Warn("Failed to prune snapshots", zap.Error(err))
	} else if removed > 0 {
		uc.logger.Debug("Old snapshots pruned", zap.Int64("removed", removed))
	}
}

func (uc *DatasetUseCase) swap(ds *domain.Dataset) {
	uc.current.Store(ds)
	uc.metrics.SetDatasetRows(ds.Table.Len())
}

func (uc *DatasetUseCase) memoized(key string) *domain.Dataset {
	uc.memoMu.Lock()
	defer uc.memoMu.Unlock()
	return uc.memo[key]
}

func (uc *DatasetUseCase) remember(key string, ds *domain.Dataset) {
	uc.memoMu.Lock()
	defer uc.memoMu.Unlock()

	if _, ok := uc.memo[key]; ok {
		return
	}
	uc.memo[key] = ds
	uc.memoKeys = append(uc.memoKeys, key)
	for len(uc.memoKeys) > maxMemoized {
		oldest := uc.memoKeys[0]
		uc.memoKeys = uc.memoKeys[1:]
		delete(uc.memo, oldest)
	}
}

func (uc *DatasetUseCase) loadFailed(source string, err error) (*domain.Dataset, error) {
	uc.logger.Error("Dataset load failed", zap.String("source", source), zap.Error(err))
	return domain.EmptyDataset(), apperrors.ErrDatasetLoadFailed.WithDetails(map[string]interface{}{
		"source": source,
		"reason": err.Error(),
	})
}
