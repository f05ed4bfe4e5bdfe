package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/domain/repository"
	apperrors "github.com/building-analyzer/internal/pkg/errors"
	"github.com/building-analyzer/internal/usecase"
)

const rawBuildings = `[
	{"id": "W_Good", "name": "Good", "components": {
		"AllAge": {"placement": {"size": {"x": 2, "y": 2}}},
		"IronAge": {"production": {"options": [{"products": [
			{"type": "resources", "playerResources": {"resources": {"strategy_points": 3}}}
		]}]}}
	}},
	{"id": "W_COP_Tower", "name": "Tower", "components": {
		"AllAge": {"placement": {"size": {"x": 1, "y": 1}}},
		"BronzeAge": {}
	}}
]`

func rowOf(t *domain.Table, id string) int {
	for i := 0; i < t.Len(); i++ {
		if t.Text(i, domain.ColID) == id {
			return i
		}
	}
	return -1
}

func newDatasetUseCase(
	source *MockSourceRepository,
	cache repository.CacheRepository,
	snapshots repository.SnapshotRepository,
	opts usecase.DatasetOptions,
) *usecase.DatasetUseCase {
	if opts.Source == "" {
		opts.Source = "meta.json"
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Hour
	}
	return usecase.NewDatasetUseCase(source, cache, snapshots, nil, opts, zap.NewNop())
}

func TestDatasetUseCase_Load(t *testing.T) {
	ctx := context.Background()
	hash := usecase.ContentHash([]byte(rawBuildings))
	key := usecase.ParseKey([]byte(rawBuildings), nil)

	t.Run("parses, caches and snapshots", func(t *testing.T) {
		source := &MockSourceRepository{}
		cache := &MockCacheRepository{}
		snapshots := &MockSnapshotRepository{}
		uc := newDatasetUseCase(source, cache, snapshots, usecase.DatasetOptions{})

		assert.Equal(t, domain.OriginEmpty, uc.Current().Origin)
		assert.False(t, uc.Loaded())

		source.On("Fetch", mock.Anything, "meta.json").Return([]byte(rawBuildings), nil)
		cache.On("GetTable", mock.Anything, key).Return(nil, nil).Once()
		cache.On("SetTable", mock.Anything, key, mock.AnythingOfType("*domain.Table"), time.Hour).Return(nil).Once()
		snapshots.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.Snapshot) bool {
			return s.Hash == hash && s.Source == "meta.json" && len(s.Records) == 2 && s.ID != uuid.Nil
		})).Return(nil).Once()

		ds, err := uc.Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, domain.OriginParse, ds.Origin)
		assert.Equal(t, hash, ds.Hash)
		assert.Equal(t, 2, ds.Table.Len())
		assert.Equal(t, 2, ds.Report.Records)
		assert.Contains(t, ds.EraStats, domain.EraIronAge)
		assert.Same(t, ds, uc.Current())
		assert.True(t, uc.Loaded())

		// same bytes again are served from memory
		again, err := uc.Load(ctx, "meta.json")
		require.NoError(t, err)
		assert.Same(t, ds, again)

		cache.AssertExpectations(t)
		snapshots.AssertExpectations(t)
	})

	t.Run("redis hit skips parsing", func(t *testing.T) {
		source := &MockSourceRepository{}
		cache := &MockCacheRepository{}
		snapshots := &MockSnapshotRepository{}
		uc := newDatasetUseCase(source, cache, snapshots, usecase.DatasetOptions{})

		cached := domain.BuildTableFromMaps([]map[string]any{{"id": "W_Cached", "Era": "IronAge", "forge_points": 1.0}})
		source.On("Fetch", mock.Anything, "meta.json").Return([]byte(rawBuildings), nil)
		cache.On("GetTable", mock.Anything, key).Return(cached, nil)

		ds, err := uc.Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, domain.OriginCache, ds.Origin)
		assert.Same(t, cached, ds.Table)
		cache.AssertNotCalled(t, "SetTable", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		snapshots.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cache errors do not fail the load", func(t *testing.T) {
		source := &MockSourceRepository{}
		cache := &MockCacheRepository{}
		uc := newDatasetUseCase(source, cache, nil, usecase.DatasetOptions{})

		source.On("Fetch", mock.Anything, "meta.json").Return([]byte(rawBuildings), nil)
		cache.On("GetTable", mock.Anything, key).Return(nil, errors.New("redis down"))
		cache.On("SetTable", mock.Anything, key, mock.Anything, time.Hour).Return(errors.New("redis down"))

		ds, err := uc.Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, domain.OriginParse, ds.Origin)
	})

	t.Run("explicit source overrides configured one", func(t *testing.T) {
		source := &MockSourceRepository{}
		uc := newDatasetUseCase(source, nil, nil, usecase.DatasetOptions{})

		source.On("Fetch", mock.Anything, "s3://bucket/meta.json").Return([]byte(rawBuildings), nil)

		ds, err := uc.Load(ctx, "s3://bucket/meta.json")
		require.NoError(t, err)
		assert.Equal(t, "s3://bucket/meta.json", ds.Source)
		source.AssertNotCalled(t, "Fetch", mock.Anything, "meta.json")
	})

	t.Run("event tag files are applied", func(t *testing.T) {
		source := &MockSourceRepository{}
		uc := newDatasetUseCase(source, nil, nil, usecase.DatasetOptions{
			EventTagsPath:     "tags.json",
			TagExceptionsPath: "exceptions.json",
		})

		source.On("Fetch", mock.Anything, "meta.json").Return([]byte(rawBuildings), nil)
		source.On("Fetch", mock.Anything, "tags.json").Return([]byte(`{"COP": "Community Pass"}`), nil)
		source.On("Fetch", mock.Anything, "exceptions.json").Return([]byte(`{"W_Good": "Anniversary"}`), nil)

		ds, err := uc.Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "Community Pass", ds.Table.Text(rowOf(ds.Table, "W_COP_Tower"), domain.ColEvent))
		assert.Equal(t, "Anniversary", ds.Table.Text(rowOf(ds.Table, "W_Good"), domain.ColEvent))
	})

	t.Run("changed tag files are parsed again", func(t *testing.T) {
		source := &MockSourceRepository{}
		cache := &MockCacheRepository{}
		uc := newDatasetUseCase(source, cache, nil, usecase.DatasetOptions{EventTagsPath: "tags.json"})

		plainKey := usecase.ParseKey([]byte(rawBuildings), nil, []byte(`{}`), nil)
		taggedKey := usecase.ParseKey([]byte(rawBuildings), nil, []byte(`{"COP": "Community Pass"}`), nil)
		require.NotEqual(t, plainKey, taggedKey)

		source.On("Fetch", mock.Anything, "meta.json").Return([]byte(rawBuildings), nil)
		source.On("Fetch", mock.Anything, "tags.json").Return([]byte(`{}`), nil).Once()
		source.On("Fetch", mock.Anything, "tags.json").Return([]byte(`{"COP": "Community Pass"}`), nil).Once()
		cache.On("GetTable", mock.Anything, plainKey).Return(nil, nil).Once()
		cache.On("SetTable", mock.Anything, plainKey, mock.Anything, time.Hour).Return(nil).Once()
		cache.On("GetTable", mock.Anything, taggedKey).Return(nil, nil).Once()
		cache.On("SetTable", mock.Anything, taggedKey, mock.Anything, time.Hour).Return(nil).Once()

		first, err := uc.Load(ctx, "")
		require.NoError(t, err)
		second, err := uc.Load(ctx, "")
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.Equal(t, first.Hash, second.Hash)
		assert.Equal(t, "W_COP_Tower", first.Table.Text(rowOf(first.Table, "W_COP_Tower"), domain.ColEvent))
		assert.Equal(t, "Community Pass", second.Table.Text(rowOf(second.Table, "W_COP_Tower"), domain.ColEvent))
		cache.AssertExpectations(t)
	})

	t.Run("unreadable tag file fails the load", func(t *testing.T) {
		source := &MockSourceRepository{}
		uc := newDatasetUseCase(source, nil, nil, usecase.DatasetOptions{EventTagsPath: "missing.json"})

		source.On("Fetch", mock.Anything, "meta.json").Return([]byte(rawBuildings), nil)
		source.On("Fetch", mock.Anything, "missing.json").Return(nil, errors.New("no such file"))

		ds, err := uc.Load(ctx, "")
		assert.ErrorIs(t, err, apperrors.ErrDatasetLoadFailed)
		assert.Equal(t, domain.OriginEmpty, ds.Origin)
	})

	t.Run("failure keeps the current dataset", func(t *testing.T) {
		source := &MockSourceRepository{}
		uc := newDatasetUseCase(source, nil, nil, usecase.DatasetOptions{})

		source.On("Fetch", mock.Anything, "meta.json").Return([]byte(rawBuildings), nil)
		source.On("Fetch", mock.Anything, "broken.json").Return([]byte(`{"not": "an array"}`), nil)
		source.On("Fetch", mock.Anything, "offline.json").Return(nil, errors.New("connection refused"))

		loaded, err := uc.Load(ctx, "")
		require.NoError(t, err)

		for _, src := range []string{"broken.json", "offline.json"} {
			ds, err := uc.Load(ctx, src)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrDatasetLoadFailed)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, src, appErr.Details["source"])

			assert.Equal(t, 0, ds.Table.Len())
			assert.Same(t, loaded, uc.Current())
		}
	})

	t.Run("concurrent loads parse once", func(t *testing.T) {
		source := &MockSourceRepository{}
		snapshots := &MockSnapshotRepository{}
		uc := newDatasetUseCase(source, nil, snapshots, usecase.DatasetOptions{})

		source.On("Fetch", mock.Anything, "meta.json").Return([]byte(rawBuildings), nil)
		snapshots.On("Save", mock.Anything, mock.Anything).Return(nil)

		var wg sync.WaitGroup
		results := make([]*domain.Dataset, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ds, err := uc.Load(ctx, "")
				assert.NoError(t, err)
				results[i] = ds
			}(i)
		}
		wg.Wait()

		snapshots.AssertNumberOfCalls(t, "Save", 1)
		for _, ds := range results {
			assert.Same(t, results[0], ds)
		}
	})

	t.Run("old snapshots are pruned", func(t *testing.T) {
		source := &MockSourceRepository{}
		snapshots := &MockPruningSnapshotRepository{}
		uc := newDatasetUseCase(source, nil, snapshots, usecase.DatasetOptions{KeepSnapshots: 5})

		source.On("Fetch", mock.Anything, "meta.json").Return([]byte(rawBuildings), nil)
		snapshots.On("Save", mock.Anything, mock.Anything).Return(nil)
		snapshots.On("Prune", mock.Anything, 5).Return(int64(2), nil).Once()

		_, err := uc.Load(ctx, "")
		require.NoError(t, err)
		snapshots.AssertExpectations(t)
	})
}

func TestParseKey(t *testing.T) {
	raw := []byte(rawBuildings)
	base := usecase.ParseKey(raw, nil)

	assert.Equal(t, base, usecase.ParseKey(raw, []string{"W_"}))
	assert.NotEqual(t, base, usecase.ParseKey(raw, []string{"W_", "R_"}))
	assert.Equal(t, usecase.ParseKey(raw, []string{"R_", "W_"}), usecase.ParseKey(raw, []string{"W_", "R_"}))
	assert.NotEqual(t, base, usecase.ParseKey(raw, nil, []byte(`{"COP": "Community Pass"}`)))
	assert.NotEqual(t,
		usecase.ParseKey(raw, nil, []byte(`{"a": "b"}`), nil),
		usecase.ParseKey(raw, nil, nil, []byte(`{"a": "b"}`)))
	assert.NotEqual(t, usecase.ContentHash(raw), base)
}

func TestDatasetUseCase_Restore(t *testing.T) {
	ctx := context.Background()

	snapshot := &domain.Snapshot{
		ID:        uuid.New(),
		Source:    "meta.json",
		Hash:      "stored-hash",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
		Records: []domain.BuildingRecord{
			{ID: "W_Stored", Name: "Stored", Era: domain.EraIronAge, SquaresAvg: 4, Production: map[string]float64{domain.ColForgePoints: 2}},
		},
	}

	t.Run("falls back to the latest snapshot", func(t *testing.T) {
		source := &MockSourceRepository{}
		snapshots := &MockSnapshotRepository{}
		uc := newDatasetUseCase(source, nil, snapshots, usecase.DatasetOptions{})

		source.On("Fetch", mock.Anything, "meta.json").Return(nil, errors.New("timeout"))
		snapshots.On("LoadLatest", mock.Anything).Return(snapshot, nil)

		ds, err := uc.LoadOrRestore(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OriginSnapshot, ds.Origin)
		assert.Equal(t, "stored-hash", ds.Hash)
		assert.Equal(t, 1, ds.Table.Len())
		assert.Equal(t, 2.0, ds.Table.NumberOr(0, domain.ColForgePoints, 0))
		assert.Same(t, ds, uc.Current())
	})

	t.Run("no snapshot keeps the load error", func(t *testing.T) {
		source := &MockSourceRepository{}
		snapshots := &MockSnapshotRepository{}
		uc := newDatasetUseCase(source, nil, snapshots, usecase.DatasetOptions{})

		source.On("Fetch", mock.Anything, "meta.json").Return(nil, errors.New("timeout"))
		snapshots.On("LoadLatest", mock.Anything).Return(nil, nil)

		_, err := uc.LoadOrRestore(ctx)
		assert.ErrorIs(t, err, apperrors.ErrDatasetLoadFailed)
		assert.False(t, uc.Loaded())

		_, err = uc.RestoreLatest(ctx)
		assert.ErrorIs(t, err, apperrors.ErrDatasetNotLoaded)
	})

	t.Run("without a store", func(t *testing.T) {
		uc := newDatasetUseCase(&MockSourceRepository{}, nil, nil, usecase.DatasetOptions{})
		_, err := uc.RestoreLatest(ctx)
		assert.ErrorIs(t, err, apperrors.ErrDatasetNotLoaded)
	})
}
