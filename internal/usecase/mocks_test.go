package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/building-analyzer/internal/domain"
)

// MockSourceRepository is a mock of SourceRepository
type MockSourceRepository struct {
	mock.Mock
}

func (m *MockSourceRepository) Fetch(ctx context.Context, location string) ([]byte, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetTable(ctx context.Context, hash string) (*domain.Table, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *MockCacheRepository) SetTable(ctx context.Context, hash string, table *domain.Table, ttl time.Duration) error {
	args := m.Called(ctx, hash, table, ttl)
	return args.Error(0)
}

// MockSnapshotRepository is a mock of SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) LoadLatest(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPruningSnapshotRepository also removes old snapshots
type MockPruningSnapshotRepository struct {
	MockSnapshotRepository
}

func (m *MockPruningSnapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	args := m.Called(ctx, keep)
	return args.Get(0).(int64), args.Error(1)
}

// staticDatasets serves a fixed dataset
type staticDatasets struct {
	ds *domain.Dataset
}

func (s staticDatasets) Current() *domain.Dataset {
	if s.ds == nil {
		return domain.EmptyDataset()
	}
	return s.ds
}

func buildingsDataset() *domain.Dataset {
	table := domain.BuildTableFromMaps([]map[string]any{
		{"id": "W_Tower", "name": "Alpha Tower", "Event": "Summer 2024", "Era": "IronAge",
			"forge_points": 10.0, "goods": 4.0, "Nbr of squares (Avg)": 4.0},
		{"id": "W_Garden", "name": "Beta Garden", "Event": "Winter 2023", "Era": "IronAge",
			"forge_points": 6.0, "goods": 10.0, "Nbr of squares (Avg)": 2.0},
		{"id": "W_Tower", "name": "Alpha Tower", "Event": "Summer 2024", "Era": "BronzeAge",
			"forge_points": 5.0, "goods": 2.0, "Nbr of squares (Avg)": 4.0},
		{"id": "W_Shrine", "name": "Gamma Shrine", "Event": "Summer 2024", "Era": "BronzeAge",
			"forge_points": 1.0, "goods": nil, "Nbr of squares (Avg)": 1.0},
	})
	return domain.NewDataset("hash-1", "meta.json", table, domain.ParseReport{Records: table.Len()}, domain.OriginParse)
}
