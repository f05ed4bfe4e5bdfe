package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/repository/sqlite"
)

type StoreSuite struct {
	suite.Suite
	store *sqlite.Store
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	store, err := sqlite.New(filepath.Join(s.T().TempDir(), "buildings.db"), zap.NewNop())
	s.Require().NoError(err)
	s.store = store
}

func (s *StoreSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *StoreSuite) snapshot(hash string, createdAt time.Time, ids ...string) *domain.Snapshot {
	snap := &domain.Snapshot{Source: "meta.json", Hash: hash, CreatedAt: createdAt}
	for _, id := range ids {
		snap.Records = append(snap.Records, domain.BuildingRecord{
			ID:         id,
			Name:       id + " name",
			Era:        domain.EraIronAge,
			SquaresAvg: 4,
			Production: map[string]float64{domain.ColForgePoints: 2.5},
			Boosts:     map[string]float64{domain.ColGoodsBoost: 10},
		})
	}
	return snap
}

func (s *StoreSuite) TestLoadLatest_Empty() {
	snap, err := s.store.LoadLatest(s.ctx)
	s.NoError(err)
	s.Nil(snap)
}

func (s *StoreSuite) TestSaveAndLoadLatest() {
	now := time.Now().UTC()
	s.Require().NoError(s.store.Save(s.ctx, s.snapshot("old", now.Add(-time.Hour), "W_Old")))
	latest := s.snapshot("new", now, "W_A", "W_B")
	s.Require().NoError(s.store.Save(s.ctx, latest))

	got, err := s.store.LoadLatest(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(latest.ID, got.ID)
	s.Equal("new", got.Hash)
	s.Require().Len(got.Records, 2)
	s.Equal("W_A", got.Records[0].ID)
	s.Equal("W_B", got.Records[1].ID)
	s.Equal(2.5, got.Records[0].Metric(domain.ColForgePoints))
	s.Equal(10.0, got.Records[1].Metric(domain.ColGoodsBoost))
}

func (s *StoreSuite) TestPrune() {
	now := time.Now().UTC()
	for i, hash := range []string{"a", "b", "c"} {
		s.Require().NoError(s.store.Save(s.ctx, s.snapshot(hash, now.Add(time.Duration(i)*time.Minute), "W_X")))
	}

	removed, err := s.store.Prune(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(2), removed)

	got, err := s.store.LoadLatest(s.ctx)
	s.Require().NoError(err)
	s.Equal("c", got.Hash)
	s.Len(got.Records, 1)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
