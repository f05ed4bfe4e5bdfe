package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/domain/repository"
	"github.com/building-analyzer/internal/repository/postgres"
	"github.com/building-analyzer/internal/repository/postgres/testhelpers"
)

// SnapshotRepositorySuite tests the snapshot store against a real database
type SnapshotRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.SnapshotRepository
	ctx    context.Context
}

func (s *SnapshotRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	db := postgres.NewDBForTest(s.testDB.DB, s.testDB.Logger)
	s.Require().NoError(db.Migrate(context.Background()))
	s.repo = postgres.NewSnapshotRepository(db)
}

func (s *SnapshotRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *SnapshotRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *SnapshotRepositorySuite) TestLoadLatest_Empty() {
	snap, err := s.repo.LoadLatest(s.ctx)
	s.NoError(err)
	s.Nil(snap)
}

func (s *SnapshotRepositorySuite) TestSaveAndLoad() {
	older := &domain.Snapshot{
		Source:    "old.json",
		Hash:      "h1",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
		Records:   []domain.BuildingRecord{{ID: "W_Old", Era: domain.EraIronAge, Production: map[string]float64{}}},
	}
	s.Require().NoError(s.repo.Save(s.ctx, older))
	s.NotEqual(uuid.Nil, older.ID)

	latest := &domain.Snapshot{
		Source: "https://example.com/meta.json",
		Hash:   "h2",
		Records: []domain.BuildingRecord{
			{
				ID: "W_A", Name: "Alpha", EventTag: "WILD 2023", Era: domain.EraBronzeAge,
				Width: 2, Height: 3, SizeLabel: "3x2", SquaresAvg: 7, RequiresRoad: true,
				Production:       map[string]float64{domain.ColForgePoints: 5},
				Boosts:           map[string]float64{domain.ColFPBoost: 3},
				OtherProductions: []string{"blueprint (50%)"},
			},
			{ID: "W_A", Era: domain.EraIronAge, Production: map[string]float64{domain.ColForgePoints: 6}},
		},
	}
	s.Require().NoError(s.repo.Save(s.ctx, latest))

	got, err := s.repo.LoadLatest(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(latest.ID, got.ID)
	s.Equal("h2", got.Hash)
	s.Require().Len(got.Records, 2)
	s.Equal(latest.Records[0].Production, got.Records[0].Production)
	s.Equal([]string{"blueprint (50%)"}, got.Records[0].OtherProductions)
	s.Equal(domain.EraIronAge, got.Records[1].Era)
}

func (s *SnapshotRepositorySuite) TestPrune() {
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.repo.Save(s.ctx, &domain.Snapshot{
			Source:    "meta.json",
			Hash:      uuid.NewString(),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	pruner, ok := s.repo.(interface {
		Prune(ctx context.Context, keep int) (int64, error)
	})
	s.Require().True(ok)

	removed, err := pruner.Prune(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(2), removed)

	latest, err := s.repo.LoadLatest(s.ctx)
	s.Require().NoError(err)
	s.Equal(base.Add(2*time.Minute).Unix(), latest.CreatedAt.Unix())
}

func TestSnapshotRepositorySuite(t *testing.T) {
	suite.Run(t, new(SnapshotRepositorySuite))
}
