package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	apperrors "github.com/building-analyzer/internal/pkg/errors"
	"github.com/building-analyzer/internal/usecase"
	"github.com/building-analyzer/internal/usecase/dto"
)

func TestCityUseCase_Analyze(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCityUseCase(staticDatasets{ds: buildingsDataset()}, zap.NewNop())

	t.Run("city layout", func(t *testing.T) {
		resp, err := uc.Analyze(ctx, &dto.CityAnalyzeRequest{
			Kind:    "city",
			Data:    "W_Tower\t2\t3\nW_Garden\t2\t1\nW_Ghost\t2\t1",
			Weights: fpAndGoods(),
		})
		require.NoError(t, err)

		assert.Equal(t, domain.ImportCity, resp.Kind)
		assert.Equal(t, 3, resp.Entries)
		assert.Equal(t, []string{"W_Ghost"}, resp.Unmatched)
		assert.Equal(t, []string{"W_Tower/IronAge", "W_Garden/IronAge"}, ids(resp.Rows))
		assert.Equal(t, 3.0, resp.Rows.NumberOr(0, domain.ColQuantity, 0))
		assert.Equal(t, "city", resp.Rows.Text(0, domain.ColSource))
		assert.Equal(t, 14.0, resp.Rows.NumberOr(0, domain.ColTotalScore, 0))

		assert.Equal(t, 4, resp.Totals.Buildings)
		assert.Equal(t, 2, resp.Totals.Rows)
		assert.Equal(t, 58.0, resp.Totals.TotalScore)
		assert.Equal(t, 36.0, resp.Totals.Metrics[domain.ColForgePoints])
		assert.Equal(t, 22.0, resp.Totals.Metrics[domain.ColGoods])
	})

	t.Run("inventory without era takes every era", func(t *testing.T) {
		resp, err := uc.Analyze(ctx, &dto.CityAnalyzeRequest{
			Kind:    "inventory",
			Data:    "W_Tower;1",
			Weights: fpAndGoods(),
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Unmatched)
		assert.Equal(t, []string{"W_Tower/IronAge", "W_Tower/BronzeAge"}, ids(resp.Rows))
		assert.Equal(t, 21.0, resp.Totals.TotalScore)
	})

	t.Run("nothing parseable", func(t *testing.T) {
		_, err := uc.Analyze(ctx, &dto.CityAnalyzeRequest{Kind: "inventory", Data: "garbage"})
		assert.ErrorIs(t, err, apperrors.ErrEmptyImport)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := uc.Analyze(ctx, &dto.CityAnalyzeRequest{Kind: "garden", Data: "W_Tower;1"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("dataset not loaded", func(t *testing.T) {
		empty := usecase.NewCityUseCase(staticDatasets{}, zap.NewNop())
		_, err := empty.Analyze(ctx, &dto.CityAnalyzeRequest{Kind: "city", Data: "W_Tower\t2\t1"})
		assert.ErrorIs(t, err, apperrors.ErrDatasetNotLoaded)
	})
}
