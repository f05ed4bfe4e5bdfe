package usecase

import (
	"github.com/building-analyzer/internal/domain"
	apperrors "github.com/building-analyzer/internal/pkg/errors"
	"github.com/building-analyzer/internal/scoring"
	"github.com/building-analyzer/internal/usecase/dto"
)

// CatalogUseCase отдаёт справочники: эпохи, колонки, статистику и пресеты
type CatalogUseCase struct {
	datasets DatasetProvider
}

// NewCatalogUseCase создает новый экземпляр CatalogUseCase
func NewCatalogUseCase(datasets DatasetProvider) *CatalogUseCase {
	return &CatalogUseCase{datasets: datasets}
}

// Eras - все эпохи в хронологическом порядке
func (uc *CatalogUseCase) Eras() []domain.EraInfo {
	return domain.EraInfos()
}

// Columns - словарь колонок текущего датасета и групп
func (uc *CatalogUseCase) Columns() *dto.ColumnsResponse {
	columns := uc.datasets.Current().Table.Columns()
	if len(columns) == 0 {
		names := domain.RecordColumns()
		columns = make([]domain.Column, len(names))
		for i, name := range names {
			columns[i] = domain.Column{Name: name, Kind: domain.KindOf(name)}
		}
	}
	return &dto.ColumnsResponse{
		Columns:     columns,
		Weightable:  domain.WeightableColumns,
		Additive:    domain.AdditiveMetrics,
		PerSquareEx: domain.PerSquareExcludedColumns,
		Percentage:  domain.PercentageColumns,
		Groups:      domain.ColumnGroups,
	}
}

// EraStats - min/max метрик по эпохе; пустая эпоха - все эпохи по порядку
func (uc *CatalogUseCase) EraStats(eraName string) ([]dto.EraStatsResponse, error) {
	ds := uc.datasets.Current()
	if ds.Origin == domain.OriginEmpty {
		return nil, apperrors.ErrDatasetNotLoaded
	}

	if eraName != "" {
		era, ok := domain.ResolveEra(eraName)
		if !ok {
			return nil, apperrors.ErrInvalidEra.WithDetails(map[string]interface{}{"era": eraName})
		}
		metrics := ds.EraStats[era]
		if metrics == nil {
			metrics = map[string]domain.MinMax{}
		}
		return []dto.EraStatsResponse{{Era: era, Metrics: metrics}}, nil
	}

	out := make([]dto.EraStatsResponse, 0, len(ds.EraStats))
	for _, era := range domain.Eras() {
		if metrics, ok := ds.EraStats[era]; ok {
			out = append(out, dto.EraStatsResponse{Era: era, Metrics: metrics})
		}
	}
	return out, nil
}

// RankingPointsPreset - веса, переводящие производство эпохи в очки рейтинга
func (uc *CatalogUseCase) RankingPointsPreset(eraName string) (*dto.WeightPresetResponse, error) {
	era, ok := domain.ResolveEra(eraName)
	if !ok {
		return nil, apperrors.ErrInvalidEra.WithDetails(map[string]interface{}{"era": eraName})
	}
	return &dto.WeightPresetResponse{
		Name:    "ranking-points",
		Era:     era,
		Weights: scoring.RankingPointsWeights(era),
	}, nil
}
