package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/building-analyzer/internal/city"
	"github.com/building-analyzer/internal/domain"
	apperrors "github.com/building-analyzer/internal/pkg/errors"
	"github.com/building-analyzer/internal/scoring"
	"github.com/building-analyzer/internal/usecase/dto"
)

// CityUseCase анализирует вставленный инвентарь или город игрока
type CityUseCase struct {
	datasets DatasetProvider
	importer *city.Importer
	logger   *zap.Logger
}

// NewCityUseCase создает новый экземпляр CityUseCase
func NewCityUseCase(datasets DatasetProvider, logger *zap.Logger) *CityUseCase {
	return &CityUseCase{
		datasets: datasets,
		importer: city.NewImporter(logger),
		logger:   logger,
	}
}

// Analyze разбирает список, сопоставляет его с таблицей, оценивает строки
// в режиме direct и считает итоги с учётом количества
func (uc *CityUseCase) Analyze(ctx context.Context, req *dto.CityAnalyzeRequest) (*dto.CityAnalyzeResponse, error) {
	ds := uc.datasets.Current()
	if ds.Origin == domain.OriginEmpty {
		return nil, apperrors.ErrDatasetNotLoaded
	}

	kind := domain.ImportKind(req.Kind)
	entries, err := uc.importer.Parse(kind, req.Data)
	if err != nil {
		if errors.Is(err, city.ErrEmptyImport) {
			return nil, apperrors.ErrEmptyImport.WithDetails(map[string]interface{}{"kind": req.Kind})
		}
		return nil, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": err.Error()})
	}

	matched, unmatched := city.Validate(entries, ds.Table)
	if len(unmatched) > 0 {
		uc.logger.Warn("Unknown building ids in import",
			zap.String("kind", req.Kind),
			zap.Strings("ids", unmatched))
	}

	merged := city.Merge(matched, ds.Table, kind)
	scored := scoring.Direct{}.Score(merged, req.ScoringInput())

	if unmatched == nil {
		unmatched = []string{}
	}
	return &dto.CityAnalyzeResponse{
		Kind:      kind,
		Entries:   len(entries),
		Unmatched: unmatched,
		Rows:      scored,
		Totals:    city.Totals(scored),
	}, nil
}
