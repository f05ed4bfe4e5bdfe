package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/filter"
	apperrors "github.com/building-analyzer/internal/pkg/errors"
	"github.com/building-analyzer/internal/scoring"
	"github.com/building-analyzer/internal/usecase/dto"
)

// DatasetProvider отдаёт текущий датасет
type DatasetProvider interface {
	Current() *domain.Dataset
}

// AnalysisUseCase выполняет конвейер анализа над текущим датасетом
type AnalysisUseCase struct {
	datasets DatasetProvider
	logger   *zap.Logger
}

// NewAnalysisUseCase создает новый экземпляр AnalysisUseCase
func NewAnalysisUseCase(datasets DatasetProvider, logger *zap.Logger) *AnalysisUseCase {
	return &AnalysisUseCase{
		datasets: datasets,
		logger:   logger,
	}
}

// Analyze фильтрует, оценивает и сортирует здания, добавляя сводку
func (uc *AnalysisUseCase) Analyze(ctx context.Context, req *dto.AnalysisRequest) (*dto.AnalysisResponse, error) {
	ds, err := uc.dataset()
	if err != nil {
		return nil, err
	}

	rows, mode, err := RunAnalysis(ds, req)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("Analysis completed",
		zap.String("mode", string(mode)),
		zap.String("era", req.Era),
		zap.Int("filters", len(req.Filters)),
		zap.Int("rows", rows.Len()))

	return &dto.AnalysisResponse{
		Mode:    mode,
		Rows:    rows,
		Summary: Summarize(rows),
	}, nil
}

// Buildings - выборка зданий по эпохе, событию и имени без оценки
func (uc *AnalysisUseCase) Buildings(ctx context.Context, q *dto.BuildingsQuery) (*domain.Table, error) {
	ds, err := uc.dataset()
	if err != nil {
		return nil, err
	}

	var events []string
	if q.Event != "" {
		events = []string{q.Event}
	}
	rows, _, err := selectRows(ds.Table, q.Era, events, q.Name)
	if err != nil {
		return nil, err
	}
	return rows.Head(q.Limit), nil
}

func (uc *AnalysisUseCase) dataset() (*domain.Dataset, error) {
	ds := uc.datasets.Current()
	if ds.Origin == domain.OriginEmpty {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	return ds, nil
}

// RunAnalysis - чистый конвейер: эпоха, события, имя, оценка, фильтры,
// площадь, сортировка и лимит. Датасет не изменяется.
func RunAnalysis(ds *domain.Dataset, req *dto.AnalysisRequest) (*domain.Table, domain.ScoringMode, error) {
	mode, err := scoring.ParseMode(req.Mode)
	if err != nil {
		return nil, "", apperrors.ErrInvalidScoringMode.WithDetails(map[string]interface{}{"mode": req.Mode})
	}
	if err := checkFilters(req.Filters); err != nil {
		return nil, "", err
	}

	// 1-3. Эпоха, события, имя
	t, era, err := selectRows(ds.Table, req.Era, req.Events, req.Name)
	if err != nil {
		return nil, "", err
	}

	// 4. Оценка
	strategy, err := scoring.NewStrategy(mode, ds.EraStats, string(era))
	if err != nil {
		return nil, "", apperrors.ErrInvalidScoringMode.WithDetails(map[string]interface{}{"mode": req.Mode})
	}
	t = strategy.Score(t, req.ScoringInput())

	// 5. Расширенные фильтры
	t = filter.Apply(t, req.Filters, domain.ParseFilterMode(req.FilterMode))

	// 6. Пересчёт на клетку
	if req.PerSquare {
		t = t.PerSquare()
	}

	// 7. Сортировка и лимит
	if req.SortBy != "" {
		t = t.SortBy(req.SortBy, !req.Ascending)
	}
	return t.Head(req.Limit), mode, nil
}

// selectRows применяет фильтры эпохи, событий и подстроки имени
func selectRows(t *domain.Table, eraName string, events []string, name string) (*domain.Table, domain.Era, error) {
	var (
		specs []domain.FilterSpec
		era   domain.Era
	)
	if eraName = strings.TrimSpace(eraName); eraName != "" {
		resolved, ok := domain.ResolveEra(eraName)
		if !ok {
			return nil, "", apperrors.ErrInvalidEra.WithDetails(map[string]interface{}{"era": eraName})
		}
		era = resolved
		specs = append(specs, domain.IsIn(domain.ColEra, string(era)))
	}
	if len(events) > 0 {
		specs = append(specs, domain.IsIn(domain.ColEvent, events...))
	}
	if name = strings.TrimSpace(name); name != "" {
		specs = append(specs, domain.Contains(domain.ColName, name))
	}
	return filter.Apply(t, specs, domain.FilterModeAnd), era, nil
}

func checkFilters(filters []domain.FilterSpec) error {
	for i, f := range filters {
		if strings.TrimSpace(f.Column) == "" {
			return apperrors.ErrInvalidFilter.WithDetails(map[string]interface{}{
				"index":  i,
				"reason": "column is required",
			})
		}
	}
	return nil
}

// Summarize считает сводку по результату анализа
func Summarize(t *domain.Table) dto.AnalysisSummary {
	summary := dto.AnalysisSummary{Rows: t.Len()}

	var (
		scoreSum   float64
		scoreCount int
		bestRow    = -1
		bestEff    float64
	)
	for i := 0; i < t.Len(); i++ {
		if eff, ok := t.Number(i, domain.ColEfficiency); ok && (bestRow < 0 || eff > bestEff) {
			bestRow, bestEff = i, eff
		}
		if score, ok := t.Number(i, domain.ColTotalScore); ok {
			scoreSum += score
			scoreCount++
		}
		summary.TotalSquares += t.NumberOr(i, domain.ColSquares, 0)
	}

	if scoreCount > 0 {
		summary.MeanTotalScore = domain.Round2(scoreSum / float64(scoreCount))
	}
	summary.TotalSquares = domain.Round2(summary.TotalSquares)
	if bestRow >= 0 {
		summary.Best = &dto.BestBuilding{
			ID:                 t.Text(bestRow, domain.ColID),
			Name:               t.Text(bestRow, domain.ColName),
			Era:                t.Text(bestRow, domain.ColEra),
			WeightedEfficiency: bestEff,
			TotalScore:         t.NumberOr(bestRow, domain.ColTotalScore, 0),
		}
	}
	return summary
}
