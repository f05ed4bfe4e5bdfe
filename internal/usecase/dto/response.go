package dto

import (
	"time"

	"github.com/building-analyzer/internal/domain"
)

// DatasetInfo - описание текущего датасета
type DatasetInfo struct {
	Hash     string             `json:"hash"`
	Source   string             `json:"source"`
	Origin   string             `json:"origin"`
	LoadedAt *time.Time         `json:"loaded_at,omitempty"`
	Rows     int                `json:"rows"`
	Report   domain.ParseReport `json:"report"`
}

// NewDatasetInfo строит описание датасета
func NewDatasetInfo(ds *domain.Dataset) DatasetInfo {
	info := DatasetInfo{
		Hash:   ds.Hash,
		Source: ds.Source,
		Origin: ds.Origin,
		Rows:   ds.Table.Len(),
		Report: ds.Report,
	}
	if !ds.LoadedAt.IsZero() {
		loaded := ds.LoadedAt
		info.LoadedAt = &loaded
	}
	return info
}

// BestBuilding - строка с лучшей Weighted Efficiency
type BestBuilding struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Era                string  `json:"era"`
	WeightedEfficiency float64 `json:"weighted_efficiency"`
	TotalScore         float64 `json:"total_score"`
}

// AnalysisSummary - сводка по результату анализа
type AnalysisSummary struct {
	Rows           int           `json:"rows"`
	Best           *BestBuilding `json:"best,omitempty"`
	MeanTotalScore float64       `json:"mean_total_score"`
	TotalSquares   float64       `json:"total_squares"`
}

// AnalysisResponse - результат POST /analysis
type AnalysisResponse struct {
	Mode    domain.ScoringMode `json:"mode"`
	Rows    *domain.Table      `json:"rows"`
	Summary AnalysisSummary    `json:"summary"`
}

// EraStatsResponse - min/max метрик одной эпохи
type EraStatsResponse struct {
	Era     domain.Era               `json:"era"`
	Metrics map[string]domain.MinMax `json:"metrics"`
}

// ColumnsResponse - словарь колонок
type ColumnsResponse struct {
	Columns     []domain.Column      `json:"columns"`
	Weightable  []string             `json:"weightable"`
	Additive    []string             `json:"additive"`
	PerSquareEx []string             `json:"per_square_excluded"`
	Percentage  []string             `json:"percentage"`
	Groups      []domain.ColumnGroup `json:"groups"`
}

// WeightPresetResponse - набор весов
type WeightPresetResponse struct {
	Name    string             `json:"name"`
	Era     domain.Era         `json:"era"`
	Weights map[string]float64 `json:"weights"`
}

// CityAnalyzeResponse - результат анализа города
type CityAnalyzeResponse struct {
	Kind      domain.ImportKind `json:"kind"`
	Entries   int               `json:"entries"`
	Unmatched []string          `json:"unmatched"`
	Rows      *domain.Table     `json:"rows"`
	Totals    domain.CityTotals `json:"totals"`
}

// ExportResult - готовый файл выгрузки
type ExportResult struct {
	Body        []byte
	ContentType string
	Filename    string
}
