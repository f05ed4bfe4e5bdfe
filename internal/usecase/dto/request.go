package dto

import "github.com/building-analyzer/internal/domain"

// AnalysisRequest - параметры конвейера анализа
type AnalysisRequest struct {
	// Era - ключ (IronAge) или отображаемое имя (Iron Age)
	Era    string   `json:"era" validate:"omitempty,era"`
	Events []string `json:"events,omitempty"`
	Name   string   `json:"name,omitempty"`

	Mode    string                   `json:"mode" validate:"omitempty,oneof=direct legacy"`
	Weights map[string]float64       `json:"weights"`
	Context domain.ProductionContext `json:"context"`
	Boosts  domain.CityBoosts        `json:"boosts"`

	Filters    []domain.FilterSpec `json:"filters,omitempty" validate:"omitempty,dive"`
	FilterMode string              `json:"filter_mode" validate:"omitempty,oneof=AND OR and or"`

	PerSquare bool   `json:"per_square"`
	SortBy    string `json:"sort_by,omitempty"`
	Ascending bool   `json:"ascending"`
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=20000"`
}

// ScoringInput собирает веса, контекст и бусты запроса
func (r *AnalysisRequest) ScoringInput() domain.ScoringInput {
	return domain.ScoringInput{Weights: r.Weights, Context: r.Context, Boosts: r.Boosts}
}

// BuildingsQuery - параметры GET /buildings
type BuildingsQuery struct {
	Era   string `query:"era" validate:"omitempty,era"`
	Event string `query:"event"`
	Name  string `query:"name"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=20000"`
}

// ReloadRequest - перезагрузка датасета; пустой source - источник из конфигурации
type ReloadRequest struct {
	Source string `json:"source,omitempty"`
}

// CityAnalyzeRequest - анализ вставленного инвентаря или города
type CityAnalyzeRequest struct {
	Kind    string                   `json:"kind" validate:"required,import_kind"`
	Data    string                   `json:"data" validate:"required"`
	Weights map[string]float64       `json:"weights"`
	Context domain.ProductionContext `json:"context"`
	Boosts  domain.CityBoosts        `json:"boosts"`
}

// ScoringInput собирает веса, контекст и бусты запроса
func (r *CityAnalyzeRequest) ScoringInput() domain.ScoringInput {
	return domain.ScoringInput{Weights: r.Weights, Context: r.Context, Boosts: r.Boosts}
}

// Export formats
const (
	ExportCSV  = "csv"
	ExportJSON = "json"
)
