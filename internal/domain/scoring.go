package domain

// ScoringMode - стратегия расчёта эффективности
type ScoringMode string

const (
	// ScoringModeDirect - прямая взвешенная сумма с учётом бустов
	ScoringModeDirect ScoringMode = "direct"
	// ScoringModeLegacy - min-max нормализация внутри эпохи
	ScoringModeLegacy ScoringMode = "legacy"
)

// ProductionContext - текущее суточное производство города (уже с бустами)
type ProductionContext struct {
	FPDailyProduction       float64 `json:"fp_daily_production"`
	GoodsCurrentProduction  float64 `json:"goods_current_production"`
	GoodsPreviousProduction float64 `json:"goods_previous_production"`
	GoodsNextProduction     float64 `json:"goods_next_production"`
	GuildGoodsProduction    float64 `json:"guild_goods_production"`
	SpecialGoodsProduction  float64 `json:"special_goods_production"`
}

// CityBoosts - текущие процентные бусты города
type CityBoosts struct {
	FP           float64 `json:"current_fp_boost"`
	Goods        float64 `json:"current_goods_boost"`
	GuildGoods   float64 `json:"current_guild_goods_boost"`
	SpecialGoods float64 `json:"current_special_goods_boost"`
}

// ScoringInput - пользовательские веса, контекст и бусты. Принадлежит вызывающему.
type ScoringInput struct {
	Weights map[string]float64 `json:"weights"`
	Context ProductionContext  `json:"context"`
	Boosts  CityBoosts         `json:"boosts"`
}

// HasWeights - задан хотя бы один ненулевой вес
func (in ScoringInput) HasWeights() bool {
	for _, w := range in.Weights {
		if w != 0 {
			return true
		}
	}
	return false
}

// Score - результат оценки одной строки
type Score struct {
	TotalScore         float64 `json:"total_score"`
	WeightedEfficiency float64 `json:"weighted_efficiency"`
}
