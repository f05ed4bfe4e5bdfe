package scoring

import (
	"github.com/building-analyzer/internal/domain"
)

// boostTarget - базовая метрика и соответствующее ей производство города
type boostTarget struct {
	metric  string
	context func(domain.ProductionContext) float64
}

// boostCategory - категория буста: колонка буста здания, буст города и цели
type boostCategory struct {
	buildingBoost string
	cityBoost     func(domain.CityBoosts) float64
	targets       []boostTarget
	// requirePositiveBase - вклад буста считается только при ненулевом производстве
	requirePositiveBase bool
}

var boostCategories = []boostCategory{
	{
		buildingBoost: domain.ColFPBoost,
		cityBoost:     func(b domain.CityBoosts) float64 { return b.FP },
		targets: []boostTarget{
			{domain.ColForgePoints, func(c domain.ProductionContext) float64 { return c.FPDailyProduction }},
		},
	},
	{
		buildingBoost: domain.ColGoodsBoost,
		cityBoost:     func(b domain.CityBoosts) float64 { return b.Goods },
		targets: []boostTarget{
			{domain.ColGoods, func(c domain.ProductionContext) float64 { return c.GoodsCurrentProduction }},
			{domain.ColPrevAgeGoods, func(c domain.ProductionContext) float64 { return c.GoodsPreviousProduction }},
			{domain.ColNextAgeGoods, func(c domain.ProductionContext) float64 { return c.GoodsNextProduction }},
		},
		requirePositiveBase: true,
	},
	{
		buildingBoost: domain.ColGuildGoodsBoost,
		cityBoost:     func(b domain.CityBoosts) float64 { return b.GuildGoods },
		targets: []boostTarget{
			{domain.ColGuildGoods, func(c domain.ProductionContext) float64 { return c.GuildGoodsProduction }},
		},
	},
	{
		buildingBoost: domain.ColSpecialGoodsBoost,
		cityBoost:     func(b domain.CityBoosts) float64 { return b.SpecialGoods },
		targets: []boostTarget{
			{domain.ColSpecialGoods, func(c domain.ProductionContext) float64 { return c.SpecialGoodsProduction }},
		},
	},
}

// Direct - основной режим: взвешенная сумма производства с учётом бустов
type Direct struct{}

// Mode реализует Strategy
func (Direct) Mode() domain.ScoringMode { return domain.ScoringModeDirect }

// Score добавляет колонки Total Score и Weighted Efficiency. Исходная таблица
// не изменяется. Без ненулевых весов все значения 0, строки не обходятся.
func (Direct) Score(t *domain.Table, in domain.ScoringInput) *domain.Table {
	n := t.Len()
	totals := make([]float64, n)
	effs := make([]float64, n)

	if in.HasWeights() {
		for i := 0; i < n; i++ {
			s := ScoreRow(t, i, in)
			totals[i] = s.TotalScore
			effs[i] = s.WeightedEfficiency
		}
	}

	return t.WithNumbers(domain.ColTotalScore, totals).WithNumbers(domain.ColEfficiency, effs)
}

// ScoreRow - чистая функция строки, весов, контекста и бустов
func ScoreRow(t *domain.Table, row int, in domain.ScoringInput) domain.Score {
	if !in.HasWeights() {
		return domain.Score{}
	}

	enhanced := Enhance(t, row, in)

	var total float64
	for _, metric := range domain.AdditiveMetrics {
		w := in.Weights[metric]
		if w == 0 {
			continue
		}
		v, ok := enhanced[metric]
		if !ok {
			v, ok = baseValue(t, row, metric)
		}
		if !ok {
			continue
		}
		total += w * v
	}

	score := domain.Score{TotalScore: domain.Round1(total)}
	if sq := squares(t, row); sq > 0 {
		score.WeightedEfficiency = domain.Round1(total / sq)
	}
	return score
}

// Enhance возвращает базовые метрики строки после бустов. Порядок важен:
// сначала суммарный буст города и здания умножает собственное производство,
// затем к нему добавляется вклад буста здания от очищенного от бустов
// производства города.
func Enhance(t *domain.Table, row int, in domain.ScoringInput) map[string]float64 {
	out := make(map[string]float64)

	for _, cat := range boostCategories {
		building := t.NumberOr(row, cat.buildingBoost, 0)
		city := cat.cityBoost(in.Boosts)

		combined := city + building
		for _, target := range cat.targets {
			base, ok := baseValue(t, row, target.metric)
			if !ok {
				continue
			}
			if combined > 0 {
				base *= 1 + combined/100
			}
			out[target.metric] = base
		}

		if building <= 0 {
			continue
		}
		for _, target := range cat.targets {
			current, ok := out[target.metric]
			if !ok {
				continue
			}
			trueBase := target.context(in.Context)
			if city > 0 {
				trueBase /= 1 + city/100
			}
			if cat.requirePositiveBase && trueBase <= 0 {
				continue
			}
			out[target.metric] = current + building*trueBase/100
		}
	}
	return out
}

// baseValue - значение метрики; отсутствующая колонка считается нулём,
// пропуск в существующей колонке - неопределённым значением
func baseValue(t *domain.Table, row int, metric string) (float64, bool) {
	if !t.HasColumn(metric) {
		return 0, true
	}
	return t.Number(row, metric)
}

// squares - делитель эффективности. Без колонки площади делим на 1.
func squares(t *domain.Table, row int) float64 {
	if !t.HasColumn(domain.ColSquares) {
		return 1
	}
	v, ok := t.Number(row, domain.ColSquares)
	if !ok {
		return 0
	}
	return v
}
