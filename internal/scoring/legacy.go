package scoring

import (
	"github.com/building-analyzer/internal/domain"
)

const (
	// legacyScale - верхняя граница перенормированного Total Score
	legacyScale = 1000
	// UnresolvedEraEfficiency - эффективность, когда эпоху не удалось определить
	UnresolvedEraEfficiency = -1
)

// Legacy - min-max нормализация внутри выбранной эпохи. Контекст и бусты
// не учитываются.
type Legacy struct {
	Stats domain.EraStats
	// Era - ключ или отображаемое имя эпохи
	Era string
}

// Mode реализует Strategy
func (Legacy) Mode() domain.ScoringMode { return domain.ScoringModeLegacy }

// Score добавляет колонки Total Score и Weighted Efficiency
func (l Legacy) Score(t *domain.Table, in domain.ScoringInput) *domain.Table {
	n := t.Len()
	totals := make([]float64, n)
	effs := make([]float64, n)

	if !in.HasWeights() || n == 0 {
		return withScores(t, totals, effs)
	}

	era, ok := domain.ResolveEra(l.Era)
	if !ok {
		for i := range effs {
			effs[i] = UnresolvedEraEfficiency
		}
		return withScores(t, totals, effs)
	}

	raw := make([]float64, n)
	for _, metric := range domain.WeightableColumns {
		w := in.Weights[metric]
		if w == 0 || !t.HasColumn(metric) {
			continue
		}
		mm, ok := l.Stats.Lookup(era, metric)
		if !ok {
			continue
		}
		for i := 0; i < n; i++ {
			v, ok := t.Number(i, metric)
			if !ok {
				continue
			}
			raw[i] += w * normalize(v, mm)
		}
	}

	lo, hi := raw[0], raw[0]
	for _, v := range raw[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return withScores(t, totals, effs)
	}

	for i, v := range raw {
		total := (v - lo) / (hi - lo) * legacyScale
		divisor := 1.0
		if sq, ok := t.Number(i, domain.ColSquares); ok && sq > 0 {
			divisor = sq
		}
		totals[i] = domain.Round1(total)
		effs[i] = domain.Round1(total / divisor)
	}
	return withScores(t, totals, effs)
}

// normalize приводит значение к [0, 1] по диапазону эпохи
func normalize(v float64, mm domain.MinMax) float64 {
	if mm.Max == mm.Min {
		if mm.Max > 0 && v > 0 {
			return 1
		}
		return 0
	}
	n := (v - mm.Min) / (mm.Max - mm.Min)
	return max(0, min(1, n))
}

func withScores(t *domain.Table, totals, effs []float64) *domain.Table {
	return t.WithNumbers(domain.ColTotalScore, totals).WithNumbers(domain.ColEfficiency, effs)
}
