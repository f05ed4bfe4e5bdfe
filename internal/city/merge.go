package city

import (
	"github.com/building-analyzer/internal/domain"
)

// Validate делит позиции на найденные в таблице и ненайденные id
func Validate(entries []domain.ImportEntry, t *domain.Table) ([]domain.ImportEntry, []string) {
	known := rowsByID(t)
	matched := make([]domain.ImportEntry, 0, len(entries))
	var unmatched []string
	for _, e := range entries {
		if _, ok := known[e.BuildingID]; ok {
			matched = append(matched, e)
			continue
		}
		unmatched = append(unmatched, e.BuildingID)
	}
	return matched, unmatched
}

// Merge строит таблицу из строк зданий, добавляя колонки Quantity и Source.
// Позиция с уровнем эпохи берёт только строку этой эпохи, без уровня - все
// эпохи здания. Позиции без совпадений пропускаются.
func Merge(entries []domain.ImportEntry, t *domain.Table, kind domain.ImportKind) *domain.Table {
	byID := rowsByID(t)

	var (
		indices    []int
		quantities []domain.Cell
	)
	for _, e := range entries {
		rows := byID[e.BuildingID]
		if era, ok := e.Era(); ok {
			rows = filterEra(t, rows, era)
		}
		for _, row := range rows {
			indices = append(indices, row)
			quantities = append(quantities, domain.NumberCell(float64(e.Quantity)))
		}
	}

	out := t.Select(indices)
	sources := make([]domain.Cell, len(indices))
	for i := range sources {
		sources[i] = domain.TextCell(string(kind))
	}
	return out.
		WithColumn(domain.Column{Name: domain.ColQuantity, Kind: domain.KindNumber}, quantities).
		WithColumn(domain.Column{Name: domain.ColSource, Kind: domain.KindText}, sources)
}

// Totals суммирует аддитивные метрики и Total Score с учётом количества
func Totals(t *domain.Table) domain.CityTotals {
	totals := domain.CityTotals{
		Rows:    t.Len(),
		Metrics: make(map[string]float64),
	}
	for i := 0; i < t.Len(); i++ {
		qty := t.NumberOr(i, domain.ColQuantity, 1)
		totals.Buildings += int(qty)
		totals.TotalScore += t.NumberOr(i, domain.ColTotalScore, 0) * qty
		for _, m := range domain.AdditiveMetrics {
			if v, ok := t.Number(i, m); ok {
				totals.Metrics[m] += v * qty
			}
		}
	}

	totals.TotalScore = domain.Round2(totals.TotalScore)
	for m, v := range totals.Metrics {
		totals.Metrics[m] = domain.Round2(v)
	}
	return totals
}

func rowsByID(t *domain.Table) map[string][]int {
	out := make(map[string][]int)
	if !t.HasColumn(domain.ColID) {
		return out
	}
	for i := 0; i < t.Len(); i++ {
		id := t.Text(i, domain.ColID)
		out[id] = append(out[id], i)
	}
	return out
}

func filterEra(t *domain.Table, rows []int, era domain.Era) []int {
	out := make([]int, 0, 1)
	for _, row := range rows {
		if t.Text(row, domain.ColEra) == string(era) {
			out = append(out, row)
		}
	}
	return out
}
