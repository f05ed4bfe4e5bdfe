package domain

// MinMax - диапазон значений метрики
type MinMax struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// EraStats - эпоха -> метрика -> {min, max}. Производный кеш, не изменяется.
type EraStats map[Era]map[string]MinMax

// ComputeEraStats группирует строки по эпохе и считает min/max каждой
// взвешиваемой метрики. Пропуски игнорируются. Пустая таблица или таблица
// без колонки эпохи дают пустой результат.
func ComputeEraStats(t *Table) EraStats {
	stats := make(EraStats)
	if t.IsEmpty() || !t.HasColumn(ColEra) {
		return stats
	}

	metrics := make([]string, 0, len(WeightableColumns))
	for _, name := range WeightableColumns {
		if col, ok := t.Column(name); ok && col.Kind == KindNumber {
			metrics = append(metrics, name)
		}
	}
	if len(metrics) == 0 {
		return stats
	}

	for i := 0; i < t.Len(); i++ {
		era := Era(t.Text(i, ColEra))
		if era == "" {
			continue
		}
		group, ok := stats[era]
		if !ok {
			group = make(map[string]MinMax, len(metrics))
			stats[era] = group
		}
		for _, m := range metrics {
			v, ok := t.Number(i, m)
			if !ok {
				continue
			}
			cur, seen := group[m]
			if !seen {
				group[m] = MinMax{Min: v, Max: v}
				continue
			}
			if v < cur.Min {
				cur.Min = v
			}
			if v > cur.Max {
				cur.Max = v
			}
			group[m] = cur
		}
	}
	return stats
}

// Lookup возвращает диапазон метрики для эпохи
func (s EraStats) Lookup(era Era, metric string) (MinMax, bool) {
	group, ok := s[era]
	if !ok {
		return MinMax{}, false
	}
	mm, ok := group[metric]
	return mm, ok
}
