// Package filter применяет наборы FilterSpec к таблице зданий.
package filter

import (
	"strings"

	"github.com/building-analyzer/internal/domain"
)

// Apply применяет фильтры в режиме AND или OR.
//
// AND сужает таблицу последовательно: каждый следующий фильтр видит только
// строки, пережившие предыдущие. OR считает маску каждого фильтра по исходной
// таблице и объединяет их. Фильтры по отсутствующим колонкам пропускаются;
// если не осталось ни одного, таблица возвращается без изменений.
func Apply(t *domain.Table, filters []domain.FilterSpec, mode domain.FilterMode) *domain.Table {
	active := make([]domain.FilterSpec, 0, len(filters))
	for _, f := range filters {
		if t.HasColumn(f.Column) {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return t
	}

	if mode == domain.FilterModeOr {
		combined := make([]bool, t.Len())
		for _, f := range active {
			for i, keep := range Mask(t, f) {
				combined[i] = combined[i] || keep
			}
		}
		return t.Where(combined)
	}

	out := t
	for _, f := range active {
		out = out.Where(Mask(out, f))
	}
	return out
}

// Mask считает маску одного фильтра с учётом Exclude
func Mask(t *domain.Table, f domain.FilterSpec) []bool {
	mask := make([]bool, t.Len())
	match := matcher(t, f)
	for i := range mask {
		mask[i] = match(i) != f.Exclude
	}
	return mask
}

func matchAll(int) bool { return true }

func matcher(t *domain.Table, f domain.FilterSpec) func(row int) bool {
	switch f.Kind() {
	case domain.FilterKindOperator:
		return operatorMatcher(t, f)
	case domain.FilterKindRange:
		return rangeMatcher(t, f)
	case domain.FilterKindMembership:
		return membershipMatcher(t, f)
	case domain.FilterKindValue:
		return valueMatcher(t, f)
	default:
		return matchAll
	}
}

var compareFuncs = map[domain.FilterOperator]func(v, operand float64) bool{
	domain.OpGreaterThan:  func(v, o float64) bool { return v > o },
	domain.OpGreaterEqual: func(v, o float64) bool { return v >= o },
	domain.OpLessThan:     func(v, o float64) bool { return v < o },
	domain.OpLessEqual:    func(v, o float64) bool { return v <= o },
	domain.OpEqual:        func(v, o float64) bool { return v == o },
	domain.OpNotEqual:     func(v, o float64) bool { return v != o },
}

// operatorMatcher - числовое сравнение. Пропуск не проходит ни одно
// сравнение, кроме "не равно". Неизвестный оператор пропускает всё.
func operatorMatcher(t *domain.Table, f domain.FilterSpec) func(int) bool {
	op := domain.NormalizeOperator(f.Operator)
	if f.Value1 == nil {
		return matchAll
	}
	v1 := *f.Value1

	if op == domain.OpBetween {
		if f.Value2 == nil {
			return matchAll
		}
		lo, hi := v1, *f.Value2
		if lo > hi {
			lo, hi = hi, lo
		}
		return func(row int) bool {
			v, ok := t.Number(row, f.Column)
			return ok && v >= lo && v <= hi
		}
	}

	cmp, ok := compareFuncs[op]
	if !ok {
		return matchAll
	}
	return func(row int) bool {
		v, ok := t.Number(row, f.Column)
		if !ok {
			return op == domain.OpNotEqual
		}
		return cmp(v, v1)
	}
}

// rangeMatcher - старая форма min/max, обе границы включительно
func rangeMatcher(t *domain.Table, f domain.FilterSpec) func(int) bool {
	return func(row int) bool {
		v, ok := t.Number(row, f.Column)
		if !ok {
			return false
		}
		if f.Min != nil && v < *f.Min {
			return false
		}
		if f.Max != nil && v > *f.Max {
			return false
		}
		return true
	}
}

func membershipMatcher(t *domain.Table, f domain.FilterSpec) func(int) bool {
	allowed := make(map[string]struct{}, len(f.Values))
	for _, v := range f.Values {
		allowed[v] = struct{}{}
	}
	return func(row int) bool {
		if isMissing(t, row, f.Column) {
			return false
		}
		_, ok := allowed[t.Text(row, f.Column)]
		return ok
	}
}

// valueMatcher - contains (без учёта регистра) или равенство текстового вида
func valueMatcher(t *domain.Table, f domain.FilterSpec) func(int) bool {
	needle := *f.Value
	if strings.EqualFold(f.Operation, domain.OperationContains) {
		needle = strings.ToLower(needle)
		return func(row int) bool {
			if isMissing(t, row, f.Column) {
				return false
			}
			return strings.Contains(strings.ToLower(t.Text(row, f.Column)), needle)
		}
	}
	return func(row int) bool {
		return !isMissing(t, row, f.Column) && t.Text(row, f.Column) == needle
	}
}

func isMissing(t *domain.Table, row int, column string) bool {
	c, ok := t.Cell(row, column)
	return !ok || c.Missing
}
