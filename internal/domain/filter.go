package domain

import "strings"

// FilterOperator - оператор числового сравнения
type FilterOperator string

const (
	OpBetween      FilterOperator = "between"
	OpGreaterThan  FilterOperator = "greater_than"
	OpGreaterEqual FilterOperator = "greater_equal"
	OpLessThan     FilterOperator = "less_than"
	OpLessEqual    FilterOperator = "less_equal"
	OpEqual        FilterOperator = "equal"
	OpNotEqual     FilterOperator = "not_equal"
)

var operatorAliases = map[string]FilterOperator{
	">":  OpGreaterThan,
	">=": OpGreaterEqual,
	"<":  OpLessThan,
	"<=": OpLessEqual,
	"==": OpEqual,
	"=":  OpEqual,
	"!=": OpNotEqual,
}

// NormalizeOperator приводит символьную форму (">=") к словесной.
// Неизвестные операторы возвращаются как есть.
func NormalizeOperator(op FilterOperator) FilterOperator {
	s := strings.ToLower(strings.TrimSpace(string(op)))
	if alias, ok := operatorAliases[s]; ok {
		return alias
	}
	return FilterOperator(s)
}

// Операции для фильтров по значению
const (
	OperationIsIn     = "isin"
	OperationContains = "contains"
	OperationEqual    = "equal"
)

// FilterMode - способ объединения фильтров
type FilterMode string

const (
	FilterModeAnd FilterMode = "AND"
	FilterModeOr  FilterMode = "OR"
)

// ParseFilterMode - пустое или неизвестное значение означает AND
func ParseFilterMode(s string) FilterMode {
	if strings.EqualFold(strings.TrimSpace(s), string(FilterModeOr)) {
		return FilterModeOr
	}
	return FilterModeAnd
}

// FilterSpec - предикат по одной колонке.
//
// Форма определяется заполненными полями (в порядке приоритета):
// Operator (+Value1/Value2), Min/Max, Values (принадлежность множеству),
// Value (+Operation contains / равенство).
type FilterSpec struct {
	Column    string         `json:"column" validate:"required"`
	Operator  FilterOperator `json:"operator,omitempty"`
	Value1    *float64       `json:"value1,omitempty"`
	Value2    *float64       `json:"value2,omitempty"`
	Min       *float64       `json:"min,omitempty"`
	Max       *float64       `json:"max,omitempty"`
	Values    []string       `json:"values,omitempty"`
	Value     *string        `json:"value,omitempty"`
	Operation string         `json:"operation,omitempty"`
	Exclude   bool           `json:"exclude"`
}

// FilterKind - вариант FilterSpec
type FilterKind int

const (
	FilterKindMatchAll FilterKind = iota
	FilterKindOperator
	FilterKindRange
	FilterKindMembership
	FilterKindValue
)

// Kind определяет вариант фильтра
func (f FilterSpec) Kind() FilterKind {
	switch {
	case f.Operator != "":
		return FilterKindOperator
	case f.Min != nil || f.Max != nil:
		return FilterKindRange
	case f.Values != nil:
		return FilterKindMembership
	case f.Value != nil:
		return FilterKindValue
	default:
		return FilterKindMatchAll
	}
}

// Between - конструктор фильтра диапазона
func Between(column string, lo, hi float64) FilterSpec {
	return FilterSpec{Column: column, Operator: OpBetween, Value1: &lo, Value2: &hi}
}

// Compare - конструктор фильтра сравнения с одним операндом
func Compare(column string, op FilterOperator, v float64) FilterSpec {
	return FilterSpec{Column: column, Operator: op, Value1: &v}
}

// IsIn - конструктор фильтра принадлежности
func IsIn(column string, values ...string) FilterSpec {
	if values == nil {
		values = []string{}
	}
	return FilterSpec{Column: column, Values: values, Operation: OperationIsIn}
}

// Contains - регистронезависимый поиск подстроки
func Contains(column, value string) FilterSpec {
	return FilterSpec{Column: column, Value: &value, Operation: OperationContains}
}

// Excluded возвращает копию фильтра с инвертированной маской
func (f FilterSpec) Excluded() FilterSpec {
	f.Exclude = true
	return f
}
