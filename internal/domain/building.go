package domain

import (
	"math"
	"strings"
)

// Значения колонок Limited / Ally room
const (
	LimitedNo      = "No"
	LimitedOther   = "Yes - Other"
	AllyRoomNo     = "No"
	AllyAnyRarity  = "Any rarity"
	RoadSurcharge  = 0.5
	SecondsPerDay  = 86400
	roundPrecision = 100
)

// BuildingRecord - одна строка итоговой таблицы: пара (здание, эпоха)
type BuildingRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	EventTag string `json:"event_tag"`
	Era      Era    `json:"era"`

	Width        int     `json:"width"`
	Height       int     `json:"height"`
	SizeLabel    string  `json:"size_label"`
	SquaresAvg   float64 `json:"squares_avg"`
	RequiresRoad bool    `json:"requires_road"`

	Limited  string `json:"limited"`
	AllyRoom string `json:"ally_room"`

	Population int `json:"population"`
	Happiness  int `json:"happiness"`

	// Production и Boosts ключуются именами колонок (ProductionColumns, BoostColumns)
	Production       map[string]float64 `json:"production"`
	Boosts           map[string]float64 `json:"boosts"`
	UnitsType        string             `json:"units_type,omitempty"`
	NextAgeUnitsType string             `json:"next_age_units_type,omitempty"`
	OtherProductions []string           `json:"other_productions,omitempty"`
}

// Footprint считает площадь здания с надбавкой за дорогу
func Footprint(width, height int, road bool) float64 {
	squares := float64(width * height)
	if road {
		squares += float64(min(width, height)) * RoadSurcharge
	}
	return squares
}

// Metric возвращает значение метрики производства или буста
func (r *BuildingRecord) Metric(name string) float64 {
	if v, ok := r.Production[name]; ok {
		return v
	}
	return r.Boosts[name]
}

// OtherProductionsLabel - текст для колонки Other productions
func (r *BuildingRecord) OtherProductionsLabel() string {
	return strings.Join(r.OtherProductions, ", ")
}

// Round2 округляет до двух знаков
func Round2(v float64) float64 {
	return math.Round(v*roundPrecision) / roundPrecision
}

// Round1 округляет до одного знака
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
