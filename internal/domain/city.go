package domain

import "strconv"

// ImportKind - формат вставленных данных
type ImportKind string

const (
	// ImportInventory - id, количество, необязательный уровень эпохи
	ImportInventory ImportKind = "inventory"
	// ImportCity - id, уровень эпохи, количество
	ImportCity ImportKind = "city"
)

// Valid проверяет известный формат
func (k ImportKind) Valid() bool {
	return k == ImportInventory || k == ImportCity
}

// ImportEntry - одна позиция инвентаря или города
type ImportEntry struct {
	BuildingID string `json:"building_id"`
	Quantity   int    `json:"quantity"`
	// EraLevel - 0 если эпоха не указана
	EraLevel int `json:"era_level,omitempty"`
}

// Key - уникальный ключ позиции: id или id_уровень
func (e ImportEntry) Key() string {
	if e.EraLevel > 0 {
		return e.BuildingID + "_" + strconv.Itoa(e.EraLevel)
	}
	return e.BuildingID
}

// Era возвращает эпоху позиции, если уровень задан
func (e ImportEntry) Era() (Era, bool) {
	if e.EraLevel <= 0 {
		return "", false
	}
	return EraByLevel(e.EraLevel)
}

// CityTotals - суммарные показатели с учётом количества зданий
type CityTotals struct {
	Buildings  int                `json:"buildings"`
	Rows       int                `json:"rows"`
	TotalScore float64            `json:"total_score"`
	Metrics    map[string]float64 `json:"metrics"`
}
