package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParseReport - итог разбора исходного документа
type ParseReport struct {
	Buildings           int           `json:"buildings"`
	Records             int           `json:"records"`
	SkippedPrefix       int           `json:"skipped_prefix"`
	SkippedNoComponents int           `json:"skipped_no_components"`
	Errors              int           `json:"errors"`
	Duration            time.Duration `json:"duration_ns"`
}

// Dataset - результат загрузки: таблица и производная статистика.
// После создания не изменяется.
type Dataset struct {
	Hash     string      `json:"hash"`
	Source   string      `json:"source"`
	LoadedAt time.Time   `json:"loaded_at"`
	Table    *Table      `json:"-"`
	EraStats EraStats    `json:"-"`
	Report   ParseReport `json:"report"`
	// Origin - откуда получена таблица: parse, cache или snapshot
	Origin string `json:"origin"`
}

// Dataset origins
const (
	OriginParse    = "parse"
	OriginCache    = "cache"
	OriginSnapshot = "snapshot"
	OriginEmpty    = "empty"
)

// EmptyDataset - заглушка, когда данных ещё нет или загрузка не удалась
func EmptyDataset() *Dataset {
	return &Dataset{
		Table:    EmptyTable(),
		EraStats: EraStats{},
		Origin:   OriginEmpty,
	}
}

// NewDataset строит датасет из таблицы
func NewDataset(hash, source string, table *Table, report ParseReport, origin string) *Dataset {
	return &Dataset{
		Hash:     hash,
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Table:    table,
		EraStats: ComputeEraStats(table),
		Report:   report,
		Origin:   origin,
	}
}

// Snapshot - сохранённая копия распарсенных записей
type Snapshot struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	Source    string           `json:"source" db:"source"`
	Hash      string           `json:"hash" db:"hash"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	Records   []BuildingRecord `json:"records"`
}
