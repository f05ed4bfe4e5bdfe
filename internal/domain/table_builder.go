package domain

import (
	"math"
	"sort"

	"github.com/spf13/cast"
)

// BuildTable собирает записи в плоскую таблицу фиксированной схемы.
// Отсутствующие у записи метрики заполняются нулями.
func BuildTable(records []BuildingRecord) *Table {
	if len(records) == 0 {
		return EmptyTable()
	}

	names := RecordColumns()
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name, Kind: KindOf(name)}
	}

	rows := make([][]Cell, 0, len(records))
	for i := range records {
		rows = append(rows, recordRow(&records[i], names))
	}
	return NewTable(columns, rows)
}

func recordRow(r *BuildingRecord, names []string) []Cell {
	row := make([]Cell, len(names))
	for i, name := range names {
		switch name {
		case ColID:
			row[i] = TextCell(r.ID)
		case ColName:
			row[i] = TextCell(r.Name)
		case ColEvent:
			row[i] = TextCell(r.EventTag)
		case ColEra:
			row[i] = TextCell(string(r.Era))
		case ColTranslatedEra:
			row[i] = TextCell(r.Era.DisplayName())
		case ColWidth:
			row[i] = NumberCell(float64(r.Width))
		case ColHeight:
			row[i] = NumberCell(float64(r.Height))
		case ColSize:
			row[i] = TextCell(r.SizeLabel)
		case ColSquares:
			row[i] = NumberCell(r.SquaresAvg)
		case ColRoad:
			row[i] = BoolCell(r.RequiresRoad)
		case ColLimited:
			row[i] = TextCell(orDefault(r.Limited, LimitedNo))
		case ColAllyRoom:
			row[i] = TextCell(orDefault(r.AllyRoom, AllyRoomNo))
		case ColPopulation:
			row[i] = NumberCell(float64(r.Population))
		case ColHappiness:
			row[i] = NumberCell(float64(r.Happiness))
		case ColUnitsType:
			row[i] = TextCell(r.UnitsType)
		case ColNextAgeUnitsType:
			row[i] = TextCell(r.NextAgeUnitsType)
		case ColOther:
			row[i] = TextCell(r.OtherProductionsLabel())
		default:
			row[i] = NumberCell(r.Metric(name))
		}
	}
	return row
}

// BuildTableFromMaps строит таблицу из слабо типизированных записей
// (JSON из кеша, выгрузки). Значения приводятся к типу колонки; то, что
// не удалось привести, становится пропуском. Отсутствующий ключ даёт 0 / "".
func BuildTableFromMaps(rows []map[string]any) *Table {
	if len(rows) == 0 {
		return EmptyTable()
	}

	present := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			present[k] = true
		}
	}

	names := make([]string, 0, len(present))
	for _, name := range RecordColumns() {
		if present[name] {
			names = append(names, name)
			delete(present, name)
		}
	}
	extra := make([]string, 0, len(present))
	for name := range present {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	names = append(names, extra...)

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name, Kind: KindOf(name)}
	}

	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		out := make([]Cell, len(columns))
		for j, col := range columns {
			v, ok := row[col.Name]
			if !ok {
				out[j] = zeroCell(col.Kind)
				continue
			}
			out[j] = coerceCell(col.Kind, v)
		}
		cells[i] = out
	}
	return NewTable(columns, cells)
}

func zeroCell(kind ColumnKind) Cell {
	switch kind {
	case KindNumber:
		return NumberCell(0)
	case KindBool:
		return BoolCell(false)
	default:
		return TextCell("")
	}
}

func coerceCell(kind ColumnKind, v any) Cell {
	if v == nil {
		return MissingCell()
	}
	switch kind {
	case KindNumber:
		f, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return MissingCell()
		}
		return NumberCell(f)
	case KindBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return MissingCell()
		}
		return BoolCell(b)
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return MissingCell()
		}
		return TextCell(s)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
