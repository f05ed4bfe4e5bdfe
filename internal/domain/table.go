package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Column - описание колонки таблицы
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Cell - значение ячейки. Интерпретация полей зависит от Kind колонки.
type Cell struct {
	Num     float64
	Str     string
	Bool    bool
	Missing bool
}

// NumberCell создаёт числовую ячейку
func NumberCell(v float64) Cell { return Cell{Num: v} }

// TextCell создаёт текстовую ячейку
func TextCell(s string) Cell { return Cell{Str: s} }

// BoolCell создаёт логическую ячейку
func BoolCell(b bool) Cell { return Cell{Bool: b} }

// MissingCell - отсутствующее значение (NaN в терминах таблиц)
func MissingCell() Cell { return Cell{Missing: true} }

// Table - неизменяемая плоская таблица. Все операции возвращают новую таблицу,
// исходные строки никогда не модифицируются.
type Table struct {
	columns []Column
	index   map[string]int
	rows    [][]Cell
	ids     []int
}

// NewTable создаёт таблицу. Короткие строки дополняются пропусками.
func NewTable(columns []Column, rows [][]Cell) *Table {
	ids := make([]int, len(rows))
	for i := range ids {
		ids[i] = i
	}
	return newTable(columns, rows, ids)
}

func newTable(columns []Column, rows [][]Cell, ids []int) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c.Name] = i
	}
	for i, row := range rows {
		if len(row) < len(columns) {
			padded := make([]Cell, len(columns))
			copy(padded, row)
			for j := len(row); j < len(columns); j++ {
				padded[j] = MissingCell()
			}
			rows[i] = padded
		}
	}
	return &Table{columns: columns, index: index, rows: rows, ids: ids}
}

// EmptyTable - таблица без колонок и строк
func EmptyTable() *Table {
	return NewTable(nil, nil)
}

// Len - количество строк
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// IsEmpty - нет строк
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// Columns возвращает копию схемы
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames возвращает имена колонок в порядке схемы
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// HasColumn проверяет наличие колонки
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// Column возвращает описание колонки
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Cell возвращает ячейку; false если колонки нет
func (t *Table) Cell(row int, name string) (Cell, bool) {
	i, ok := t.index[name]
	if !ok {
		return Cell{}, false
	}
	return t.rows[row][i], true
}

// Number возвращает числовое значение. false для отсутствующей колонки,
// пропуска или нечисловой колонки.
func (t *Table) Number(row int, name string) (float64, bool) {
	i, ok := t.index[name]
	if !ok || t.columns[i].Kind != KindNumber {
		return 0, false
	}
	c := t.rows[row][i]
	if c.Missing {
		return 0, false
	}
	return c.Num, true
}

// NumberOr возвращает число или значение по умолчанию
func (t *Table) NumberOr(row int, name string, def float64) float64 {
	if v, ok := t.Number(row, name); ok {
		return v
	}
	return def
}

// Text - текстовое представление ячейки ("" для пропуска)
func (t *Table) Text(row int, name string) string {
	i, ok := t.index[name]
	if !ok {
		return ""
	}
	return cellText(t.columns[i].Kind, t.rows[row][i])
}

// Value - значение ячейки как any (float64, string, bool или nil)
func (t *Table) Value(row int, name string) any {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return cellValue(t.columns[i].Kind, t.rows[row][i])
}

// RowID - стабильный идентификатор строки исходной таблицы
func (t *Table) RowID(row int) int {
	return t.ids[row]
}

// RowIDs - идентификаторы всех строк
func (t *Table) RowIDs() []int {
	out := make([]int, len(t.ids))
	copy(out, t.ids)
	return out
}

// Select возвращает таблицу из строк с указанными индексами
func (t *Table) Select(indices []int) *Table {
	rows := make([][]Cell, 0, len(indices))
	ids := make([]int, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, t.rows[i])
		ids = append(ids, t.ids[i])
	}
	return newTable(t.columns, rows, ids)
}

// Where оставляет строки, для которых mask[i] == true
func (t *Table) Where(mask []bool) *Table {
	indices := make([]int, 0, len(t.rows))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return t.Select(indices)
}

// WithColumn добавляет или заменяет колонку. Строки копируются.
func (t *Table) WithColumn(col Column, cells []Cell) *Table {
	if len(cells) != len(t.rows) {
		panic(fmt.Sprintf("table: column %q has %d cells, want %d", col.Name, len(cells), len(t.rows)))
	}

	columns := t.Columns()
	pos, exists := t.index[col.Name]
	if exists {
		columns[pos] = col
	} else {
		pos = len(columns)
		columns = append(columns, col)
	}

	rows := make([][]Cell, len(t.rows))
	for i, row := range t.rows {
		next := make([]Cell, len(columns))
		copy(next, row)
		next[pos] = cells[i]
		rows[i] = next
	}
	return newTable(columns, rows, t.RowIDs())
}

// WithNumbers добавляет или заменяет числовую колонку
func (t *Table) WithNumbers(name string, values []float64) *Table {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = NumberCell(v)
	}
	return t.WithColumn(Column{Name: name, Kind: KindNumber}, cells)
}

// SortBy сортирует по колонке (стабильно). Пропуски всегда в конце.
func (t *Table) SortBy(name string, desc bool) *Table {
	pos, ok := t.index[name]
	if !ok {
		return t
	}
	kind := t.columns[pos].Kind
	indices := make([]int, len(t.rows))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		ca, cb := t.rows[indices[a]][pos], t.rows[indices[b]][pos]
		if ca.Missing || cb.Missing {
			return !ca.Missing && cb.Missing
		}
		var less bool
		switch kind {
		case KindNumber:
			if ca.Num == cb.Num {
				return false
			}
			less = ca.Num < cb.Num
		case KindBool:
			if ca.Bool == cb.Bool {
				return false
			}
			less = !ca.Bool
		default:
			if ca.Str == cb.Str {
				return false
			}
			less = ca.Str < cb.Str
		}
		if desc {
			return !less
		}
		return less
	})
	return t.Select(indices)
}

// Head возвращает первые n строк (n <= 0 - без ограничения)
func (t *Table) Head(n int) *Table {
	if n <= 0 || n >= len(t.rows) {
		return t
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return t.Select(indices)
}

// PerSquare делит каждую числовую колонку (кроме исключённых) на площадь.
// Нулевая или отсутствующая площадь заменяется на 1.
func (t *Table) PerSquare() *Table {
	excluded := make(map[string]bool, len(PerSquareExcludedColumns))
	for _, c := range PerSquareExcludedColumns {
		excluded[c] = true
	}

	rows := make([][]Cell, len(t.rows))
	for i, row := range t.rows {
		divisor := 1.0
		if sq, ok := t.Number(i, ColSquares); ok && sq > 0 {
			divisor = sq
		}
		next := make([]Cell, len(row))
		copy(next, row)
		for j, col := range t.columns {
			if col.Kind != KindNumber || excluded[col.Name] || next[j].Missing {
				continue
			}
			next[j].Num /= divisor
		}
		rows[i] = next
	}
	return newTable(t.Columns(), rows, t.RowIDs())
}

// Record - строка как map колонка -> значение
func (t *Table) Record(row int) map[string]any {
	rec := make(map[string]any, len(t.columns))
	for j, col := range t.columns {
		rec[col.Name] = cellValue(col.Kind, t.rows[row][j])
	}
	return rec
}

// Records - все строки как map
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i := range t.rows {
		out[i] = t.Record(i)
	}
	return out
}

// MarshalJSON кодирует таблицу как массив записей с порядком ключей схемы
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range t.columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col.Name)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(cellValue(col.Kind, row[j]))
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col.Name, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// TableFromJSON восстанавливает таблицу из массива записей
func TableFromJSON(data []byte) (*Table, error) {
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode table records: %w", err)
	}
	return BuildTableFromMaps(rows), nil
}

func cellText(kind ColumnKind, c Cell) string {
	if c.Missing {
		return ""
	}
	switch kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return c.Str
	}
}

func cellValue(kind ColumnKind, c Cell) any {
	if c.Missing {
		return nil
	}
	switch kind {
	case KindNumber:
		return c.Num
	case KindBool:
		return c.Bool
	default:
		return c.Str
	}
}
