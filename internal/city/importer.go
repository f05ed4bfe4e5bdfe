// Package city разбирает вставленные из игры списки зданий (инвентарь и город)
// и сопоставляет их с таблицей зданий.
package city

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
)

// ErrEmptyImport - во входных данных нет ни одной корректной позиции
var ErrEmptyImport = errors.New("no valid building entries found")

const minIDLength = 3

// delimiters - порядок проверки разделителей в строке
var delimiters = []string{"\t", ";", " "}

// Importer разбирает TSV-подобные списки зданий
type Importer struct {
	logger *zap.Logger
}

// NewImporter создаёт импортёр
func NewImporter(logger *zap.Logger) *Importer {
	return &Importer{logger: logger}
}

// Parse разбирает данные указанного формата
func (im *Importer) Parse(kind domain.ImportKind, text string) ([]domain.ImportEntry, error) {
	switch kind {
	case domain.ImportInventory:
		return im.ParseInventory(text)
	case domain.ImportCity:
		return im.ParseCity(text)
	default:
		return nil, fmt.Errorf("unknown import kind %q", kind)
	}
}

// ParseInventory разбирает строки "id количество [уровень_эпохи]"
func (im *Importer) ParseInventory(text string) ([]domain.ImportEntry, error) {
	acc := newAccumulator(im.logger)

	for _, l := range im.lines(text) {
		lineNum, parts := l.num, l.parts
		if len(parts) < 2 {
			im.logger.Warn("Expected building id and quantity", zap.Int("line", lineNum))
			continue
		}
		id := parts[0]
		qty, ok := im.quantity(lineNum, id, parts[1])
		if !ok {
			continue
		}

		level := 0
		if len(parts) >= 3 {
			if lvl, err := strconv.Atoi(parts[2]); err == nil && validLevel(lvl) {
				level = lvl
			} else {
				im.logger.Warn("Invalid era level, ignoring era",
					zap.Int("line", lineNum),
					zap.String("building_id", id),
					zap.String("era_level", parts[2]))
			}
		}

		if len(id) < minIDLength {
			im.logger.Warn("Invalid building id", zap.Int("line", lineNum), zap.String("building_id", id))
			continue
		}
		acc.add(domain.ImportEntry{BuildingID: id, Quantity: qty, EraLevel: level})
	}

	return acc.result(domain.ImportInventory)
}

// ParseCity разбирает строки "id уровень_эпохи количество". Уровень обязателен.
func (im *Importer) ParseCity(text string) ([]domain.ImportEntry, error) {
	acc := newAccumulator(im.logger)

	for _, l := range im.lines(text) {
		lineNum, parts := l.num, l.parts
		if len(parts) != 3 {
			im.logger.Warn("City format requires 3 columns",
				zap.Int("line", lineNum),
				zap.Int("columns", len(parts)))
			continue
		}
		id := parts[0]

		level, err := strconv.Atoi(parts[1])
		if err != nil || !validLevel(level) {
			im.logger.Warn("Invalid era level, skipping line",
				zap.Int("line", lineNum),
				zap.String("building_id", id),
				zap.String("era_level", parts[1]))
			continue
		}

		qty, ok := im.quantity(lineNum, id, parts[2])
		if !ok {
			continue
		}

		if len(id) < minIDLength {
			im.logger.Warn("Invalid building id", zap.Int("line", lineNum), zap.String("building_id", id))
			continue
		}
		acc.add(domain.ImportEntry{BuildingID: id, Quantity: qty, EraLevel: level})
	}

	return acc.result(domain.ImportCity)
}

type line struct {
	num   int
	parts []string
}

// lines разбивает текст на непустые строки и поля. Нумерация строк с 1,
// строки без разделителя пропускаются.
func (im *Importer) lines(text string) []line {
	var out []line
	for i, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := splitLine(raw)
		if parts == nil {
			im.logger.Warn("No delimiter found, skipping", zap.Int("line", i+1), zap.String("text", raw))
			continue
		}
		out = append(out, line{num: i + 1, parts: parts})
	}
	return out
}

func splitLine(line string) []string {
	for _, d := range delimiters {
		if !strings.Contains(line, d) {
			continue
		}
		if d == " " {
			return strings.Fields(line)
		}
		parts := strings.Split(line, d)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return nil
}

// quantity разбирает количество. Дробное усекается, ноль пропускается.
func (im *Importer) quantity(lineNum int, id, raw string) (int, bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		im.logger.Warn("Invalid quantity",
			zap.Int("line", lineNum),
			zap.String("building_id", id),
			zap.String("quantity", raw))
		return 0, false
	}
	q := int(f)
	if float64(q) != f {
		im.logger.Warn("Decimal quantity truncated",
			zap.Int("line", lineNum),
			zap.String("building_id", id),
			zap.Float64("quantity", f),
			zap.Int("truncated", q))
	}
	return q, q != 0
}

func validLevel(level int) bool {
	_, ok := domain.EraByLevel(level)
	return ok
}

// accumulator суммирует дубликаты, сохраняя порядок первого появления
type accumulator struct {
	logger  *zap.Logger
	entries []domain.ImportEntry
	index   map[string]int
}

func newAccumulator(logger *zap.Logger) *accumulator {
	return &accumulator{logger: logger, index: make(map[string]int)}
}

func (a *accumulator) add(e domain.ImportEntry) {
	key := e.Key()
	if i, ok := a.index[key]; ok {
		a.entries[i].Quantity += e.Quantity
		a.logger.Warn("Duplicate building entry, summing quantities",
			zap.String("key", key),
			zap.Int("quantity", a.entries[i].Quantity))
		return
	}
	a.index[key] = len(a.entries)
	a.entries = append(a.entries, e)
}

func (a *accumulator) result(kind domain.ImportKind) ([]domain.ImportEntry, error) {
	if len(a.entries) == 0 {
		return nil, fmt.Errorf("%s: %w", kind, ErrEmptyImport)
	}
	total := 0
	for _, e := range a.entries {
		total += e.Quantity
	}
	a.logger.Info("Import parsed",
		zap.String("kind", string(kind)),
		zap.Int("unique_entries", len(a.entries)),
		zap.Int("total_buildings", total))
	return a.entries, nil
}
