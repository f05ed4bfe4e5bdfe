package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
)

// DefaultPrefixes - по умолчанию берём только здания мира (W_)
var DefaultPrefixes = []string{"W_"}

var (
	// ErrInvalidJSON - документ не является корректным JSON
	ErrInvalidJSON = errors.New("invalid buildings JSON")
	// ErrNotArray - корень документа не массив
	ErrNotArray = errors.New("buildings JSON must be an array")
)

// Parser разбирает выгрузку зданий в записи по эпохам
type Parser struct {
	prefixes []string
	tagger   *EventTagger
	logger   *zap.Logger
}

// New создаёт парсер. Пустой список префиксов означает DefaultPrefixes.
func New(prefixes []string, tagger *EventTagger, logger *zap.Logger) *Parser {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	return &Parser{prefixes: prefixes, tagger: tagger, logger: logger}
}

// Parse обходит массив зданий. Ошибка одного здания или эпохи логируется
// и пропускается; ошибкой всей операции являются только некорректный
// документ и отмена контекста.
func (p *Parser) Parse(ctx context.Context, raw []byte) ([]domain.BuildingRecord, domain.ParseReport, error) {
	start := time.Now()
	var report domain.ParseReport

	if !gjson.ValidBytes(raw) {
		return nil, report, ErrInvalidJSON
	}
	root := gjson.ParseBytes(raw)
	if !root.IsArray() {
		return nil, report, ErrNotArray
	}

	records := make([]domain.BuildingRecord, 0)
	var ctxErr error
	root.ForEach(func(_, entry gjson.Result) bool {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			return false
		}
		report.Buildings++
		records = p.parseBuilding(entry, records, &report)
		return true
	})

	report.Records = len(records)
	report.Duration = time.Since(start)
	if ctxErr != nil {
		return nil, report, fmt.Errorf("parse buildings: %w", ctxErr)
	}

	p.logger.Info("Buildings parsed",
		zap.Int("buildings", report.Buildings),
		zap.Int("records", report.Records),
		zap.Int("skipped_prefix", report.SkippedPrefix),
		zap.Int("skipped_no_components", report.SkippedNoComponents),
		zap.Int("errors", report.Errors),
		zap.Duration("duration", report.Duration))

	return records, report, nil
}

func (p *Parser) parseBuilding(entry gjson.Result, records []domain.BuildingRecord, report *domain.ParseReport) (out []domain.BuildingRecord) {
	out = records
	if !entry.IsObject() {
		p.logger.Warn("Building entry is not an object, skipping", zap.String("raw", truncate(entry.Raw, 80)))
		report.Errors++
		return out
	}

	id := entry.Get("id").String()
	if !p.matchesPrefix(id) {
		report.SkippedPrefix++
		return out
	}
	name := stringOr(entry.Get("name"), "Unknown")

	components := entry.Get("components")
	if !components.IsObject() || len(components.Map()) == 0 {
		p.logger.Warn("Building has no components, skipping",
			zap.String("building_id", id),
			zap.String("name", name))
		report.SkippedNoComponents++
		return out
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Failed to process building",
				zap.String("building_id", id),
				zap.Any("panic", r))
			report.Errors++
			out = records
		}
	}()

	allAge := components.Get(domain.AllAgeKey)
	common := readCommonFacts(allAge)
	eventTag := p.tagger.Tag(id)

	components.ForEach(func(key, eraComp gjson.Result) bool {
		eraKey := key.String()
		if eraKey == domain.AllAgeKey {
			return true
		}
		era, ok := domain.ParseEra(eraKey)
		if !ok {
			p.logger.Warn("Unknown era key, skipping",
				zap.String("building_id", id),
				zap.String("era", eraKey))
			return true
		}
		if !eraComp.IsObject() {
			p.logger.Warn("Era component is not an object, skipping",
				zap.String("building_id", id),
				zap.String("era", eraKey))
			report.Errors++
			return true
		}

		rec, err := p.parseEra(id, name, eventTag, era, common, eraComp, allAge)
		if err != nil {
			p.logger.Error("Failed to process era",
				zap.String("building_id", id),
				zap.String("era", eraKey),
				zap.Error(err))
			report.Errors++
			return true
		}
		out = append(out, rec)
		return true
	})

	return out
}

func (p *Parser) parseEra(id, name, eventTag string, era domain.Era, common commonFacts, eraComp, allAge gjson.Result) (rec domain.BuildingRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	pop, happiness := readPopHappiness(eraComp, allAge)
	prod := p.collectProduction(id, era, eraComp, allAge)

	return domain.BuildingRecord{
		ID:               id,
		Name:             name,
		EventTag:         eventTag,
		Era:              era,
		Width:            common.width,
		Height:           common.height,
		SizeLabel:        common.sizeLabel,
		SquaresAvg:       common.squares,
		RequiresRoad:     common.road,
		Limited:          common.limited,
		AllyRoom:         common.allyRoom,
		Population:       pop,
		Happiness:        happiness,
		Production:       prod.values,
		Boosts:           collectBoosts(eraComp, allAge),
		UnitsType:        prod.unitsLabel(),
		NextAgeUnitsType: prod.nextAgeUnitsLabel(),
		OtherProductions: prod.otherList(),
	}, nil
}

func (p *Parser) matchesPrefix(id string) bool {
	if id == "" {
		return false
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
