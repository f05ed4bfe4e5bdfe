package parser

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/building-analyzer/internal/domain"
)

// commonFacts - данные общего компонента, одинаковые для всех эпох
type commonFacts struct {
	width, height int
	sizeLabel     string
	squares       float64
	road          bool
	limited       string
	allyRoom      string
}

func readCommonFacts(allAge gjson.Result) commonFacts {
	width := int(allAge.Get("placement.size.x").Int())
	height := int(allAge.Get("placement.size.y").Int())
	road := allAge.Get("streetConnectionRequirement").Exists()
	return commonFacts{
		width:     width,
		height:    height,
		sizeLabel: fmt.Sprintf("%dx%d", height, width),
		squares:   domain.Footprint(width, height, road),
		road:      road,
		limited:   readLimited(allAge),
		allyRoom:  readAllyRoom(allAge),
	}
}

func readLimited(allAge gjson.Result) string {
	limited := allAge.Get("limited")
	if !isPresent(limited) {
		return domain.LimitedNo
	}
	cfg := limited.Get("config")
	if v := cfg.Get("expireTime"); v.Exists() {
		return fmt.Sprintf("Yes - %d days", int(v.Float()/domain.SecondsPerDay))
	}
	if v := cfg.Get("collectionAmount"); v.Exists() {
		return fmt.Sprintf("Yes - %d collections", v.Int())
	}
	return domain.LimitedOther
}

func readAllyRoom(allAge gjson.Result) string {
	ally := allAge.Get("ally")
	if !isPresent(ally) {
		return domain.AllyRoomNo
	}
	room := ally.Get("rooms.0")
	allyType := capitalize(stringOr(room.Get("allyType"), "Unknown"))
	if rarity := room.Get("rarity"); rarity.Exists() {
		return allyType + " - " + capitalize(stringOr(rarity.Get("value"), "Unknown"))
	}
	return allyType + " - " + domain.AllyAnyRarity
}

// readPopHappiness - значения эпохи важнее общих, если не нулевые
func readPopHappiness(eraComp, allAge gjson.Result) (int, int) {
	var pop, happiness int64
	for _, comp := range []gjson.Result{allAge, eraComp} {
		if v := comp.Get("staticResources.resources.resources.population").Int(); v != 0 {
			pop = v
		}
		if v := comp.Get("happiness.provided").Int(); v != 0 {
			happiness = v
		}
	}
	return int(pop), int(happiness)
}

// isPresent - ключ есть и значение не пустое
func isPresent(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch {
	case r.IsObject(), r.IsArray():
		return len(r.Map()) > 0 || len(r.Array()) > 0
	case r.Type == gjson.Null, r.Type == gjson.False:
		return false
	}
	return true
}

func stringOr(r gjson.Result, def string) string {
	if !r.Exists() {
		return def
	}
	return r.String()
}

// capitalize - первая буква заглавная, остальные строчные
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
