package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
)

// production - накопитель производства одной эпохи
type production struct {
	values       map[string]float64
	units        [unitKindCount]float64
	nextAgeUnits [unitKindCount]float64
	rogues       float64
	// specialReward - специальные товары из lookup-наград
	specialReward float64
	other         map[string]struct{}
}

func newProduction() *production {
	values := make(map[string]float64, len(domain.ProductionColumns))
	for _, col := range domain.ProductionColumns {
		values[col] = 0
	}
	return &production{values: values, other: make(map[string]struct{})}
}

// productContext - всё, что нужно для разбора одного продукта
type productContext struct {
	buildingID string
	component  string
	lookup     map[string]gjson.Result
	chance     float64
	inRandom   bool
}

// collectProduction суммирует производство эпохи и общего компонента
func (p *Parser) collectProduction(buildingID string, era domain.Era, eraComp, allAge gjson.Result) *production {
	prod := newProduction()

	for _, c := range []struct {
		key  string
		data gjson.Result
	}{{string(era), eraComp}, {domain.AllAgeKey, allAge}} {
		prodComp := c.data.Get("production")
		if !prodComp.IsObject() {
			continue
		}
		lookup := indexRewards(c.data.Get("lookup.rewards"))

		prodComp.Get("options.0.products").ForEach(func(_, option gjson.Result) bool {
			if !option.IsObject() {
				return true
			}
			pc := productContext{buildingID: buildingID, component: c.key, lookup: lookup, chance: 1}
			if option.Get("type").String() == "random" {
				p.collectRandom(prod, option, pc)
				return true
			}
			p.collectProduct(prod, option, pc)
			return true
		})
	}

	prod.finish(era)
	return prod
}

func (p *Parser) collectRandom(prod *production, option gjson.Result, pc productContext) {
	pc.inRandom = true
	option.Get("products").ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}
		chance := entry.Get("dropChance").Float()
		if chance == 0 {
			p.logger.Warn("Zero drop chance in random product",
				zap.String("building_id", pc.buildingID),
				zap.String("component", pc.component))
			return true
		}
		next := pc
		next.chance = chance
		p.collectProduct(prod, entry.Get("product"), next)
		return true
	})
}

// collectProduct разбирает один продукт с учётом шанса выпадения
func (p *Parser) collectProduct(prod *production, product gjson.Result, pc productContext) {
	switch product.Get("type").String() {
	case "resources":
		product.Get("playerResources.resources").ForEach(func(key, amount gjson.Result) bool {
			if col, ok := resourceColumns[key.String()]; ok {
				prod.values[col] += amount.Float() * pc.chance
			}
			return true
		})

	case "guildResources":
		product.Get("guildResources.resources").ForEach(func(key, amount gjson.Result) bool {
			if col, ok := guildResourceColumns[key.String()]; ok {
				prod.values[col] += amount.Float() * pc.chance
			}
			return true
		})

	case "unit":
		prod.addUnitByTypeID(product.Get("unitTypeId").String(), product.Get("amount").Float()*pc.chance)

	case "genericReward":
		rewardID := product.Get("reward.id").String()
		lookup, ok := pc.lookup[rewardID]
		if !ok {
			prod.addOther(otherLabel(product.Get("name").String(), rewardID, pc.chance))
			return
		}
		p.collectReward(prod, rewardID, lookup, product, pc)
	}
}

func (p *Parser) collectReward(prod *production, rewardID string, lookup, product gjson.Result, pc productContext) {
	amount := rewardAmount(lookup) * pc.chance
	name := lookup.Get("name").String()
	if name == "" {
		name = product.Get("name").String()
	}

	switch kind := classifyReward(rewardID, lookup); kind {
	case rewardFragment:
		assembled := lookup.Get("assembledReward.id").String()
		col, ok := consumableColumns[assembled]
		if !ok {
			prod.addOther(otherLabel(name, rewardID, pc.chance))
			return
		}
		required := 1.0
		if r := lookup.Get("requiredAmount"); r.Exists() && r.Float() != 0 {
			required = r.Float()
		}
		prod.values[col] += amount / required

	case rewardConsumable:
		if col, ok := consumableColumns[rewardID]; ok {
			prod.values[col] += amount
			return
		}
		prod.addOther(otherLabel(name, rewardID, pc.chance))

	case rewardSet:
		if col, ok := consumableColumns[lookup.Get("rewards.0.id").String()]; ok {
			prod.values[col] += amount
			return
		}
		prod.addOther(otherLabel(name, rewardID, pc.chance))

	case rewardGoods:
		switch {
		case strings.Contains(rewardID, "Current"):
			prod.values[domain.ColGoods] += amount
		case strings.Contains(rewardID, "special"):
			prod.specialReward += amount
		case strings.Contains(rewardID, "Next"):
			prod.values[domain.ColNextAgeGoods] += amount
		case strings.Contains(rewardID, "Previous"):
			prod.values[domain.ColPrevAgeGoods] += amount
		case strings.Contains(rewardID, "guild_goods"):
			prod.values[domain.ColGuildGoods] += amount
		default:
			prod.addOther(otherLabel(name, rewardID, pc.chance))
		}

	case rewardUnit:
		if pc.inRandom && pc.component == domain.AllAgeKey {
			return
		}
		if !prod.addUnitReward(rewardID, amount) {
			prod.addOther(otherLabel(name, rewardID, pc.chance))
		}

	case rewardChest:
		if !prod.addChest(rewardID, lookup, pc.chance) {
			prod.addOther(otherLabel(name, rewardID, pc.chance))
		}

	case rewardForgePointPackage:
		prod.values[domain.ColForgePointPackage] += forgePointPackageValue(rewardID) * amount

	case rewardUnrecognized:
		p.logger.Debug("Unrecognized reward",
			zap.String("building_id", pc.buildingID),
			zap.String("reward_id", rewardID),
			zap.Stringer("kind", kind))
		prod.addOther(otherLabel(name, rewardID, pc.chance))
	}
}

func (prod *production) addUnitByTypeID(unitID string, amount float64) {
	if unitID == "rogue" {
		prod.rogues += amount
		return
	}
	if kind, ok := unitByTypeID(unitID); ok {
		prod.units[kind] += amount
		return
	}
	if strings.Contains(unitID, "NextEra") {
		if kind, ok := unitByTypeID(strings.ReplaceAll(unitID, "NextEra", "")); ok {
			prod.nextAgeUnits[kind] += amount
		}
	}
}

// addUnitReward - отряд из lookup-награды. false если тип не опознан.
func (prod *production) addUnitReward(rewardID string, amount float64) bool {
	if strings.Contains(rewardID, "rogue") {
		prod.rogues += amount
		return true
	}
	for _, u := range unitMatchOrder {
		if !strings.Contains(rewardID, u.key) {
			continue
		}
		if strings.Contains(rewardID, "Current") {
			prod.units[u.kind] += amount
			return true
		}
		if strings.Contains(rewardID, "NextEra") {
			prod.nextAgeUnits[u.kind] += amount
			return true
		}
	}
	return false
}

// addChest оценивает сундук по первой возможной награде. Остальные ветки
// сундука не учитываются, так что это приближение, а не матожидание.
func (prod *production) addChest(rewardID string, lookup gjson.Result, chance float64) bool {
	possible := lookup.Get("possible_rewards.0")
	first := possible.Get("reward")
	amount := first.Get("amount").Float()
	if !first.Get("amount").Exists() {
		amount = first.Get("totalAmount").Float()
	}
	inner := 1.0
	if dc := possible.Get("drop_chance"); dc.Exists() {
		inner = dc.Float() / 100
	}
	value := amount * inner * chance
	firstID := first.Get("id").String()

	switch {
	case (strings.Contains(rewardID, "NextEra") || strings.Contains(rewardID, "next_age")) && first.Get("type").String() == "good":
		prod.values[domain.ColNextAgeGoods] += value
		return true
	case strings.Contains(rewardID, "next_age_unit"):
		if kind, ok := matchUnit(rewardID, firstID); ok {
			prod.nextAgeUnits[kind] += value
			return true
		}
	case strings.Contains(rewardID, "random_unit"):
		if kind, ok := matchUnit(rewardID, firstID); ok {
			prod.units[kind] += value
			return true
		}
	}
	return false
}

func matchUnit(ids ...string) (unitKind, bool) {
	for _, u := range unitMatchOrder {
		for _, id := range ids {
			if strings.Contains(id, u.key) {
				return u.kind, true
			}
		}
	}
	return 0, false
}

func (prod *production) addOther(label string) {
	if label != "" {
		prod.other[label] = struct{}{}
	}
}

// finish переносит накопители в колонки, применяет правило прошлых эпох
// и округляет значения
func (prod *production) finish(era domain.Era) {
	if era.IsPast() {
		prod.values[domain.ColNextAgeGoods] += prod.values[domain.ColSpecialGoods] + prod.specialReward
		prod.values[domain.ColSpecialGoods] = 0
	} else {
		prod.values[domain.ColSpecialGoods] += prod.specialReward
	}
	prod.specialReward = 0

	var unitsTotal, nextTotal float64
	for k := unitKind(0); k < unitKindCount; k++ {
		prod.values[currentUnitColumns[k]] = prod.units[k]
		prod.values[nextAgeUnitColumns[k]] = prod.nextAgeUnits[k]
		unitsTotal += prod.units[k]
		nextTotal += prod.nextAgeUnits[k]
	}
	prod.values[domain.ColRogues] = prod.rogues
	prod.values[domain.ColUnitsAmount] = unitsTotal + prod.rogues
	prod.values[domain.ColNextAgeUnitsAmount] = nextTotal

	for k, v := range prod.values {
		prod.values[k] = domain.Round2(v)
	}
}

// unitsLabel - "Fast: 1.00, Heavy: 2.00, Rogues: 0.50"
func (prod *production) unitsLabel() string {
	parts := unitParts(prod.units)
	if prod.rogues > 0 {
		parts = append(parts, fmt.Sprintf("Rogues: %.2f", prod.rogues))
	}
	return strings.Join(parts, ", ")
}

func (prod *production) nextAgeUnitsLabel() string {
	return strings.Join(unitParts(prod.nextAgeUnits), ", ")
}

func unitParts(units [unitKindCount]float64) []string {
	parts := make([]string, 0, unitKindCount)
	for k := unitKind(0); k < unitKindCount; k++ {
		if units[k] > 0 {
			parts = append(parts, fmt.Sprintf("%s: %.2f", unitLabels[k], units[k]))
		}
	}
	return parts
}

func (prod *production) otherList() []string {
	if len(prod.other) == 0 {
		return nil
	}
	out := make([]string, 0, len(prod.other))
	for label := range prod.other {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// otherLabel - имя награды и шанс, если он меньше 100%
func otherLabel(name, id string, chance float64) string {
	label := name
	if label == "" {
		label = id
	}
	if label == "" {
		return ""
	}
	if chance < 1 {
		return fmt.Sprintf("%s (%d%%)", label, int(chance*100))
	}
	return label
}

// indexRewards строит индекс lookup.rewards. Id наград могут содержать
// символы синтаксиса путей gjson, поэтому обходим объект целиком.
func indexRewards(rewards gjson.Result) map[string]gjson.Result {
	index := make(map[string]gjson.Result)
	rewards.ForEach(func(key, value gjson.Result) bool {
		index[key.String()] = value
		return true
	})
	return index
}
