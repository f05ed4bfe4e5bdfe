package parser

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/building-analyzer/internal/domain"
)

// rewardKind - вариант записи из lookup.rewards
type rewardKind int

const (
	rewardUnrecognized rewardKind = iota
	rewardConsumable
	rewardFragment
	rewardSet
	rewardGoods
	rewardUnit
	rewardChest
	rewardForgePointPackage
)

func (k rewardKind) String() string {
	switch k {
	case rewardConsumable:
		return "consumable"
	case rewardFragment:
		return "fragment"
	case rewardSet:
		return "set"
	case rewardGoods:
		return "goods"
	case rewardUnit:
		return "unit"
	case rewardChest:
		return "chest"
	case rewardForgePointPackage:
		return "forgepoint_package"
	default:
		return "unrecognized"
	}
}

// classifyReward определяет вариант по type/subType записи. Пакеты очков
// опознаются только по id и только когда type не распознан.
func classifyReward(id string, lookup gjson.Result) rewardKind {
	switch lookup.Get("type").String() {
	case "consumable":
		if lookup.Get("subType").String() == "fragment" {
			return rewardFragment
		}
		return rewardConsumable
	case "set":
		return rewardSet
	case "good", "special_goods", "guild_goods":
		return rewardGoods
	case "unit":
		return rewardUnit
	case "chest":
		return rewardChest
	}
	if strings.Contains(id, "forgepoint_package") {
		return rewardForgePointPackage
	}
	return rewardUnrecognized
}

// consumableColumns - id расходника -> колонка
var consumableColumns = map[string]string{
	"rush_event_buildings_instant": domain.ColFinishSpecialProduction,
	"rush_goods_buildings_instant": domain.ColFinishGoodsProduction,
	"store_building":               domain.ColStoreKit,
	"mass_self_aid_kit":            domain.ColMassSelfAidKit,
	"self_aid_kit":                 domain.ColSelfAidKit,
	"renovation_kit":               domain.ColRenovationKit,
	"one_up_kit":                   domain.ColOneUpKit,
	"rush_mass_supplies_24h":       domain.ColFinishAllSupplies,
}

// resourceColumns - ключ playerResources -> колонка
var resourceColumns = map[string]string{
	"money":                         domain.ColCoins,
	"supplies":                      domain.ColSupplies,
	"medals":                        domain.ColMedals,
	"strategy_points":               domain.ColForgePoints,
	"forgepoint_package":            domain.ColForgePointPackage,
	"all_goods_of_age":              domain.ColGoods,
	"random_good_of_age":            domain.ColGoods,
	"all_goods_of_previous_age":     domain.ColPrevAgeGoods,
	"random_good_of_previous_age":   domain.ColPrevAgeGoods,
	"all_goods_of_next_age":         domain.ColNextAgeGoods,
	"random_good_of_next_age":       domain.ColNextAgeGoods,
	"random_special_good_up_to_age": domain.ColSpecialGoods,
	"guild_goods":                   domain.ColGuildGoods,
}

// guildResourceColumns - ключ guildResources -> колонка
var guildResourceColumns = map[string]string{
	"all_goods_of_age": domain.ColGuildGoods,
}

// unitKind - тип отряда
type unitKind int

const (
	unitFast unitKind = iota
	unitHeavy
	unitLight
	unitRanged
	unitArtillery
	unitKindCount
)

var unitLabels = [unitKindCount]string{"Fast", "Heavy", "Light", "Ranged", "Artillery"}

var currentUnitColumns = [unitKindCount]string{
	domain.ColFastUnits, domain.ColHeavyUnits, domain.ColLightUnits, domain.ColRangedUnits, domain.ColArtilleryUnits,
}

var nextAgeUnitColumns = [unitKindCount]string{
	domain.ColNextAgeFastUnits, domain.ColNextAgeHeavyUnits, domain.ColNextAgeLightUnits,
	domain.ColNextAgeRangedUnits, domain.ColNextAgeArtilleryUnits,
}

// unitMatchOrder - порядок проверки подстрок в id наград
var unitMatchOrder = []struct {
	key  string
	kind unitKind
}{
	{"heavy_melee", unitHeavy},
	{"fast", unitFast},
	{"short_ranged", unitRanged},
	{"long_ranged", unitArtillery},
	{"light_melee", unitLight},
}

func unitByTypeID(id string) (unitKind, bool) {
	for _, u := range unitMatchOrder {
		if u.key == id {
			return u.kind, true
		}
	}
	return 0, false
}

// forgePointPackageValue - очков в пакете по размеру из id
func forgePointPackageValue(id string) float64 {
	switch {
	case strings.Contains(id, "large"):
		return 10
	case strings.Contains(id, "medium"):
		return 5
	case strings.Contains(id, "small"):
		return 2
	default:
		return 0
	}
}

// rewardAmount - totalAmount, затем amount, иначе 0
func rewardAmount(r gjson.Result) float64 {
	if v := r.Get("totalAmount"); v.Exists() {
		return v.Float()
	}
	return r.Get("amount").Float()
}
