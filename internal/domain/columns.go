package domain

// Имена колонок таблицы. Это стабильные машинные ключи, их не локализуем.
const (
	ColID            = "id"
	ColName          = "name"
	ColEvent         = "Event"
	ColEra           = "Era"
	ColTranslatedEra = "Translated Era"
	ColWidth         = "x"
	ColHeight        = "y"
	ColSize          = "size"
	ColSquares       = "Nbr of squares (Avg)"
	ColRoad          = "Road"
	ColLimited       = "Limited"
	ColAllyRoom      = "Ally room"
	ColPopulation    = "Population"
	ColHappiness     = "Happiness"
	ColOther         = "Other productions"
	ColTotalScore    = "Total Score"
	ColEfficiency    = "Weighted Efficiency"
	ColQuantity      = "Quantity"
	ColSource        = "Source"

	ColUnitsType        = "units_type"
	ColNextAgeUnitsType = "next_age_units_type"
)

// Production columns
const (
	ColCoins             = "coins"
	ColSupplies          = "supplies"
	ColMedals            = "medals"
	ColForgePoints       = "forge_points"
	ColForgePointPackage = "forgepoint_package"
	ColGoods             = "goods"
	ColNextAgeGoods      = "next_age_goods"
	ColPrevAgeGoods      = "prev_age_goods"
	ColSpecialGoods      = "special_goods"
	ColGuildGoods        = "guild_goods"

	ColUnitsAmount    = "units_amount"
	ColFastUnits      = "fast_units"
	ColHeavyUnits     = "heavy_units"
	ColRangedUnits    = "ranged_units"
	ColArtilleryUnits = "artillery_units"
	ColLightUnits     = "light_units"
	ColRogues         = "rogues_units"

	ColNextAgeUnitsAmount    = "next_age_units_amount"
	ColNextAgeFastUnits      = "next_age_fast_units"
	ColNextAgeHeavyUnits     = "next_age_heavy_units"
	ColNextAgeRangedUnits    = "next_age_ranged_units"
	ColNextAgeArtilleryUnits = "next_age_artillery_units"
	ColNextAgeLightUnits     = "next_age_light_units"

	ColFinishSpecialProduction = "finish_special_production"
	ColFinishGoodsProduction   = "finish_goods_production"
	ColStoreKit                = "store_kit"
	ColMassSelfAidKit          = "mass_self_aid_kit"
	ColSelfAidKit              = "self_aid_kit"
	ColRenovationKit           = "renovation_kit"
	ColOneUpKit                = "one_up_kit"
	ColFinishAllSupplies       = "finish_all_supplies"
)

// Boost columns
const (
	ColRedAttack      = "Red Attack"
	ColRedDefense     = "Red Defense"
	ColBlueAttack     = "Blue Attack"
	ColBlueDefense    = "Blue Defense"
	ColRedGBGAttack   = "Red GBG Attack"
	ColRedGBGDefense  = "Red GBG Defense"
	ColBlueGBGAttack  = "Blue GBG Attack"
	ColBlueGBGDefense = "Blue GBG Defense"
	ColRedGEAttack    = "Red GE Attack"
	ColRedGEDefense   = "Red GE Defense"
	ColBlueGEAttack   = "Blue GE Attack"
	ColBlueGEDefense  = "Blue GE Defense"
	ColRedQIAttack    = "Red QI Attack"
	ColRedQIDefense   = "Red QI Defense"
	ColBlueQIAttack   = "Blue QI Attack"
	ColBlueQIDefense  = "Blue QI Defense"

	ColCoinBoost         = "Coin %"
	ColQICoinBoost       = "QI Coin %"
	ColQICoinStart       = "QI Coin at start"
	ColSuppliesBoost     = "Supplies %"
	ColQISuppliesBoost   = "QI Supplies %"
	ColQISuppliesStart   = "QI Supplies at start"
	ColQIGoodsStart      = "QI Goods at start"
	ColQIUnitsStart      = "QI Units at start"
	ColQAPerHour         = "QA per hour"
	ColFPBoost           = "FP boost"
	ColGuildGoodsBoost   = "Guild Goods Production %"
	ColSpecialGoodsBoost = "Special Goods Production %"
	ColMedalBoost        = "Medal Boost"
	ColGoodsBoost        = "Goods Boost"
)

// ProductionColumns - числовые колонки производства в порядке таблицы
var ProductionColumns = []string{
	ColCoins, ColSupplies, ColMedals, ColForgePoints, ColForgePointPackage,
	ColGoods, ColNextAgeGoods, ColPrevAgeGoods, ColSpecialGoods, ColGuildGoods,
	ColUnitsAmount, ColFastUnits, ColHeavyUnits, ColRangedUnits, ColArtilleryUnits, ColLightUnits, ColRogues,
	ColNextAgeUnitsAmount, ColNextAgeFastUnits, ColNextAgeHeavyUnits, ColNextAgeRangedUnits,
	ColNextAgeArtilleryUnits, ColNextAgeLightUnits,
	ColFinishSpecialProduction, ColFinishGoodsProduction, ColStoreKit, ColMassSelfAidKit,
	ColSelfAidKit, ColRenovationKit, ColOneUpKit, ColFinishAllSupplies,
}

// BoostColumns - процентные и стартовые бусты
var BoostColumns = []string{
	ColRedAttack, ColRedDefense, ColRedGBGAttack, ColRedGBGDefense,
	ColRedGEAttack, ColRedGEDefense, ColRedQIAttack, ColRedQIDefense,
	ColBlueAttack, ColBlueDefense, ColBlueGBGAttack, ColBlueGBGDefense,
	ColBlueGEAttack, ColBlueGEDefense, ColBlueQIAttack, ColBlueQIDefense,
	ColCoinBoost, ColQICoinBoost, ColQICoinStart, ColSuppliesBoost,
	ColQISuppliesBoost, ColQISuppliesStart, ColQIGoodsStart,
	ColQIUnitsStart, ColQAPerHour, ColFPBoost, ColGuildGoodsBoost,
	ColSpecialGoodsBoost, ColMedalBoost, ColGoodsBoost,
}

var armyBoostColumns = []string{
	ColRedAttack, ColRedDefense, ColBlueAttack, ColBlueDefense,
	ColRedGBGAttack, ColRedGBGDefense, ColBlueGBGAttack, ColBlueGBGDefense,
	ColRedGEAttack, ColRedGEDefense, ColBlueGEAttack, ColBlueGEDefense,
	ColRedQIAttack, ColRedQIDefense, ColBlueQIAttack, ColBlueQIDefense,
}

// WeightableColumns - метрики, которым пользователь может задать вес
var WeightableColumns = concat(
	[]string{
		ColForgePoints, ColForgePointPackage,
		ColGoods, ColNextAgeGoods, ColPrevAgeGoods, ColSpecialGoods, ColGuildGoods,
		ColRogues, ColFastUnits, ColHeavyUnits, ColRangedUnits, ColArtilleryUnits, ColLightUnits,
		ColNextAgeFastUnits, ColNextAgeHeavyUnits, ColNextAgeRangedUnits, ColNextAgeArtilleryUnits, ColNextAgeLightUnits,
		ColPopulation,
	},
	armyBoostColumns,
	[]string{
		ColQICoinBoost, ColQICoinStart, ColQISuppliesBoost, ColQISuppliesStart,
		ColQIGoodsStart, ColQIUnitsStart, ColQAPerHour,
	},
)

// AdditiveMetrics - метрики, которые прямо суммируются в Total Score.
// Чистые проценты (FP boost, Goods Boost ...) сюда не входят.
var AdditiveMetrics = concat(
	[]string{
		ColCoins, ColSupplies, ColMedals, ColForgePoints, ColForgePointPackage, ColGoods,
		ColNextAgeGoods, ColPrevAgeGoods, ColSpecialGoods, ColGuildGoods,
	},
	armyBoostColumns,
	[]string{ColQICoinStart, ColQISuppliesStart, ColQIGoodsStart, ColQIUnitsStart, ColQAPerHour},
)

// PerSquareExcludedColumns - колонки, которые не делятся на площадь
var PerSquareExcludedColumns = []string{
	ColName, ColEvent, ColTranslatedEra, ColSquares, ColRoad, ColLimited, ColAllyRoom, ColSize,
	ColUnitsType, ColNextAgeUnitsType, ColOther, ColEfficiency, ColTotalScore, ColQuantity,
}

// PercentageColumns - колонки, которые отображаются как проценты
var PercentageColumns = concat(
	armyBoostColumns,
	[]string{
		ColQICoinBoost, ColQISuppliesBoost, ColCoinBoost, ColSuppliesBoost, ColFPBoost,
		ColGuildGoodsBoost, ColSpecialGoodsBoost, ColMedalBoost, ColGoodsBoost,
	},
)

// ColumnGroup - именованная группа колонок для представления
type ColumnGroup struct {
	Key     string   `json:"key"`
	Columns []string `json:"columns"`
}

// ColumnGroups - группы в порядке отображения
var ColumnGroups = []ColumnGroup{
	{Key: "basic_info", Columns: []string{ColEvent, ColEfficiency, ColTotalScore, ColSize, ColSquares, ColRoad, ColLimited, ColAllyRoom, ColPopulation, ColHappiness}},
	{Key: "production", Columns: []string{ColCoins, ColSupplies, ColMedals, ColForgePoints, ColForgePointPackage, ColGoods, ColNextAgeGoods, ColPrevAgeGoods, ColSpecialGoods, ColGuildGoods}},
	{Key: "military", Columns: []string{ColRogues, ColFastUnits, ColHeavyUnits, ColRangedUnits, ColArtilleryUnits, ColLightUnits, ColNextAgeFastUnits, ColNextAgeHeavyUnits, ColNextAgeRangedUnits, ColNextAgeArtilleryUnits, ColNextAgeLightUnits}},
	{Key: "base_army", Columns: []string{ColRedAttack, ColRedDefense, ColBlueAttack, ColBlueDefense}},
	{Key: "gbg", Columns: []string{ColRedGBGAttack, ColRedGBGDefense, ColBlueGBGAttack, ColBlueGBGDefense}},
	{Key: "ge", Columns: []string{ColRedGEAttack, ColRedGEDefense, ColBlueGEAttack, ColBlueGEDefense}},
	{Key: "qi", Columns: []string{ColRedQIAttack, ColRedQIDefense, ColBlueQIAttack, ColBlueQIDefense, ColQICoinBoost, ColQICoinStart, ColQISuppliesBoost, ColQISuppliesStart, ColQIGoodsStart, ColQIUnitsStart, ColQAPerHour}},
	{Key: "boosts", Columns: []string{ColCoinBoost, ColSuppliesBoost, ColFPBoost, ColGuildGoodsBoost, ColSpecialGoodsBoost, ColMedalBoost, ColGoodsBoost}},
	{Key: "consumables", Columns: []string{ColFinishSpecialProduction, ColFinishGoodsProduction, ColStoreKit, ColMassSelfAidKit, ColSelfAidKit, ColOneUpKit, ColRenovationKit, ColFinishAllSupplies}},
	{Key: "other", Columns: []string{ColOther}},
}

// ColumnKind - тип значения в колонке
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindCategory
	KindBool
	KindNumber
)

// String возвращает имя типа колонки
func (k ColumnKind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	default:
		return "text"
	}
}

// MarshalText - kind сериализуется как строка
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

var textColumns = map[string]bool{
	ColID: true, ColName: true, ColEvent: true, ColTranslatedEra: true, ColSize: true,
	ColUnitsType: true, ColNextAgeUnitsType: true, ColOther: true, ColSource: true,
}

var categoryColumns = map[string]bool{
	ColEra: true, ColLimited: true, ColAllyRoom: true,
}

// KindOf определяет тип колонки по имени. Всё, что не текст, категория или
// флаг дороги, считается числом.
func KindOf(name string) ColumnKind {
	switch {
	case name == ColRoad:
		return KindBool
	case categoryColumns[name]:
		return KindCategory
	case textColumns[name]:
		return KindText
	default:
		return KindNumber
	}
}

// RecordColumns - фиксированная схема таблицы, построенной из BuildingRecord
func RecordColumns() []string {
	head := []string{
		ColID, ColName, ColEvent, ColEra, ColTranslatedEra, ColWidth, ColHeight, ColSize,
		ColSquares, ColRoad, ColLimited, ColAllyRoom, ColPopulation, ColHappiness,
	}
	return concat(head, ProductionColumns, []string{ColUnitsType, ColNextAgeUnitsType}, BoostColumns, []string{ColOther})
}

// IsPercentage - колонка хранит процент
func IsPercentage(name string) bool {
	for _, c := range PercentageColumns {
		if c == name {
			return true
		}
	}
	return false
}

func concat(parts ...[]string) []string {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]string, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
