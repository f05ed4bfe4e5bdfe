package parser

import (
	"github.com/tidwall/gjson"

	"github.com/building-analyzer/internal/domain"
)

type boostKey struct {
	boostType string
	target    string
}

// boostColumns - (type, targetedFeature) -> колонки, в которые идёт значение.
// Комбинированные бусты раскладываются на несколько колонок.
var boostColumns = map[boostKey][]string{
	{"att_boost_attacker", "all"}:                  {domain.ColRedAttack},
	{"def_boost_attacker", "all"}:                  {domain.ColRedDefense},
	{"att_boost_attacker", "battleground"}:         {domain.ColRedGBGAttack},
	{"def_boost_attacker", "battleground"}:         {domain.ColRedGBGDefense},
	{"att_boost_attacker", "guild_expedition"}:     {domain.ColRedGEAttack},
	{"def_boost_attacker", "guild_expedition"}:     {domain.ColRedGEDefense},
	{"att_boost_attacker", "guild_raids"}:          {domain.ColRedQIAttack},
	{"def_boost_attacker", "guild_raids"}:          {domain.ColRedQIDefense},
	{"att_boost_defender", "all"}:                  {domain.ColBlueAttack},
	{"def_boost_defender", "all"}:                  {domain.ColBlueDefense},
	{"att_boost_defender", "battleground"}:         {domain.ColBlueGBGAttack},
	{"def_boost_defender", "battleground"}:         {domain.ColBlueGBGDefense},
	{"att_boost_defender", "guild_expedition"}:     {domain.ColBlueGEAttack},
	{"def_boost_defender", "guild_expedition"}:     {domain.ColBlueGEDefense},
	{"att_boost_defender", "guild_raids"}:          {domain.ColBlueQIAttack},
	{"def_boost_defender", "guild_raids"}:          {domain.ColBlueQIDefense},
	{"att_def_boost_attacker", "all"}:              {domain.ColRedAttack, domain.ColRedDefense},
	{"att_def_boost_attacker", "battleground"}:     {domain.ColRedGBGAttack, domain.ColRedGBGDefense},
	{"att_def_boost_attacker", "guild_expedition"}: {domain.ColRedGEAttack, domain.ColRedGEDefense},
	{"att_def_boost_attacker", "guild_raids"}:      {domain.ColRedQIAttack, domain.ColRedQIDefense},
	{"att_def_boost_defender", "all"}:              {domain.ColBlueAttack, domain.ColBlueDefense},
	{"att_def_boost_defender", "battleground"}:     {domain.ColBlueGBGAttack, domain.ColBlueGBGDefense},
	{"att_def_boost_defender", "guild_expedition"}: {domain.ColBlueGEAttack, domain.ColBlueGEDefense},
	{"att_def_boost_defender", "guild_raids"}:      {domain.ColBlueQIAttack, domain.ColBlueQIDefense},
	{"att_def_boost_attacker_defender", "all"}: {
		domain.ColRedAttack, domain.ColRedDefense, domain.ColBlueAttack, domain.ColBlueDefense,
	},
	{"att_def_boost_attacker_defender", "battleground"}: {
		domain.ColRedGBGAttack, domain.ColRedGBGDefense, domain.ColBlueGBGAttack, domain.ColBlueGBGDefense,
	},
	{"att_def_boost_attacker_defender", "guild_expedition"}: {
		domain.ColRedGEAttack, domain.ColRedGEDefense, domain.ColBlueGEAttack, domain.ColBlueGEDefense,
	},
	{"att_def_boost_attacker_defender", "guild_raids"}: {
		domain.ColRedQIAttack, domain.ColRedQIDefense, domain.ColBlueQIAttack, domain.ColBlueQIDefense,
	},
	{"coin_production", "all"}:                      {domain.ColCoinBoost},
	{"supply_production", "all"}:                    {domain.ColSuppliesBoost},
	{"guild_raids_coins_production", "all"}:         {domain.ColQICoinBoost},
	{"guild_raids_coins_start", "all"}:              {domain.ColQICoinStart},
	{"guild_raids_supplies_production", "all"}:      {domain.ColQISuppliesBoost},
	{"guild_raids_supplies_start", "all"}:           {domain.ColQISuppliesStart},
	{"guild_raids_goods_start", "all"}:              {domain.ColQIGoodsStart},
	{"guild_raids_units_start", "all"}:              {domain.ColQIUnitsStart},
	{"guild_raids_action_points_collection", "all"}: {domain.ColQAPerHour},
	{"forge_points_production", "all"}:              {domain.ColFPBoost},
	{"guild_goods_production", "all"}:               {domain.ColGuildGoodsBoost},
	{"special_goods_production", "all"}:             {domain.ColSpecialGoodsBoost},
	{"medal_production", "all"}:                     {domain.ColMedalBoost},
	{"goods_production", "all"}:                     {domain.ColGoodsBoost},
}

// collectBoosts суммирует бусты эпохи и общего компонента
func collectBoosts(eraComp, allAge gjson.Result) map[string]float64 {
	boosts := make(map[string]float64, len(domain.BoostColumns))
	for _, col := range domain.BoostColumns {
		boosts[col] = 0
	}

	for _, comp := range []gjson.Result{eraComp, allAge} {
		comp.Get("boosts.boosts").ForEach(func(_, b gjson.Result) bool {
			key := boostKey{boostType: b.Get("type").String(), target: b.Get("targetedFeature").String()}
			value := b.Get("value").Float()
			for _, col := range boostColumns[key] {
				boosts[col] += value
			}
			return true
		})
	}

	for k, v := range boosts {
		boosts[k] = domain.Round2(v)
	}
	return boosts
}
