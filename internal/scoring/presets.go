package scoring

import "github.com/building-analyzer/internal/domain"

// forgePointRankingPoints - очков рейтинга за одно очко исследований
const forgePointRankingPoints = 15

var goodsRankingPoints = map[domain.Era]float64{
	domain.EraSpaceAgeSpaceHub:     69,
	domain.EraSpaceAgeTitan:        63,
	domain.EraSpaceAgeJupiterMoon:  55,
	domain.EraSpaceAgeVenus:        49.5,
	domain.EraSpaceAgeAsteroidBelt: 44.5,
	domain.EraSpaceAgeMars:         37.5,
	domain.EraVirtualFuture:        33,
	domain.EraOceanicFuture:        29,
	domain.EraArcticFuture:         22.5,
	domain.EraFutureEra:            21,
	domain.EraTomorrowEra:          19.5,
	domain.EraContemporaryEra:      13.5,
	domain.EraPostModernEra:        12.5,
	domain.EraModernEra:            11.5,
	domain.EraProgressiveEra:       6,
	domain.EraIndustrialAge:        5.5,
	domain.EraColonialAge:          5,
	domain.EraLateMiddleAge:        4.5,
	domain.EraHighMiddleAge:        4,
	domain.EraEarlyMiddleAge:       3.5,
	domain.EraIronAge:              3,
	domain.EraBronzeAge:            2.5,
}

var specialGoodsRankingPoints = map[domain.Era]float64{
	domain.EraSpaceAgeSpaceHub:     10,
	domain.EraSpaceAgeTitan:        10,
	domain.EraSpaceAgeJupiterMoon:  10,
	domain.EraSpaceAgeVenus:        10,
	domain.EraSpaceAgeAsteroidBelt: 10,
	domain.EraSpaceAgeMars:         10,
	domain.EraOceanicFuture:        42,
	domain.EraArcticFuture:         42,
}

// RankingPointsWeights - веса, переводящие производство в очки рейтинга
func RankingPointsWeights(era domain.Era) map[string]float64 {
	weights := map[string]float64{
		domain.ColForgePoints: forgePointRankingPoints,
	}
	if v, ok := goodsRankingPoints[era]; ok {
		weights[domain.ColGoods] = v
	}
	if v, ok := specialGoodsRankingPoints[era]; ok {
		weights[domain.ColSpecialGoods] = v
	}
	return weights
}
