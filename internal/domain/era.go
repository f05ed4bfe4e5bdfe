package domain

// Era - ключ игровой эпохи (как в components исходного JSON)
type Era string

// Era constants в хронологическом порядке
const (
	EraBronzeAge            Era = "BronzeAge"
	EraIronAge              Era = "IronAge"
	EraEarlyMiddleAge       Era = "EarlyMiddleAge"
	EraHighMiddleAge        Era = "HighMiddleAge"
	EraLateMiddleAge        Era = "LateMiddleAge"
	EraColonialAge          Era = "ColonialAge"
	EraIndustrialAge        Era = "IndustrialAge"
	EraProgressiveEra       Era = "ProgressiveEra"
	EraModernEra            Era = "ModernEra"
	EraPostModernEra        Era = "PostModernEra"
	EraContemporaryEra      Era = "ContemporaryEra"
	EraTomorrowEra          Era = "TomorrowEra"
	EraFutureEra            Era = "FutureEra"
	EraArcticFuture         Era = "ArcticFuture"
	EraOceanicFuture        Era = "OceanicFuture"
	EraVirtualFuture        Era = "VirtualFuture"
	EraSpaceAgeMars         Era = "SpaceAgeMars"
	EraSpaceAgeAsteroidBelt Era = "SpaceAgeAsteroidBelt"
	EraSpaceAgeVenus        Era = "SpaceAgeVenus"
	EraSpaceAgeJupiterMoon  Era = "SpaceAgeJupiterMoon"
	EraSpaceAgeTitan        Era = "SpaceAgeTitan"
	EraSpaceAgeSpaceHub     Era = "SpaceAgeSpaceHub"
)

// AllAgeKey - общий компонент, действующий во всех эпохах
const AllAgeKey = "AllAge"

var eraOrder = []Era{
	EraBronzeAge,
	EraIronAge,
	EraEarlyMiddleAge,
	EraHighMiddleAge,
	EraLateMiddleAge,
	EraColonialAge,
	EraIndustrialAge,
	EraProgressiveEra,
	EraModernEra,
	EraPostModernEra,
	EraContemporaryEra,
	EraTomorrowEra,
	EraFutureEra,
	EraArcticFuture,
	EraOceanicFuture,
	EraVirtualFuture,
	EraSpaceAgeMars,
	EraSpaceAgeAsteroidBelt,
	EraSpaceAgeVenus,
	EraSpaceAgeJupiterMoon,
	EraSpaceAgeTitan,
	EraSpaceAgeSpaceHub,
}

var eraDisplayNames = map[Era]string{
	EraSpaceAgeSpaceHub:     "Space Age: Space Hub",
	EraSpaceAgeTitan:        "Space Age: Titan",
	EraSpaceAgeJupiterMoon:  "Space Age: Jupiter Moon",
	EraSpaceAgeVenus:        "Space Age: Venus",
	EraSpaceAgeAsteroidBelt: "Space Age: Asteroid Belt",
	EraSpaceAgeMars:         "Space Age: Mars",
	EraVirtualFuture:        "Virtual Future",
	EraOceanicFuture:        "Oceanic Future",
	EraArcticFuture:         "Arctic Future",
	EraFutureEra:            "Future Era",
	EraTomorrowEra:          "Tomorrow Era",
	EraContemporaryEra:      "Contemporary Era",
	EraPostModernEra:        "Post-Modern Era",
	EraModernEra:            "Modern Era",
	EraProgressiveEra:       "Progressive Era",
	EraIndustrialAge:        "Industrial Age",
	EraColonialAge:          "Colonial Age",
	EraLateMiddleAge:        "Late Middle Age",
	EraHighMiddleAge:        "High Middle Age",
	EraEarlyMiddleAge:       "Early Middle Age",
	EraIronAge:              "Iron Age",
	EraBronzeAge:            "Bronze Age",
}

// EraInfo - описание эпохи для API
type EraInfo struct {
	Key         Era    `json:"key"`
	DisplayName string `json:"display_name"`
	Level       int    `json:"level"`
}

// Eras возвращает все эпохи в хронологическом порядке
func Eras() []Era {
	out := make([]Era, len(eraOrder))
	copy(out, eraOrder)
	return out
}

// EraInfos возвращает описания всех эпох
func EraInfos() []EraInfo {
	out := make([]EraInfo, 0, len(eraOrder))
	for _, e := range eraOrder {
		out = append(out, EraInfo{Key: e, DisplayName: e.DisplayName(), Level: e.Level()})
	}
	return out
}

// ParseEra проверяет, что ключ является известной эпохой
func ParseEra(key string) (Era, bool) {
	e := Era(key)
	if _, ok := eraDisplayNames[e]; ok {
		return e, true
	}
	return "", false
}

// EraFromDisplayName - обратный поиск ключа эпохи по отображаемому имени
func EraFromDisplayName(name string) (Era, bool) {
	for e, display := range eraDisplayNames {
		if display == name {
			return e, true
		}
	}
	return "", false
}

// ResolveEra принимает ключ или отображаемое имя
func ResolveEra(s string) (Era, bool) {
	if e, ok := ParseEra(s); ok {
		return e, true
	}
	return EraFromDisplayName(s)
}

// EraByLevel возвращает эпоху по уровню (1 = BronzeAge)
func EraByLevel(level int) (Era, bool) {
	if level < 1 || level > len(eraOrder) {
		return "", false
	}
	return eraOrder[level-1], true
}

// DisplayName - английское отображаемое имя эпохи
func (e Era) DisplayName() string {
	if name, ok := eraDisplayNames[e]; ok {
		return name
	}
	return string(e)
}

// Level - порядковый номер эпохи, 0 для неизвестной
func (e Era) Level() int {
	for i, candidate := range eraOrder {
		if candidate == e {
			return i + 1
		}
	}
	return 0
}

// pastEras - эпохи, где специальные товары засчитываются как товары
// следующей эпохи. Раннее Средневековье в список не входит.
var pastEras = map[Era]bool{
	EraBronzeAge:       true,
	EraIronAge:         true,
	EraHighMiddleAge:   true,
	EraLateMiddleAge:   true,
	EraColonialAge:     true,
	EraProgressiveEra:  true,
	EraIndustrialAge:   true,
	EraModernEra:       true,
	EraPostModernEra:   true,
	EraContemporaryEra: true,
	EraTomorrowEra:     true,
	EraFutureEra:       true,
}

// IsPast - эпоха из списка pastEras
func (e Era) IsPast() bool {
	return pastEras[e]
}
