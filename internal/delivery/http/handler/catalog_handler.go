package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/building-analyzer/internal/pkg/utils"
	"github.com/building-analyzer/internal/usecase"
)

// CatalogHandler отдаёт справочники: эпохи, колонки, статистику эпох и пресеты весов
type CatalogHandler struct {
	catalogUC *usecase.CatalogUseCase
}

// NewCatalogHandler создает новый экземпляр CatalogHandler
func NewCatalogHandler(catalogUC *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC}
}

// Eras godoc
// @Summary Список эпох
// @Description Ключ, отображаемое имя и уровень (1 = Bronze Age) каждой эпохи в хронологическом порядке
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.EraInfo}
// @Router /api/v1/eras [get]
func (h *CatalogHandler) Eras(c *fiber.Ctx) error {
	eras := h.catalogUC.Eras()
	return utils.SendSuccess(c, eras, &utils.Meta{Total: len(eras)})
}

// Columns godoc
// @Summary Словарь колонок
// @Description Колонки таблицы с типами, списки взвешиваемых, аддитивных, процентных колонок и группы отображения
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ColumnsResponse}
// @Router /api/v1/columns [get]
func (h *CatalogHandler) Columns(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.catalogUC.Columns(), nil)
}

// EraStats godoc
// @Summary Статистика эпох
// @Description Min/max каждой взвешиваемой метрики по эпохе. Без параметра - все эпохи.
// @Tags Catalog
// @Produce json
// @Param era query string false "Ключ или отображаемое имя эпохи"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.EraStatsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/era-stats [get]
func (h *CatalogHandler) EraStats(c *fiber.Ctx) error {
	stats, err := h.catalogUC.EraStats(c.Query("era"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, stats, &utils.Meta{Total: len(stats)})
}

// RankingPointsPreset godoc
// @Summary Пресет весов "очки рейтинга"
// @Description Веса, переводящие FP, товары и особые товары эпохи в очки рейтинга
// @Tags Catalog
// @Produce json
// @Param era query string true "Ключ или отображаемое имя эпохи"
// @Success 200 {object} utils.SuccessResponse{data=dto.WeightPresetResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/weights/presets/ranking-points [get]
func (h *CatalogHandler) RankingPointsPreset(c *fiber.Ctx) error {
	preset, err := h.catalogUC.RankingPointsPreset(c.Query("era"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, preset, nil)
}
