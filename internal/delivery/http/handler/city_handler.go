package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/pkg/utils"
	"github.com/building-analyzer/internal/usecase"
	"github.com/building-analyzer/internal/usecase/dto"
)

// CityHandler обрабатывает анализ инвентаря и города игрока
type CityHandler struct {
	cityUC *usecase.CityUseCase
	logger *zap.Logger
}

// NewCityHandler создает новый экземпляр CityHandler
func NewCityHandler(cityUC *usecase.CityUseCase, logger *zap.Logger) *CityHandler {
	return &CityHandler{
		cityUC: cityUC,
		logger: logger,
	}
}

// Analyze godoc
// @Summary Анализ инвентаря или города
// @Description Разбирает вставленный список (inventory: "id qty [era_level]", city: "id era_level qty"), сопоставляет с таблицей, оценивает в режиме direct и считает итоги с учётом количества.
// @Tags City
// @Accept json
// @Produce json
// @Param request body dto.CityAnalyzeRequest true "Список зданий и параметры оценки"
// @Success 200 {object} utils.SuccessResponse{data=dto.CityAnalyzeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/city/analyze [post]
func (h *CityHandler) Analyze(c *fiber.Ctx) error {
	var req dto.CityAnalyzeRequest
	if err := parseAndValidate(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()
	result, err := h.cityUC.Analyze(c.Context(), &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logger.Debug("City analyzed",
		zap.String("kind", req.Kind),
		zap.Int("entries", result.Entries),
		zap.Int("unmatched", len(result.Unmatched)))

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Rows.Len(),
		TimeMSec: elapsedMS(start),
	})
}
