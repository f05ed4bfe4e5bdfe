package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/pkg/utils"
	"github.com/building-analyzer/internal/usecase"
	"github.com/building-analyzer/internal/usecase/dto"
)

// DatasetHandler обрабатывает запросы состояния и перезагрузки датасета
type DatasetHandler struct {
	datasetUC *usecase.DatasetUseCase
	logger    *zap.Logger
}

// NewDatasetHandler создает новый экземпляр DatasetHandler
func NewDatasetHandler(datasetUC *usecase.DatasetUseCase, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{
		datasetUC: datasetUC,
		logger:    logger,
	}
}

// Health godoc
// @Summary Health check
// @Description Состояние сервиса и признак загруженного датасета
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (h *DatasetHandler) Health(c *fiber.Ctx) error {
	ds := h.datasetUC.Current()
	return c.JSON(fiber.Map{
		"status":         "healthy",
		"time":           time.Now(),
		"dataset_loaded": h.datasetUC.Loaded(),
		"dataset_rows":   ds.Table.Len(),
	})
}

// GetDataset godoc
// @Summary Текущий датасет
// @Description Хеш, источник, время загрузки, число строк и отчёт разбора текущего датасета
// @Tags Dataset
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.DatasetInfo}
// @Router /api/v1/dataset [get]
func (h *DatasetHandler) GetDataset(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.NewDatasetInfo(h.datasetUC.Current()), nil)
}

// Reload godoc
// @Summary Перезагрузка датасета
// @Description Синхронно загружает документ (по умолчанию из конфигурации). При ошибке текущий датасет сохраняется.
// @Tags Dataset
// @Accept json
// @Produce json
// @Param request body dto.ReloadRequest false "Расположение документа: путь, http(s) URL или s3://bucket/key"
// @Success 200 {object} utils.SuccessResponse{data=dto.DatasetInfo}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/dataset/reload [post]
func (h *DatasetHandler) Reload(c *fiber.Ctx) error {
	var req dto.ReloadRequest
	if len(c.Body()) > 0 {
		if err := parseAndValidate(c, &req); err != nil {
			return utils.SendError(c, err)
		}
	}

	start := time.Now()
	ds, err := h.datasetUC.Load(c.Context(), req.Source)
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logger.Info("Dataset reloaded via API",
		zap.String("hash", ds.Hash),
		zap.Int("rows", ds.Table.Len()))

	return utils.SendSuccess(c, dto.NewDatasetInfo(ds), &utils.Meta{
		Total:       ds.Table.Len(),
		DatasetHash: ds.Hash,
		TimeMSec:    elapsedMS(start),
	})
}
