package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/pkg/utils"
	"github.com/building-analyzer/internal/usecase"
	"github.com/building-analyzer/internal/usecase/dto"
)

// AnalysisHandler обрабатывает запросы анализа, выборки и выгрузки зданий
type AnalysisHandler struct {
	analysisUC *usecase.AnalysisUseCase
	exportUC   *usecase.ExportUseCase
	datasets   usecase.DatasetProvider
	logger     *zap.Logger
}

// NewAnalysisHandler создает новый экземпляр AnalysisHandler
func NewAnalysisHandler(
	analysisUC *usecase.AnalysisUseCase,
	exportUC *usecase.ExportUseCase,
	datasets usecase.DatasetProvider,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisUC: analysisUC,
		exportUC:   exportUC,
		datasets:   datasets,
		logger:     logger,
	}
}

// Analyze godoc
// @Summary Анализ зданий
// @Description Фильтр по эпохе, событиям и имени, расчёт Total Score и Weighted Efficiency (direct или legacy), расширенные фильтры, пересчёт на клетку, сортировка и лимит.
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body dto.AnalysisRequest true "Параметры анализа"
// @Success 200 {object} utils.SuccessResponse{data=dto.AnalysisResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/analysis [post]
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalysisRequest
	if err := parseAndValidate(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()
	result, err := h.analysisUC.Analyze(c.Context(), &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:       result.Summary.Rows,
		Limit:       req.Limit,
		DatasetHash: h.datasets.Current().Hash,
		TimeMSec:    elapsedMS(start),
	})
}

// Export godoc
// @Summary Выгрузка результата анализа
// @Description Выполняет анализ и отдаёт файл: CSV (разделитель ";", UTF-8 BOM) или JSON записи
// @Tags Analysis
// @Accept json
// @Produce text/csv
// @Produce json
// @Param format query string false "csv или json" default(csv)
// @Param request body dto.AnalysisRequest true "Параметры анализа"
// @Success 200 {file} file
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/analysis/export [post]
func (h *AnalysisHandler) Export(c *fiber.Ctx) error {
	var req dto.AnalysisRequest
	if err := parseAndValidate(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.exportUC.Export(c.Context(), &req, c.Query("format", dto.ExportCSV))
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	return c.Send(result.Body)
}

// Buildings godoc
// @Summary Выборка зданий
// @Description Строки таблицы зданий с фильтром по эпохе, событию и подстроке имени, без оценки
// @Tags Analysis
// @Produce json
// @Param era query string false "Ключ или отображаемое имя эпохи"
// @Param event query string false "Метка события"
// @Param name query string false "Подстрока имени (без учёта регистра)"
// @Param limit query int false "Максимальное количество строк"
// @Success 200 {object} utils.SuccessResponse{data=[]map[string]interface{}}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/buildings [get]
func (h *AnalysisHandler) Buildings(c *fiber.Ctx) error {
	var q dto.BuildingsQuery
	if err := parseQuery(c, &q); err != nil {
		return utils.SendError(c, err)
	}

	rows, err := h.analysisUC.Buildings(c.Context(), &q)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, rows, &utils.Meta{
		Total:       rows.Len(),
		Limit:       q.Limit,
		DatasetHash: h.datasets.Current().Hash,
	})
}
