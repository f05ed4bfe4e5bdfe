package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	apperrors "github.com/building-analyzer/internal/pkg/errors"
	"github.com/building-analyzer/internal/usecase/dto"
)

// utf8BOM - маркер UTF-8 для Excel
const utf8BOM = "\ufeff"

// ExportUseCase выгружает результат анализа в CSV или JSON
type ExportUseCase struct {
	datasets DatasetProvider
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportUseCase создает новый экземпляр ExportUseCase
func NewExportUseCase(datasets DatasetProvider, logger *zap.Logger) *ExportUseCase {
	return &ExportUseCase{
		datasets: datasets,
		logger:   logger,
		now:      time.Now,
	}
}

// Export выполняет анализ и сериализует строки в выбранный формат
func (uc *ExportUseCase) Export(ctx context.Context, req *dto.AnalysisRequest, format string) (*dto.ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = dto.ExportCSV
	}
	if format != dto.ExportCSV && format != dto.ExportJSON {
		return nil, apperrors.ErrInvalidExportFormat.WithDetails(map[string]interface{}{"format": format})
	}

	ds := uc.datasets.Current()
	if ds.Origin == domain.OriginEmpty {
		return nil, apperrors.ErrDatasetNotLoaded
	}

	rows, _, err := RunAnalysis(ds, req)
	if err != nil {
		return nil, err
	}

	result := &dto.ExportResult{Filename: uc.filename(req, format)}
	switch format {
	case dto.ExportJSON:
		result.Body, err = rows.MarshalJSON()
		result.ContentType = "application/json"
	default:
		result.Body, err = WriteCSV(rows)
		result.ContentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	uc.logger.Info("Analysis exported",
		zap.String("format", format),
		zap.Int("rows", rows.Len()),
		zap.Int("bytes", len(result.Body)))
	return result, nil
}

func (uc *ExportUseCase) filename(req *dto.AnalysisRequest, format string) string {
	scope := "all"
	if era, ok := domain.ResolveEra(req.Era); ok {
		scope = string(era)
	}
	if req.PerSquare {
		scope += "_per_square"
	}
	return fmt.Sprintf("buildings_%s_%s.%s", scope, uc.now().UTC().Format("20060102_150405"), format)
}

// WriteCSV пишет таблицу через ";" с BOM, числа минимум с двумя знаками
func WriteCSV(t *domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	columns := t.Columns()
	header := make([]string, len(columns))
	for j, col := range columns {
		header[j] = col.Name
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	record := make([]string, len(columns))
	for i := 0; i < t.Len(); i++ {
		for j, col := range columns {
			record[j] = csvValue(t, i, col)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvValue(t *domain.Table, row int, col domain.Column) string {
	cell, ok := t.Cell(row, col.Name)
	if !ok || cell.Missing {
		return ""
	}
	switch col.Kind {
	case domain.KindNumber:
		return formatDecimal(cell.Num)
	case domain.KindBool:
		return strconv.FormatBool(cell.Bool)
	default:
		return cell.Str
	}
}

// formatDecimal - без потери точности, но не меньше двух знаков после точки
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	switch {
	case dot < 0:
		return s + ".00"
	case len(s)-dot-1 < 2:
		return s + "0"
	default:
		return s
	}
}
