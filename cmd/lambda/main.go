//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/parser"
	apperrors "github.com/building-analyzer/internal/pkg/errors"
	"github.com/building-analyzer/internal/pkg/logger"
	"github.com/building-analyzer/internal/pkg/validator"
	"github.com/building-analyzer/internal/usecase"
	"github.com/building-analyzer/internal/usecase/dto"
)

const parseTimeout = 25 * time.Second

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// scoreRequest - тело запроса Function URL: сырой документ и параметры анализа
type scoreRequest struct {
	Raw      json.RawMessage `json:"raw"`
	Prefixes []string        `json:"prefixes"`
	dto.AnalysisRequest
}

type scoreResult struct {
	Hash    string              `json:"hash"`
	Mode    domain.ScoringMode  `json:"mode"`
	Rows    *domain.Table       `json:"rows"`
	Summary dto.AnalysisSummary `json:"summary"`
	Report  domain.ParseReport  `json:"report"`
	TimeMs  int64               `json:"time_ms"`
}

type scoreHandler struct {
	logger *zap.Logger
}

func (h *scoreHandler) handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	start := time.Now()

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": "invalid base64 body"}))
		}
		body = string(decoded)
	}

	var req scoreRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": err.Error()}))
	}
	if len(req.Raw) == 0 {
		return errResp(apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": "missing raw field"}))
	}
	if err := validator.Validate(&req.AnalysisRequest); err != nil {
		return errResp(apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": err.Error()}))
	}

	tagger, err := parser.NewEventTagger(nil, nil)
	if err != nil {
		return errResp(err)
	}

	parseCtx, cancel := context.WithTimeout(ctx, parseTimeout)
	defer cancel()
	records, report, err := parser.New(req.Prefixes, tagger, h.logger).Parse(parseCtx, req.Raw)
	if err != nil {
		return errResp(apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": err.Error()}))
	}

	hash := usecase.ContentHash(req.Raw)
	ds := domain.NewDataset(hash, "lambda", domain.BuildTable(records), report, domain.OriginParse)

	rows, mode, err := usecase.RunAnalysis(ds, &req.AnalysisRequest)
	if err != nil {
		return errResp(err)
	}

	h.logger.Info("Document scored",
		zap.String("hash", hash),
		zap.Int("records", len(records)),
		zap.Int("rows", rows.Len()))

	respJSON, err := json.Marshal(scoreResult{
		Hash:    hash,
		Mode:    mode,
		Rows:    rows,
		Summary: usecase.Summarize(rows),
		Report:  report,
		TimeMs:  time.Since(start).Milliseconds(),
	})
	if err != nil {
		return errResp(err)
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

// errResp отдаёт AppError с её статусом, прочие ошибки - 500
func errResp(err error) (events.LambdaFunctionURLResponse, error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.ErrInternalServer
	}
	body, _ := json.Marshal(map[string]interface{}{"error": appErr})
	return events.LambdaFunctionURLResponse{StatusCode: appErr.StatusCode, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	log, err := logger.New(level, "building-analyzer-lambda")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	h := &scoreHandler{logger: log}
	lambda.Start(h.handle)
}
