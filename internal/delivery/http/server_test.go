package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/config"
	httpDelivery "github.com/building-analyzer/internal/delivery/http"
	"github.com/building-analyzer/internal/delivery/http/handler"
	"github.com/building-analyzer/internal/pkg/metrics"
	"github.com/building-analyzer/internal/usecase"
)

const rawBuildings = `[
	{"id": "W_Good", "name": "Good House", "components": {
		"AllAge": {"placement": {"size": {"x": 2, "y": 2}}},
		"IronAge": {"production": {"options": [{"products": [
			{"type": "resources", "playerResources": {"resources": {"strategy_points": 3}}}
		]}]}}
	}},
	{"id": "W_Tower", "name": "Tower", "components": {
		"AllAge": {"placement": {"size": {"x": 1, "y": 1}}},
		"BronzeAge": {}
	}}
]`

// memorySource serves documents from a map
type memorySource map[string][]byte

func (s memorySource) Fetch(_ context.Context, location string) ([]byte, error) {
	if b, ok := s[location]; ok {
		return b, nil
	}
	return nil, errors.New("not found: " + location)
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error *struct {
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func newServer(t *testing.T, load bool) *httpDelivery.Server {
	t.Helper()
	logger := zap.NewNop()

	cfg := &config.Config{}
	cfg.Server.CORSOrigins = "*"
	cfg.Metrics.Enabled = true

	m := metrics.New()
	datasetUC := usecase.NewDatasetUseCase(
		memorySource{"meta.json": []byte(rawBuildings)},
		nil,
		nil,
		m,
		usecase.DatasetOptions{Source: "meta.json"},
		logger,
	)
	if load {
		_, err := datasetUC.Load(context.Background(), "")
		require.NoError(t, err)
	}

	handlers := httpDelivery.Handlers{
		Dataset: handler.NewDatasetHandler(datasetUC, logger),
		Analysis: handler.NewAnalysisHandler(
			usecase.NewAnalysisUseCase(datasetUC, logger),
			usecase.NewExportUseCase(datasetUC, logger),
			datasetUC,
			logger,
		),
		Catalog: handler.NewCatalogHandler(usecase.NewCatalogUseCase(datasetUC)),
		City:    handler.NewCityHandler(usecase.NewCityUseCase(datasetUC, logger), logger),
	}
	return httpDelivery.NewServer(cfg, logger, m, handlers)
}

func do(t *testing.T, s *httpDelivery.Server, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestServer_DatasetRoutes(t *testing.T) {
	s := newServer(t, true)

	t.Run("health", func(t *testing.T) {
		resp, raw := do(t, s, http.MethodGet, "/api/v1/health", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, true, body["dataset_loaded"])
		assert.Equal(t, 2.0, body["dataset_rows"])
	})

	t.Run("dataset info", func(t *testing.T) {
		resp, raw := do(t, s, http.MethodGet, "/api/v1/dataset", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var info struct {
			Hash   string `json:"hash"`
			Origin string `json:"origin"`
			Rows   int    `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(decode(t, raw).Data, &info))
		assert.Equal(t, usecase.ContentHash([]byte(rawBuildings)), info.Hash)
		assert.Equal(t, "parse", info.Origin)
		assert.Equal(t, 2, info.Rows)
	})

	t.Run("reload from an unknown source keeps the dataset", func(t *testing.T) {
		resp, raw := do(t, s, http.MethodPost, "/api/v1/dataset/reload", `{"source": "missing.json"}`)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "DATASET_LOAD_FAILED", decode(t, raw).Error.Code)

		resp, _ = do(t, s, http.MethodGet, "/api/v1/dataset", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("reload without a body", func(t *testing.T) {
		resp, raw := do(t, s, http.MethodPost, "/api/v1/dataset/reload", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 2.0, decode(t, raw).Meta["total"])
	})
}

func TestServer_CatalogRoutes(t *testing.T) {
	s := newServer(t, true)

	resp, raw := do(t, s, http.MethodGet, "/api/v1/eras", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 22.0, decode(t, raw).Meta["total"])

	resp, raw = do(t, s, http.MethodGet, "/api/v1/columns", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"weightable"`)

	resp, raw = do(t, s, http.MethodGet, "/api/v1/era-stats?era=IronAge", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"forge_points":{"min":3,"max":3}`)

	resp, raw = do(t, s, http.MethodGet, "/api/v1/weights/presets/ranking-points?era=Iron%20Age", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"forge_points":15`)

	resp, raw = do(t, s, http.MethodGet, "/api/v1/weights/presets/ranking-points", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ERA", decode(t, raw).Error.Code)
}

func TestServer_AnalysisRoutes(t *testing.T) {
	s := newServer(t, true)

	t.Run("buildings", func(t *testing.T) {
		resp, raw := do(t, s, http.MethodGet, "/api/v1/buildings?era=IronAge", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(decode(t, raw).Data, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "W_Good", rows[0]["id"])
	})

	t.Run("buildings with unknown era", func(t *testing.T) {
		resp, raw := do(t, s, http.MethodGet, "/api/v1/buildings?era=MoonAge", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_REQUEST", decode(t, raw).Error.Code)
	})

	t.Run("analysis", func(t *testing.T) {
		body := `{"weights": {"forge_points": 2}, "sort_by": "Total Score"}`
		resp, raw := do(t, s, http.MethodPost, "/api/v1/analysis", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env := decode(t, raw)
		var result struct {
			Mode    string                   `json:"mode"`
			Rows    []map[string]interface{} `json:"rows"`
			Summary struct {
				Rows int `json:"rows"`
				Best struct {
					ID         string  `json:"id"`
					TotalScore float64 `json:"total_score"`
				} `json:"best"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, "direct", result.Mode)
		assert.Equal(t, 2, result.Summary.Rows)
		assert.Equal(t, "W_Good", result.Summary.Best.ID)
		assert.Equal(t, 6.0, result.Summary.Best.TotalScore)
		assert.Equal(t, "W_Good", result.Rows[0]["id"])
		assert.NotEmpty(t, env.Meta["dataset_hash"])
	})

	t.Run("analysis rejects bad input", func(t *testing.T) {
		resp, raw := do(t, s, http.MethodPost, "/api/v1/analysis", `{"weights": `)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_REQUEST", decode(t, raw).Error.Code)

		resp, _ = do(t, s, http.MethodPost, "/api/v1/analysis", `{"mode": "fancy"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = do(t, s, http.MethodPost, "/api/v1/analysis", `{"filters": [{"operator": ">"}]}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("csv export", func(t *testing.T) {
		resp, raw := do(t, s, http.MethodPost, "/api/v1/analysis/export?format=csv", `{"era": "IronAge"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="buildings_IronAge_`)
		assert.True(t, bytes.HasPrefix(raw, []byte("\ufeff")))
		assert.Contains(t, string(raw), "W_Good;")
	})

	t.Run("unknown export format", func(t *testing.T) {
		resp, raw := do(t, s, http.MethodPost, "/api/v1/analysis/export?format=xlsx", `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_EXPORT_FORMAT", decode(t, raw).Error.Code)
	})
}

func TestServer_CityRoute(t *testing.T) {
	s := newServer(t, true)

	resp, raw := do(t, s, http.MethodPost, "/api/v1/city/analyze",
		`{"kind": "city", "data": "W_Good\t2\t3\nW_Ghost\t2\t1", "weights": {"forge_points": 1}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Unmatched []string `json:"unmatched"`
		Totals    struct {
			Buildings  int     `json:"buildings"`
			TotalScore float64 `json:"total_score"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &result))
	assert.Equal(t, []string{"W_Ghost"}, result.Unmatched)
	assert.Equal(t, 3, result.Totals.Buildings)
	assert.Equal(t, 9.0, result.Totals.TotalScore)

	resp, raw = do(t, s, http.MethodPost, "/api/v1/city/analyze", `{"kind": "inventory", "data": "nothing useful"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EMPTY_IMPORT", decode(t, raw).Error.Code)

	resp, _ = do(t, s, http.MethodPost, "/api/v1/city/analyze", `{"kind": "garden", "data": "W_Good;1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_NotLoaded(t *testing.T) {
	s := newServer(t, false)

	resp, raw := do(t, s, http.MethodPost, "/api/v1/analysis", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "DATASET_NOT_LOADED", decode(t, raw).Error.Code)

	resp, raw = do(t, s, http.MethodGet, "/api/v1/dataset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(decode(t, raw).Data), `"origin":"empty"`)
}

func TestServer_MetricsAndNotFound(t *testing.T) {
	s := newServer(t, true)

	resp, _ := do(t, s, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	do(t, s, http.MethodGet, "/api/v1/eras", "")

	resp, raw := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `http_requests_total{route="/api/v1/eras",status="200"} 1`)
	assert.Contains(t, string(raw), "dataset_rows 2")
}
