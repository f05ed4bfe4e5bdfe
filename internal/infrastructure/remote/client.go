package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/building-analyzer/internal/config"
	"github.com/building-analyzer/internal/domain/repository"
)

// maxDocumentSize - верхняя граница размера скачиваемого документа
const maxDocumentSize = 256 << 20

type client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создает HTTP клиент для скачивания документа зданий
func NewClient(cfg *config.RemoteConfig, logger *zap.Logger) repository.RemoteRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Download скачивает документ. Любой статус кроме 200 - ошибка.
func (c *client) Download(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	c.logger.Debug("Downloading document", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("Remote source returned error",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("remote source error: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("remote document exceeds %d bytes", maxDocumentSize)
	}

	c.logger.Info("Document downloaded",
		zap.String("url", url),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))
	return data, nil
}
