package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/config"
)

func TestClient_Download(t *testing.T) {
	logger := zap.NewNop()
	cfg := &config.RemoteConfig{Timeout: 5 * time.Second}

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"W_A"}]`))
		}))
		defer server.Close()

		data, err := NewClient(cfg, logger).Download(context.Background(), server.URL+"/meta.json")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"W_A"}]`, string(data))
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("missing"))
		}))
		defer server.Close()

		_, err := NewClient(cfg, logger).Download(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("context cancelled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewClient(cfg, logger).Download(ctx, server.URL)
		assert.Error(t, err)
	})

	t.Run("client timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer server.Close()

		short := &config.RemoteConfig{Timeout: 50 * time.Millisecond}
		_, err := NewClient(short, logger).Download(context.Background(), server.URL)
		assert.Error(t, err)
	})
}
