package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, DefaultDatasetSource, cfg.Dataset.Source)
	assert.Equal(t, []string{"W_"}, cfg.Dataset.IDPrefixes)
	assert.Equal(t, 60*time.Second, cfg.Dataset.ParseTimeout)
	assert.Equal(t, 30*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, StoreNone, cfg.Store.Driver)
	assert.Equal(t, "dataset-refresh-workers", cfg.Worker.ConsumerGroup)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATASET_ID_PREFIXES", "W_, X_ ,")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("DATASET_CACHE_TTL", "120")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"W_", "X_"}, cfg.Dataset.IDPrefixes)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, 2*time.Minute, cfg.Cache.DatasetTTL)
	assert.Equal(t, "localhost:6380", cfg.GetRedisAddr())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }, "STORE_DRIVER"},
		{"zero parse timeout", func(c *Config) { c.Dataset.ParseTimeout = 0 }, "DATASET_PARSE_TIMEOUT"},
		{"negative remote timeout", func(c *Config) { c.Remote.Timeout = -time.Second }, "REMOTE_TIMEOUT"},
		{"no prefixes", func(c *Config) { c.Dataset.IDPrefixes = nil }, "DATASET_ID_PREFIXES"},
		{"sqlite without path", func(c *Config) {
			c.Store.Driver = StoreSQLite
			c.Store.SQLitePath = ""
		}, "SQLITE_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			cfg := fromViper(v)
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
