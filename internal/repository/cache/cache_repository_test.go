package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/repository/cache"
)

// getTestRedis connects to a local Redis or skips the test
func getTestRedis(t *testing.T) *cache.Redis {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisFromClient(client, zap.NewNop())
}

func TestCacheRepository_GetSet(t *testing.T) {
	rdb := getTestRedis(t)
	repo := cache.NewCacheRepository(rdb)
	ctx := context.Background()
	key := "test:cache:get-set"
	defer rdb.Client().Del(ctx, key)

	t.Run("miss returns nil", func(t *testing.T) {
		val, err := repo.Get(ctx, "test:cache:absent")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, key, []byte("payload"), time.Minute))
		val, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), val)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, key))
		val, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, val)
	})
}

func TestCacheRepository_Table(t *testing.T) {
	rdb := getTestRedis(t)
	repo := cache.NewCacheRepository(rdb)
	ctx := context.Background()
	hash := "test-hash"
	defer rdb.Client().Del(ctx, cache.TableKey(hash))

	tbl := domain.BuildTableFromMaps([]map[string]any{
		{"id": "W_A", "Era": "IronAge", "forge_points": 3.5, "goods": nil},
		{"id": "W_B", "Era": "BronzeAge", "forge_points": 1.0, "goods": 2.0},
	})
	require.NoError(t, repo.SetTable(ctx, hash, tbl, time.Minute))

	got, err := repo.GetTable(ctx, hash)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tbl.ColumnNames(), got.ColumnNames())
	assert.Equal(t, 3.5, got.NumberOr(0, domain.ColForgePoints, 0))
	_, ok := got.Number(0, domain.ColGoods)
	assert.False(t, ok, "missing values survive the round trip")

	t.Run("corrupted entry is a miss", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, cache.TableKey(hash), []byte("{not json"), time.Minute))
		got, err := repo.GetTable(ctx, hash)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestTableKey(t *testing.T) {
	assert.Equal(t, "dataset:table:abc", cache.TableKey("abc"))
}
