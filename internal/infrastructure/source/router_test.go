package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/infrastructure/source"
)

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Download(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockObjects struct {
	mock.Mock
}

func (m *MockObjects) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestRouter_Fetch(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("http goes to remote", func(t *testing.T) {
		remote := new(MockRemote)
		remote.On("Download", ctx, "https://example.com/meta.json").Return([]byte("[]"), nil)

		data, err := source.NewRouter(remote, nil, logger).Fetch(ctx, " https://example.com/meta.json ")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
		remote.AssertExpectations(t)
	})

	t.Run("s3 goes to object store", func(t *testing.T) {
		objects := new(MockObjects)
		objects.On("GetObject", ctx, "foe-data", "dumps/meta.json").Return([]byte("[1]"), nil)

		data, err := source.NewRouter(nil, objects, logger).Fetch(ctx, "s3://foe-data/dumps/meta.json")
		require.NoError(t, err)
		assert.Equal(t, "[1]", string(data))
		objects.AssertExpectations(t)
	})

	t.Run("local file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "meta.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":"W_A"}]`), 0o600))

		data, err := source.NewRouter(nil, nil, logger).Fetch(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"W_A"}]`, string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := source.NewRouter(nil, nil, logger).Fetch(ctx, filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty location", func(t *testing.T) {
		_, err := source.NewRouter(nil, nil, logger).Fetch(ctx, "  ")
		assert.ErrorIs(t, err, source.ErrEmptyLocation)
	})

	t.Run("scheme without client", func(t *testing.T) {
		_, err := source.NewRouter(nil, nil, logger).Fetch(ctx, "s3://bucket/key")
		assert.ErrorIs(t, err, source.ErrUnsupported)
	})
}

func TestParseS3(t *testing.T) {
	bucket, key, err := source.ParseS3("s3://bucket/a/b.json")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "a/b.json", key)

	_, _, err = source.ParseS3("s3://bucket")
	assert.Error(t, err)
	_, _, err = source.ParseS3("s3:///key")
	assert.Error(t, err)
}
