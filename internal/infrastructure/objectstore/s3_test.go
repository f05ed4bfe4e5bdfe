package objectstore_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/infrastructure/objectstore"
)

type MockS3 struct {
	mock.Mock
}

func (m *MockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, aws.ToString(params.Bucket), aws.ToString(params.Key))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestS3Repository_GetObject(t *testing.T) {
	ctx := context.Background()

	t.Run("reads body", func(t *testing.T) {
		api := new(MockS3)
		api.On("GetObject", ctx, "foe", "meta.json").Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader(`[]`)),
		}, nil)

		data, err := objectstore.NewS3RepositoryWithAPI(api, zap.NewNop()).GetObject(ctx, "foe", "meta.json")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
		api.AssertExpectations(t)
	})

	t.Run("wraps errors", func(t *testing.T) {
		api := new(MockS3)
		api.On("GetObject", ctx, "foe", "absent.json").Return(nil, errors.New("NoSuchKey"))

		_, err := objectstore.NewS3RepositoryWithAPI(api, zap.NewNop()).GetObject(ctx, "foe", "absent.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "foe/absent.json")
	})
}
