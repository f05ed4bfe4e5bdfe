// Package objectstore читает документ зданий из S3.
package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/config"
	"github.com/building-analyzer/internal/domain/repository"
)

// GetObjectAPI - часть клиента S3, которая нам нужна
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3Repository struct {
	api    GetObjectAPI
	logger *zap.Logger
}

// NewS3Repository создаёт клиент из стандартной цепочки учётных данных AWS
func NewS3Repository(ctx context.Context, cfg *config.AWSConfig, logger *zap.Logger) (repository.ObjectRepository, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3RepositoryWithAPI(s3.NewFromConfig(awsCfg), logger), nil
}

// NewS3RepositoryWithAPI - для тестов и своих клиентов
func NewS3RepositoryWithAPI(api GetObjectAPI, logger *zap.Logger) repository.ObjectRepository {
	return &s3Repository{api: api, logger: logger}
}

func (r *s3Repository) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := r.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		r.logger.Error("Failed to get S3 object",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s/%s: %w", bucket, key, err)
	}

	r.logger.Info("S3 object fetched",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return data, nil
}
