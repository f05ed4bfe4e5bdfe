// Package source выбирает, откуда читать документ зданий, по схеме адреса.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain/repository"
)

// ErrEmptyLocation - источник не задан
var ErrEmptyLocation = errors.New("dataset source is empty")

// ErrUnsupported - схема есть, но клиента для неё нет
var ErrUnsupported = errors.New("unsupported dataset source")

type router struct {
	remote  repository.RemoteRepository
	objects repository.ObjectRepository
	logger  *zap.Logger
}

// NewRouter собирает SourceRepository. remote и objects могут быть nil,
// тогда соответствующие схемы недоступны.
func NewRouter(remote repository.RemoteRepository, objects repository.ObjectRepository, logger *zap.Logger) repository.SourceRepository {
	return &router{remote: remote, objects: objects, logger: logger}
}

func (r *router) Fetch(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		if r.remote == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, location)
		}
		return r.remote.Download(ctx, location)

	case strings.HasPrefix(location, "s3://"):
		if r.objects == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, location)
		}
		bucket, key, err := ParseS3(location)
		if err != nil {
			return nil, err
		}
		return r.objects.GetObject(ctx, bucket, key)

	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("read dataset file: %w", err)
		}
		r.logger.Debug("Dataset file read", zap.String("path", location), zap.Int("bytes", len(data)))
		return data, nil
	}
}

// ParseS3 разбирает s3://bucket/key
func ParseS3(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 location %q: %w", location, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
	}
	return u.Host, key, nil
}
