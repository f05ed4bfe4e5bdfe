package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/domain/repository"
)

const (
	defaultBlock = time.Second
	batchSize    = 10
	dataField    = "data"
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
	block  time.Duration
}

// NewStreamRepository создает StreamRepository. block - сколько XReadGroup
// ждёт новых сообщений, 0 означает одну секунду.
func NewStreamRepository(client *redis.Client, block time.Duration, logger *zap.Logger) repository.StreamRepository {
	if block <= 0 {
		block = defaultBlock
	}
	return &streamRepository{
		client: client,
		logger: logger,
		block:  block,
	}
}

// CreateConsumerGroup создаёт группу с позиции "$", стрим создаётся при необходимости
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	switch {
	case err == nil:
		r.logger.Info("Consumer group created",
			zap.String("stream", stream),
			zap.String("group", group))
		return nil
	case strings.HasPrefix(err.Error(), "BUSYGROUP"):
		r.logger.Debug("Consumer group already exists",
			zap.String("stream", stream),
			zap.String("group", group))
		return nil
	default:
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
}

// ConsumeStream читает новые сообщения группы в канал.
// Канал закрывается при отмене контекста.
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	out := make(chan domain.StreamMessage, batchSize)

	go func() {
		defer close(out)
		defer r.logger.Info("Stream consumer stopped",
			zap.String("stream", stream),
			zap.String("consumer", consumer))

		for ctx.Err() == nil {
			streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, ">"},
				Count:    batchSize,
				Block:    r.block,
			}).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || ctx.Err() != nil {
					continue
				}
				r.logger.Error("Failed to read from stream",
					zap.String("stream", stream),
					zap.Error(err))
				if !sleep(ctx, r.block) {
					return
				}
				continue
			}

			for _, s := range streams {
				for _, msg := range s.Messages {
					data, ok := msg.Values[dataField].(string)
					if !ok {
						r.logger.Warn("Message without data field, acknowledging",
							zap.String("stream", stream),
							zap.String("message_id", msg.ID))
						_ = r.AckMessage(ctx, stream, group, msg.ID)
						continue
					}
					select {
					case out <- domain.StreamMessage{ID: msg.ID, Data: data}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out, nil
}

// AckMessage подтверждает обработку сообщения
func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	if err := r.client.XAck(ctx, stream, group, messageID).Err(); err != nil {
		r.logger.Error("Failed to acknowledge message",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}
	return nil
}

// PublishToStream кладёт JSON в поле data
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{dataField: string(payload)},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return "", fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published",
		zap.String("stream", stream),
		zap.String("message_id", id))
	return id, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
