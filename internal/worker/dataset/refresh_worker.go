package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/building-analyzer/internal/domain"
	"github.com/building-analyzer/internal/domain/repository"
	"github.com/building-analyzer/internal/worker"
)

const defaultRetryDelay = time.Second

// Loader загружает датасет по расположению, пусто - источник из конфигурации
type Loader interface {
	Load(ctx context.Context, source string) (*domain.Dataset, error)
}

// RefreshOptions - параметры воркера перезагрузки
type RefreshOptions struct {
	ConsumerGroup string
	MaxRetries    int
	// RetryDelay умножается на номер попытки
	RetryDelay time.Duration
}

// RefreshWorker читает stream:dataset:refresh, перезагружает датасет и
// публикует результат в stream:dataset:done
type RefreshWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	loader     Loader
	maxRetries int
	retryDelay time.Duration
}

// NewRefreshWorker создает новый RefreshWorker
func NewRefreshWorker(
	streamRepo repository.StreamRepository,
	loader Loader,
	opts RefreshOptions,
	logger *zap.Logger,
) *RefreshWorker {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}

	return &RefreshWorker{
		BaseWorker: worker.NewBaseWorker("dataset-refresh", opts.ConsumerGroup, logger),
		streamRepo: streamRepo,
		loader:     loader,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
	}
}

// Start обрабатывает сообщения по одному до Stop или отмены контекста
func (w *RefreshWorker) Start(ctx context.Context) error {
	ctx, cancel := w.RunContext(ctx)
	defer cancel()

	logger := w.Logger()
	logger.Info("Starting dataset refresh worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("max_retries", w.maxRetries))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamDatasetRefresh, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamDatasetRefresh, w.ConsumerGroup(), w.ConsumerName())
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			if w.IsStopped() {
				return nil
			}
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				logger.Info("Refresh stream closed")
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *RefreshWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	// 1. Разбор события
	var event domain.DatasetRefreshEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse refresh event, skipping", zap.Error(err))
		w.ack(ctx, msg.ID)
		return
	}

	// 2. Перезагрузка
	done := w.refresh(ctx, &event)
	if ctx.Err() != nil {
		// без ack: сообщение останется в pending группы
		return
	}

	// 3. Результат и подтверждение
	if _, err := w.streamRepo.PublishToStream(ctx, domain.StreamDatasetDone, done); err != nil {
		logger.Error("Failed to publish done event",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
	}
	w.ack(ctx, msg.ID)
}

func (w *RefreshWorker) refresh(ctx context.Context, event *domain.DatasetRefreshEvent) *domain.DatasetDoneEvent {
	logger := w.Logger().With(
		zap.String("request_id", event.RequestID.String()),
		zap.String("source", event.Source))

	done := &domain.DatasetDoneEvent{RequestID: event.RequestID}

	var lastErr error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		ds, err := w.loader.Load(ctx, event.Source)
		if err == nil {
			done.Hash = ds.Hash
			done.Rows = ds.Table.Len()
			logger.Info("Dataset refreshed",
				zap.String("hash", ds.Hash),
				zap.Int("rows", done.Rows),
				zap.Int("attempt", attempt))
			return done
		}

		lastErr = err
		logger.Warn("Dataset refresh attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < w.maxRetries && !w.wait(ctx, time.Duration(attempt)*w.retryDelay) {
			break
		}
	}

	done.Error = lastErr.Error()
	return done
}

func (w *RefreshWorker) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (w *RefreshWorker) ack(ctx context.Context, id string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamDatasetRefresh, w.ConsumerGroup(), id); err != nil {
		w.Logger().Warn("Failed to ack refresh event", zap.String("message_id", id), zap.Error(err))
	}
}
