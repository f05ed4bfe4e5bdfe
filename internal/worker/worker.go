package worker

import (
	"context"
)

// Worker - фоновый обработчик стрима
type Worker interface {
	// Start блокируется до остановки воркера или отмены контекста
	Start(ctx context.Context) error

	// Stop просит воркер завершиться, повторный вызов безопасен
	Stop() error

	Name() string
}
