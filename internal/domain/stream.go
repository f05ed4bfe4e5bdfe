package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamDatasetRefresh = "stream:dataset:refresh"
	StreamDatasetDone    = "stream:dataset:done"
)

// DatasetRefreshEvent - входящий запрос на перезагрузку датасета
type DatasetRefreshEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	// Source - пусто означает источник из конфигурации
	Source string `json:"source,omitempty"`
}

// HasSource проверяет, задан ли явный источник
func (e *DatasetRefreshEvent) HasSource() bool {
	return strings.TrimSpace(e.Source) != ""
}

// DatasetDoneEvent - результат перезагрузки
type DatasetDoneEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Hash      string    `json:"hash,omitempty"`
	Rows      int       `json:"rows"`
	Error     string    `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
