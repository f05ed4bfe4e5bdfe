// Package scoring считает Total Score и Weighted Efficiency зданий.
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/building-analyzer/internal/domain"
)

// ErrUnknownMode - неизвестный режим расчёта
var ErrUnknownMode = errors.New("unknown scoring mode")

// Strategy - режим расчёта эффективности
type Strategy interface {
	Mode() domain.ScoringMode
	Score(t *domain.Table, in domain.ScoringInput) *domain.Table
}

// ParseMode разбирает режим; пустая строка означает direct
func ParseMode(s string) (domain.ScoringMode, error) {
	switch domain.ScoringMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", domain.ScoringModeDirect:
		return domain.ScoringModeDirect, nil
	case domain.ScoringModeLegacy:
		return domain.ScoringModeLegacy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// NewStrategy возвращает стратегию для режима. Legacy нужны статистика
// эпох и выбранная эпоха.
func NewStrategy(mode domain.ScoringMode, stats domain.EraStats, era string) (Strategy, error) {
	switch mode {
	case domain.ScoringModeDirect, "":
		return Direct{}, nil
	case domain.ScoringModeLegacy:
		return Legacy{Stats: stats, Era: era}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
