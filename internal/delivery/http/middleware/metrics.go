package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/building-analyzer/internal/pkg/metrics"
)

// Metrics - счётчик и гистограмма запросов по шаблону маршрута
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		m.ObserveRequest(c.Route().Path, status, time.Since(start))
		return err
	}
}
