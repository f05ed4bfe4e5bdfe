package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/building-analyzer/internal/pkg/errors"
	"github.com/building-analyzer/internal/pkg/validator"
)

// parseAndValidate - разбор JSON тела и валидация DTO
func parseAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "invalid request body",
		})
	}
	return validate(req)
}

// parseQuery - разбор query-параметров и валидация DTO
func parseQuery(c *fiber.Ctx, req interface{}) error {
	if err := c.QueryParser(req); err != nil {
		return apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "invalid query parameters",
		})
	}
	return validate(req)
}

func validate(req interface{}) error {
	if err := validator.Validate(req); err != nil {
		return apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return nil
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
