package serverutils

import (
	"errors"

	"dce-cancel-be/internal/pkg/apperror"
	"dce-cancel-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates typed pipeline errors into HTTP outcomes.
// Unrecognized errors become a sanitized 500; their detail goes to the
// structured log only.
func ErrorHandlerMiddleware(sysLogger logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *apperror.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(
				ErrorResponse(fiber.StatusBadRequest, "validation failed", validationErr.Violations...))
		}

		var authErr *apperror.AuthorizationError
		if errors.As(err, &authErr) {
			return ctx.Status(fiber.StatusForbidden).JSON(
				ErrorResponse(fiber.StatusForbidden, authErr.Message))
		}

		var depErr *apperror.DependencyError
		if errors.As(err, &depErr) {
			sysLogger.Error("http", "Dependency failure", map[string]interface{}{
				"op":    depErr.Op,
				"error": depErr.Err.Error(),
			})
			return ctx.Status(fiber.StatusBadGateway).JSON(
				ErrorResponse(fiber.StatusBadGateway, "failed to dispatch cancellation event"))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		sysLogger.Error("http", "Unexpected error", map[string]interface{}{
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
	}
}
