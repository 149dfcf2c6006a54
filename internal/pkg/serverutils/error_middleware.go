package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"catalog-chat-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware converts handler errors into the fixed JSON
// error shapes: validation failures become a 400 with a descriptive
// message, everything else a 500 with a generic one. Upstream detail
// only reaches the server log, tagged with a request id.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": vErr.Error(),
			})
		}

		requestId := uuid.NewString()
		if log != nil {
			log.Error("http", "Request failed", map[string]interface{}{
				"request_id": requestId,
				"method":     ctx.Method(),
				"path":       ctx.Path(),
				"error":      err.Error(),
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error al procesar la solicitud",
		})
	}
}
