package serverutils

import (
	"errors"

	"hybrid-search-be/internal/repository/contract"
	"hybrid-search-be/pkg/embedding"
	"hybrid-search-be/pkg/search"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandlerMiddleware converts errors bubbled out of handlers into the
// standard envelope with an appropriate status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := err.Error()

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.Is(err, search.ErrSearchUnavailable):
			code = fiber.StatusServiceUnavailable
		case errors.Is(err, contract.ErrDimensionMismatch):
			code = fiber.StatusUnprocessableEntity
		case errors.Is(err, embedding.ErrEmbeddingFailure):
			code = fiber.StatusBadGateway
		case errors.Is(err, gorm.ErrRecordNotFound):
			code = fiber.StatusNotFound
			message = "record not found"
		}

		return c.Status(code).JSON(ErrorResponse(code, message))
	}
}
