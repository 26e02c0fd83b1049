package serverutils

import (
	"errors"

	"aia-campus-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping the handlers into the
// standard response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		case errors.Is(err, ErrNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, ErrForbidden):
			code = fiber.StatusForbidden
		case errors.Is(err, ErrConflict):
			code = fiber.StatusConflict
		case errors.Is(err, rag.ErrSafetyBlocked):
			// Rephrasing helps here, retrying later does not.
			code = fiber.StatusUnprocessableEntity
		case errors.Is(err, rag.ErrUnavailable):
			code = fiber.StatusBadGateway
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
