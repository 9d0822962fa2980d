package serverutils

import (
	"errors"

	"smart-notes-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, body := mapError(err)
		return ctx.Status(code).JSON(body)
	}
}

// ErrorHandler is the same mapping as a fiber.Config ErrorHandler, for errors
// raised outside the middleware chain.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code, body := mapError(err)
	return ctx.Status(code).JSON(body)
}

func mapError(err error) (int, BaseResponse[any]) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		resp := ErrorResponse(fiber.StatusBadRequest, "Validation failed")
		resp.Errors = validationErr.Fields
		return fiber.StatusBadRequest, resp
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, ErrorResponse(fiberErr.Code, fiberErr.Message)
	}

	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidInput):
		code = fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrUnavailable):
		code = fiber.StatusServiceUnavailable
	}
	return code, ErrorResponse(code, err.Error())
}
