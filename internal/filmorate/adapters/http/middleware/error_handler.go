package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"filmorate/internal/filmorate/domain/entities"
)

const msgInternalError = "Internal Server Error"

// StatusFor сопоставляет ошибку с кодом HTTP ответа.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, entities.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, entities.ErrValidation):
		return fiber.StatusBadRequest
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler - обработчик ошибок приложения fiber.
// Внутренние ошибки не раскрываются клиенту.
func ErrorHandler(ctx fiber.Ctx, err error) error {
	status := StatusFor(err)
	message := err.Error()
	if status >= fiber.StatusInternalServerError {
		message = msgInternalError
	}
	return ctx.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
