// Package handlers содержит HTTP-обработчики каталога фильмов.
package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"filmorate/internal/filmorate/domain/entities"
)

// ErrInvalidBody возвращается для тела запроса, которое не удалось разобрать.
var ErrInvalidBody = fmt.Errorf("invalid request body: %w", entities.ErrValidation)

const errMsgSendingResponse = "error sending response"

func pathID(ctx fiber.Ctx, name string) (int64, error) {
	raw := ctx.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", entities.ErrInvalidID, name, raw)
	}
	return id, nil
}

func pathIntID(ctx fiber.Ctx, name string) (int, error) {
	raw := ctx.Params(name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", entities.ErrInvalidID, name, raw)
	}
	return id, nil
}

func bindBody(ctx fiber.Ctx, out any) error {
	if err := ctx.Bind().Body(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

func sendJSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("%s: %w", errMsgSendingResponse, err)
	}
	return nil
}
