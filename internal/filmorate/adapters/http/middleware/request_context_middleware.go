// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"filmorate/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

const localsRequestContext = "requestContext"

// NewRequestContextMiddleware связывает с запросом контекст, содержащий
// идентификатор запроса и logger. Поле request_id logger добавляет сам.
// Недопустимый X-Request-ID заменяется сгенерированным.
func NewRequestContextMiddleware(base *logger.Logger) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), ctx.Get(HeaderRequestID))
		requestCtx = logger.NewContext(requestCtx, base)
		requestID, _ := logger.GetRequestID(requestCtx)

		ctx.Locals(localsRequestContext, requestCtx)
		ctx.Set(HeaderRequestID, requestID)

		return ctx.Next()
	}
}

// RequestContext возвращает контекст запроса, подготовленный NewRequestContextMiddleware.
func RequestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(localsRequestContext).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}
