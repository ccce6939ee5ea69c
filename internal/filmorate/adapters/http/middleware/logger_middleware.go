package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"filmorate/pkg/logger"
)

// NewLoggerMiddleware создает новое промежуточное ПО для логирования HTTP запросов.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
			zap.String("ip", ctx.IP()),
		)

		log.Info(requestCtx, "Request started")

		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}

		logFields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}

		switch {
		case err != nil && status >= fiber.StatusInternalServerError:
			log.Error(requestCtx, "Request failed", append(logFields, zap.Error(err))...)
		case err != nil:
			log.Info(requestCtx, "Request rejected", append(logFields, zap.Error(err))...)
		default:
			log.Info(requestCtx, "Request completed", logFields...)
		}

		return err
	}
}
