package resilience

import (
	"context"

	"go.uber.org/zap"

	"filmorate/pkg/logger"
)

// LogGuardedOperation - сообщение о запуске защищенной операции.
const LogGuardedOperation = "executing guarded operation"

// Guard объединяет Circuit Breaker и повторные попытки для одного ресурса.
type Guard struct {
	name           string
	circuitBreaker *CircuitBreaker
	retry          *Retry
}

// NewGuard создает обертку отказоустойчивости для ресурса name.
func NewGuard(name string, breaker CircuitBreakerConfig, retry RetryConfig) *Guard {
	return &Guard{
		name:           name,
		circuitBreaker: NewCircuitBreaker(name, breaker),
		retry:          NewRetry(name, retry),
	}
}

// Execute выполняет операцию. Повторы выполняются внутри одного разрешения
// Circuit Breaker: серия неудачных попыток учитывается как одна ошибка.
func (g *Guard) Execute(ctx context.Context, operation string, fn func() error) error {
	logger.Log(ctx).With(
		zap.String("resource", g.name),
		zap.String("operation", operation),
	).Debug(ctx, LogGuardedOperation)

	return g.circuitBreaker.Execute(ctx, func() error {
		return g.retry.Execute(ctx, fn)
	})
}

// State возвращает состояние Circuit Breaker ресурса.
func (g *Guard) State() CircuitState {
	return g.circuitBreaker.State()
}
