// Package redis содержит генератор идентификаторов на основе Redis,
// который позволяет нескольким экземплярам сервиса делить одно пространство идентификаторов.
package redis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"filmorate/pkg/logger"
	"filmorate/pkg/resilience"
)

// Константы для логирования.
const (
	KeyPrefix = "filmorate:sequence:"

	ErrorFailedToIncrement = "failed to increment sequence in redis"
)

// Incrementer атомарно увеличивает счетчик по ключу.
type Incrementer interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// Sequence выдает идентификаторы командой INCR.
type Sequence struct {
	client Incrementer
	key    string
	guard  *resilience.Guard
}

// Option настраивает Sequence.
type Option func(*Sequence)

// WithGuard выполняет INCR под защитой повторов и Circuit Breaker.
// Повтор после потерянного ответа может пропустить идентификатор, но не выдать его дважды.
func WithGuard(guard *resilience.Guard) Option {
	return func(s *Sequence) {
		s.guard = guard
	}
}

// NewSequence создает последовательность для сущности name, например "users".
func NewSequence(client Incrementer, name string, opts ...Option) *Sequence {
	s := &Sequence{
		client: client,
		key:    KeyPrefix + name,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key возвращает ключ счетчика в Redis.
func (s *Sequence) Key() string {
	return s.key
}

// Next возвращает следующий идентификатор.
func (s *Sequence) Next(ctx context.Context) (int64, error) {
	var id int64
	incr := func() error {
		var err error
		id, err = s.client.Incr(ctx, s.key)
		return err
	}

	var err error
	if s.guard != nil {
		err = s.guard.Execute(ctx, "Incr", incr)
	} else {
		err = incr()
	}
	if err != nil {
		logger.Log(ctx).With(zap.String("method", "Next"), zap.String("key", s.key)).
			Error(ctx, ErrorFailedToIncrement, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrorFailedToIncrement, err)
	}
	return id, nil
}
