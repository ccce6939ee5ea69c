// Package memory содержит реализации хранилищ каталога в памяти процесса.
package memory

import (
	"context"
	"sync/atomic"
)

// Sequence - счетчик идентификаторов в памяти процесса.
type Sequence struct {
	last atomic.Int64
}

// NewSequence создает счетчик, первый выданный идентификатор которого равен 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next никогда не возвращает ошибку.
func (s *Sequence) Next(_ context.Context) (int64, error) {
	return s.last.Add(1), nil
}
