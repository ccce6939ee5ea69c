// Package repositories определяет интерфейсы хранилищ каталога.
package repositories

import "context"

// Sequence выдает уникальные строго возрастающие идентификаторы, начиная с 1.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}
