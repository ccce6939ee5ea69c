package repositories

import (
	"context"

	"filmorate/internal/filmorate/domain/entities"
)

// GenreRepository - справочник жанров только для чтения.
type GenreRepository interface {
	FindAll(ctx context.Context) ([]entities.Genre, error)
	FindByID(ctx context.Context, id int) (entities.Genre, error)
}

// MpaRepository - справочник рейтингов MPA только для чтения.
type MpaRepository interface {
	FindAll(ctx context.Context) ([]entities.Mpa, error)
	FindByID(ctx context.Context, id int) (entities.Mpa, error)
}
