package api

import (
	"context"

	"filmorate/internal/filmorate/domain/entities"
)

// DictionaryUseCase предоставляет доступ к справочникам жанров и рейтингов.
type DictionaryUseCase interface {
	ListGenres(ctx context.Context) ([]entities.Genre, error)
	GetGenre(ctx context.Context, id int) (entities.Genre, error)
	ListMpa(ctx context.Context) ([]entities.Mpa, error)
	GetMpa(ctx context.Context, id int) (entities.Mpa, error)
}
