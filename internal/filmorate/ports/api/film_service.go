package api

import (
	"context"

	"filmorate/internal/filmorate/domain/entities"
)

// FilmUseCase определяет операции над фильмами и лайками.
type FilmUseCase interface {
	CreateFilm(ctx context.Context, film *entities.Film) (*entities.Film, error)
	UpdateFilm(ctx context.Context, film *entities.Film) (*entities.Film, error)
	GetFilm(ctx context.Context, id int64) (*entities.Film, error)
	ListFilms(ctx context.Context) ([]*entities.Film, error)
	DeleteFilm(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	DeleteLike(ctx context.Context, filmID, userID int64) error
	PopularFilms(ctx context.Context, count int) ([]*entities.Film, error)
}
