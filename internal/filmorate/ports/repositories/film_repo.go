package repositories

import (
	"context"

	"filmorate/internal/filmorate/domain/entities"
)

// FilmRepository хранит фильмы, их жанры и лайки.
type FilmRepository interface {
	Create(ctx context.Context, film *entities.Film) (*entities.Film, error)

	Update(ctx context.Context, film *entities.Film) (*entities.Film, error)

	FindByID(ctx context.Context, id int64) (*entities.Film, error)

	FindAll(ctx context.Context) ([]*entities.Film, error)

	Exists(ctx context.Context, id int64) (bool, error)

	Delete(ctx context.Context, id int64) error

	AddLike(ctx context.Context, filmID, userID int64) error

	// DeleteLike не считает ошибкой отсутствие пользователя или лайка.
	DeleteLike(ctx context.Context, filmID, userID int64) error

	// Popular возвращает не более count фильмов по убыванию числа лайков,
	// при равенстве - по убыванию id.
	Popular(ctx context.Context, count int) ([]*entities.Film, error)
}
