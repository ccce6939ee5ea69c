package memory

import (
	"context"

	"filmorate/internal/filmorate/ports/repositories"
)

// RepositoryFactory создает связанные между собой хранилища в памяти процесса.
type RepositoryFactory struct {
	userRepo  *UserRepository
	filmRepo  *FilmRepository
	genreRepo repositories.GenreRepository
	mpaRepo   repositories.MpaRepository
}

// NewRepositoryFactory создает хранилища. nil вместо последовательности
// означает отдельный счетчик в памяти для каждого хранилища.
func NewRepositoryFactory(userSeq, filmSeq repositories.Sequence) *RepositoryFactory {
	genres := NewGenreRepository()
	mpa := NewMpaRepository()
	users := NewUserRepository(userSeq)
	films := NewFilmRepository(filmSeq, users, genres, mpa)

	users.OnDelete(func(ctx context.Context, userID int64) {
		films.RemoveUserLikes(ctx, userID)
	})

	return &RepositoryFactory{
		userRepo:  users,
		filmRepo:  films,
		genreRepo: genres,
		mpaRepo:   mpa,
	}
}

// UserRepository возвращает хранилище пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}

// FilmRepository возвращает хранилище фильмов.
func (f *RepositoryFactory) FilmRepository() repositories.FilmRepository {
	return f.filmRepo
}

// GenreRepository возвращает справочник жанров.
func (f *RepositoryFactory) GenreRepository() repositories.GenreRepository {
	return f.genreRepo
}

// MpaRepository возвращает справочник рейтингов.
func (f *RepositoryFactory) MpaRepository() repositories.MpaRepository {
	return f.mpaRepo
}
