package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"filmorate/internal/filmorate/domain/entities"
	"filmorate/internal/filmorate/ports/api"
	"filmorate/internal/filmorate/ports/repositories"
	"filmorate/pkg/logger"
)

const (
	methodCreateFilm   = "CreateFilm"
	methodUpdateFilm   = "UpdateFilm"
	methodGetFilm      = "GetFilm"
	methodListFilms    = "ListFilms"
	methodDeleteFilm   = "DeleteFilm"
	methodAddLike      = "AddLike"
	methodDeleteLike   = "DeleteLike"
	methodPopularFilms = "PopularFilms"

	msgInvalidFilm    = "invalid film data"
	msgInvalidCount   = "invalid popular films count"
	msgFilmCreated    = "film created successfully"
	msgFilmUpdated    = "film updated successfully"
	msgFilmDeleted    = "film deleted successfully"
	msgLikeAdded      = "like added successfully"
	msgLikeDeleted    = "like removed successfully"
	msgFilmRequestErr = "film request failed"
	msgFilmStoreErr   = "film store failure"

	errCtxValidatingFilm = "validating film"
	errCtxCreatingFilm   = "creating film"
	errCtxUpdatingFilm   = "updating film"
	errCtxFetchingFilm   = "fetching film"
	errCtxListingFilms   = "listing films"
	errCtxDeletingFilm   = "deleting film"
	errCtxAddingLike     = "adding like"
	errCtxDeletingLike   = "removing like"
	errCtxPopularFilms   = "listing popular films"
)

// FilmUseCaseImpl реализует интерфейс FilmUseCase.
type FilmUseCaseImpl struct {
	filmRepo repositories.FilmRepository
}

// NewFilmUseCase создает новый экземпляр сервиса фильмов.
func NewFilmUseCase(filmRepo repositories.FilmRepository) api.FilmUseCase {
	return &FilmUseCaseImpl{filmRepo: filmRepo}
}

// CreateFilm проверяет и сохраняет новый фильм.
func (f *FilmUseCaseImpl) CreateFilm(ctx context.Context, film *entities.Film) (*entities.Film, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateFilm), zap.String("name", film.Name))

	if err := validateFilm(film); err != nil {
		log.Debug(ctx, msgInvalidFilm, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingFilm, err)
	}

	created, err := f.filmRepo.Create(ctx, film)
	if err != nil {
		logFailure(ctx, log, msgFilmRequestErr, msgFilmStoreErr, err)
		return nil, fmt.Errorf("%s: %w", errCtxCreatingFilm, err)
	}

	log.Info(ctx, msgFilmCreated, zap.Int64("id", created.ID))
	return created, nil
}

// UpdateFilm проверяет и заменяет данные фильма.
func (f *FilmUseCaseImpl) UpdateFilm(ctx context.Context, film *entities.Film) (*entities.Film, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateFilm), zap.Int64("id", film.ID))

	if err := validateFilm(film); err != nil {
		log.Debug(ctx, msgInvalidFilm, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingFilm, err)
	}

	updated, err := f.filmRepo.Update(ctx, film)
	if err != nil {
		logFailure(ctx, log, msgFilmRequestErr, msgFilmStoreErr, err)
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingFilm, err)
	}

	log.Info(ctx, msgFilmUpdated)
	return updated, nil
}

// GetFilm возвращает фильм по ID.
func (f *FilmUseCaseImpl) GetFilm(ctx context.Context, id int64) (*entities.Film, error) {
	film, err := f.filmRepo.FindByID(ctx, id)
	if err != nil {
		log := logger.Log(ctx).With(zap.String("method", methodGetFilm), zap.Int64("id", id))
		logFailure(ctx, log, msgFilmRequestErr, msgFilmStoreErr, err)
		return nil, fmt.Errorf("%s: %w", errCtxFetchingFilm, err)
	}
	return film, nil
}

// ListFilms возвращает все фильмы.
func (f *FilmUseCaseImpl) ListFilms(ctx context.Context) ([]*entities.Film, error) {
	films, err := f.filmRepo.FindAll(ctx)
	if err != nil {
		logger.Log(ctx).With(zap.String("method", methodListFilms)).Error(ctx, msgFilmStoreErr, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingFilms, err)
	}
	return films, nil
}

// DeleteFilm удаляет фильм вместе с его жанрами и лайками.
func (f *FilmUseCaseImpl) DeleteFilm(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteFilm), zap.Int64("id", id))

	if err := f.filmRepo.Delete(ctx, id); err != nil {
		logFailure(ctx, log, msgFilmRequestErr, msgFilmStoreErr, err)
		return fmt.Errorf("%s: %w", errCtxDeletingFilm, err)
	}

	log.Info(ctx, msgFilmDeleted)
	return nil
}

// AddLike добавляет лайк пользователя фильму.
func (f *FilmUseCaseImpl) AddLike(ctx context.Context, filmID, userID int64) error {
	log := logger.Log(ctx).With(zap.String("method", methodAddLike), zap.Int64("film_id", filmID), zap.Int64("user_id", userID))

	if err := f.filmRepo.AddLike(ctx, filmID, userID); err != nil {
		logFailure(ctx, log, msgFilmRequestErr, msgFilmStoreErr, err)
		return fmt.Errorf("%s: %w", errCtxAddingLike, err)
	}

	log.Info(ctx, msgLikeAdded)
	return nil
}

// DeleteLike снимает лайк пользователя.
func (f *FilmUseCaseImpl) DeleteLike(ctx context.Context, filmID, userID int64) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteLike), zap.Int64("film_id", filmID), zap.Int64("user_id", userID))

	if err := f.filmRepo.DeleteLike(ctx, filmID, userID); err != nil {
		logFailure(ctx, log, msgFilmRequestErr, msgFilmStoreErr, err)
		return fmt.Errorf("%s: %w", errCtxDeletingLike, err)
	}

	log.Info(ctx, msgLikeDeleted)
	return nil
}

// PopularFilms возвращает не более count самых популярных фильмов.
func (f *FilmUseCaseImpl) PopularFilms(ctx context.Context, count int) ([]*entities.Film, error) {
	log := logger.Log(ctx).With(zap.String("method", methodPopularFilms), zap.Int("count", count))

	if count <= 0 {
		log.Debug(ctx, msgInvalidCount)
		return nil, fmt.Errorf("%s: %w", errCtxPopularFilms, entities.ErrInvalidCount)
	}

	films, err := f.filmRepo.Popular(ctx, count)
	if err != nil {
		logFailure(ctx, log, msgFilmRequestErr, msgFilmStoreErr, err)
		return nil, fmt.Errorf("%s: %w", errCtxPopularFilms, err)
	}
	return films, nil
}
