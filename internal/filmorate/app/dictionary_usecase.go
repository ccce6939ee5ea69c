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
	methodListGenres = "ListGenres"
	methodGetGenre   = "GetGenre"
	methodListMpa    = "ListMpa"
	methodGetMpa     = "GetMpa"

	msgDictionaryRequestErr = "dictionary request failed"
	msgDictionaryStoreErr   = "dictionary store failure"

	errCtxListingGenres = "listing genres"
	errCtxFetchingGenre = "fetching genre"
	errCtxListingMpa    = "listing mpa ratings"
	errCtxFetchingMpa   = "fetching mpa rating"
)

// DictionaryUseCaseImpl реализует интерфейс DictionaryUseCase.
type DictionaryUseCaseImpl struct {
	genreRepo repositories.GenreRepository
	mpaRepo   repositories.MpaRepository
}

// NewDictionaryUseCase создает сервис справочников.
func NewDictionaryUseCase(genreRepo repositories.GenreRepository, mpaRepo repositories.MpaRepository) api.DictionaryUseCase {
	return &DictionaryUseCaseImpl{
		genreRepo: genreRepo,
		mpaRepo:   mpaRepo,
	}
}

func (d *DictionaryUseCaseImpl) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	genres, err := d.genreRepo.FindAll(ctx)
	if err != nil {
		logger.Log(ctx).With(zap.String("method", methodListGenres)).Error(ctx, msgDictionaryStoreErr, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingGenres, err)
	}
	return genres, nil
}

func (d *DictionaryUseCaseImpl) GetGenre(ctx context.Context, id int) (entities.Genre, error) {
	genre, err := d.genreRepo.FindByID(ctx, id)
	if err != nil {
		log := logger.Log(ctx).With(zap.String("method", methodGetGenre), zap.Int("id", id))
		logFailure(ctx, log, msgDictionaryRequestErr, msgDictionaryStoreErr, err)
		return entities.Genre{}, fmt.Errorf("%s: %w", errCtxFetchingGenre, err)
	}
	return genre, nil
}

func (d *DictionaryUseCaseImpl) ListMpa(ctx context.Context) ([]entities.Mpa, error) {
	ratings, err := d.mpaRepo.FindAll(ctx)
	if err != nil {
		logger.Log(ctx).With(zap.String("method", methodListMpa)).Error(ctx, msgDictionaryStoreErr, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingMpa, err)
	}
	return ratings, nil
}

func (d *DictionaryUseCaseImpl) GetMpa(ctx context.Context, id int) (entities.Mpa, error) {
	mpa, err := d.mpaRepo.FindByID(ctx, id)
	if err != nil {
		log := logger.Log(ctx).With(zap.String("method", methodGetMpa), zap.Int("id", id))
		logFailure(ctx, log, msgDictionaryRequestErr, msgDictionaryStoreErr, err)
		return entities.Mpa{}, fmt.Errorf("%s: %w", errCtxFetchingMpa, err)
	}
	return mpa, nil
}
