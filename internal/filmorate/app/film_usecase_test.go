package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filmorate/internal/filmorate/app"
	"filmorate/internal/filmorate/domain/entities"
)

func validFilm() *entities.Film {
	return &entities.Film{
		Name:        "nisi eiusmod",
		Description: "adipisicing",
		ReleaseDate: time.Date(1967, 3, 25, 0, 0, 0, 0, time.UTC),
		Duration:    100,
		Mpa:         &entities.Mpa{ID: 1},
	}
}

func TestCreateFilmValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(f *entities.Film)
		expectedErr error
	}{
		{
			name:        "empty name",
			mutate:      func(f *entities.Film) { f.Name = "" },
			expectedErr: entities.ErrEmptyFilmName,
		},
		{
			name:        "blank name",
			mutate:      func(f *entities.Film) { f.Name = "  \t" },
			expectedErr: entities.ErrEmptyFilmName,
		},
		{
			name:        "description longer than 200 characters",
			mutate:      func(f *entities.Film) { f.Description = strings.Repeat("я", app.MaxDescriptionLength+1) },
			expectedErr: entities.ErrDescriptionTooLong,
		},
		{
			name:        "release before the first screening",
			mutate:      func(f *entities.Film) { f.ReleaseDate = time.Date(1895, 12, 27, 0, 0, 0, 0, time.UTC) },
			expectedErr: entities.ErrReleaseTooEarly,
		},
		{
			name:        "zero duration",
			mutate:      func(f *entities.Film) { f.Duration = 0 },
			expectedErr: entities.ErrInvalidDuration,
		},
		{
			name:        "negative duration",
			mutate:      func(f *entities.Film) { f.Duration = -200 },
			expectedErr: entities.ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockFilmRepository)
			useCase := app.NewFilmUseCase(repo)

			film := validFilm()
			tt.mutate(film)

			created, err := useCase.CreateFilm(context.Background(), film)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.ErrorIs(t, err, entities.ErrValidation)
			assert.Contains(t, err.Error(), "validating film")
			assert.Nil(t, created)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateFilmBoundaries(t *testing.T) {
	repo := new(mockFilmRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Film")).
		Return(&entities.Film{ID: 1}, nil).Twice()
	useCase := app.NewFilmUseCase(repo)

	film := validFilm()
	film.Description = strings.Repeat("я", app.MaxDescriptionLength)
	film.ReleaseDate = app.FirstFilmRelease
	_, err := useCase.CreateFilm(context.Background(), film)
	require.NoError(t, err)

	film = validFilm()
	film.Duration = 1
	_, err = useCase.CreateFilm(context.Background(), film)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestCreateFilmRepositoryErrors(t *testing.T) {
	tests := []struct {
		name        string
		repoErr     error
		expectedErr error
	}{
		{name: "duplicate film", repoErr: entities.ErrFilmExists, expectedErr: entities.ErrConflict},
		{name: "unknown mpa", repoErr: entities.MpaNotFound(999), expectedErr: entities.ErrMpaNotFound},
		{name: "unknown genre", repoErr: entities.GenreNotFound(999), expectedErr: entities.ErrGenreNotFound},
		{name: "database failure", repoErr: errDatabase, expectedErr: errDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockFilmRepository)
			repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Film")).Return(nil, tt.repoErr).Once()

			_, err := app.NewFilmUseCase(repo).CreateFilm(context.Background(), validFilm())
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Contains(t, err.Error(), "creating film")
			repo.AssertExpectations(t)
		})
	}
}

func TestUpdateFilm(t *testing.T) {
	ctx := context.Background()

	t.Run("Success case - film updated", func(t *testing.T) {
		repo := new(mockFilmRepository)
		film := validFilm()
		film.ID = 1
		repo.On("Update", mock.Anything, film).Return(film, nil).Once()

		updated, err := app.NewFilmUseCase(repo).UpdateFilm(ctx, film)
		require.NoError(t, err)
		assert.Equal(t, film, updated)
		repo.AssertExpectations(t)
	})

	t.Run("Error case - film not found", func(t *testing.T) {
		repo := new(mockFilmRepository)
		film := validFilm()
		film.ID = 9999
		repo.On("Update", mock.Anything, film).Return(nil, entities.FilmNotFound(9999)).Once()

		_, err := app.NewFilmUseCase(repo).UpdateFilm(ctx, film)
		assert.ErrorIs(t, err, entities.ErrFilmNotFound)
		assert.Contains(t, err.Error(), "updating film")
	})

	t.Run("Error case - invalid film", func(t *testing.T) {
		repo := new(mockFilmRepository)
		film := validFilm()
		film.ID = 1
		film.Duration = 0

		_, err := app.NewFilmUseCase(repo).UpdateFilm(ctx, film)
		assert.ErrorIs(t, err, entities.ErrInvalidDuration)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestGetListDeleteFilm(t *testing.T) {
	ctx := context.Background()
	repo := new(mockFilmRepository)
	useCase := app.NewFilmUseCase(repo)

	stored := validFilm()
	stored.ID = 1
	repo.On("FindByID", mock.Anything, int64(1)).Return(stored, nil).Once()
	repo.On("FindByID", mock.Anything, int64(2)).Return(nil, entities.FilmNotFound(2)).Once()
	repo.On("FindAll", mock.Anything).Return([]*entities.Film{stored}, nil).Once()
	repo.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	repo.On("Delete", mock.Anything, int64(2)).Return(entities.FilmNotFound(2)).Once()

	film, err := useCase.GetFilm(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, stored, film)

	_, err = useCase.GetFilm(ctx, 2)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.Contains(t, err.Error(), "fetching film")

	films, err := useCase.ListFilms(ctx)
	require.NoError(t, err)
	assert.Len(t, films, 1)

	require.NoError(t, useCase.DeleteFilm(ctx, 1))
	err = useCase.DeleteFilm(ctx, 2)
	assert.ErrorIs(t, err, entities.ErrFilmNotFound)
	assert.Contains(t, err.Error(), "deleting film")

	repo.AssertExpectations(t)
}

func TestListFilmsRepositoryError(t *testing.T) {
	repo := new(mockFilmRepository)
	repo.On("FindAll", mock.Anything).Return(nil, errDatabase).Once()

	_, err := app.NewFilmUseCase(repo).ListFilms(context.Background())
	assert.ErrorIs(t, err, errDatabase)
	assert.Contains(t, err.Error(), "listing films")
}

func TestLikes(t *testing.T) {
	ctx := context.Background()
	repo := new(mockFilmRepository)
	useCase := app.NewFilmUseCase(repo)

	repo.On("AddLike", mock.Anything, int64(1), int64(2)).Return(nil).Once()
	repo.On("AddLike", mock.Anything, int64(1), int64(99)).Return(entities.UserNotFound(99)).Once()
	repo.On("DeleteLike", mock.Anything, int64(1), int64(2)).Return(nil).Once()
	repo.On("DeleteLike", mock.Anything, int64(42), int64(2)).Return(entities.FilmNotFound(42)).Once()

	require.NoError(t, useCase.AddLike(ctx, 1, 2))

	err := useCase.AddLike(ctx, 1, 99)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
	assert.Contains(t, err.Error(), "adding like")

	require.NoError(t, useCase.DeleteLike(ctx, 1, 2))

	err = useCase.DeleteLike(ctx, 42, 2)
	assert.ErrorIs(t, err, entities.ErrFilmNotFound)
	assert.Contains(t, err.Error(), "removing like")

	repo.AssertExpectations(t)
}

func TestPopularFilms(t *testing.T) {
	ctx := context.Background()

	t.Run("Success case - delegates count", func(t *testing.T) {
		repo := new(mockFilmRepository)
		top := []*entities.Film{{ID: 3}, {ID: 1}}
		repo.On("Popular", mock.Anything, 2).Return(top, nil).Once()

		films, err := app.NewFilmUseCase(repo).PopularFilms(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, top, films)
		repo.AssertExpectations(t)
	})

	for _, count := range []int{0, -1} {
		repo := new(mockFilmRepository)

		_, err := app.NewFilmUseCase(repo).PopularFilms(ctx, count)
		assert.ErrorIs(t, err, entities.ErrInvalidCount)
		assert.ErrorIs(t, err, entities.ErrValidation)
		repo.AssertNotCalled(t, "Popular", mock.Anything, mock.Anything)
	}

	t.Run("Error case - repository error", func(t *testing.T) {
		repo := new(mockFilmRepository)
		repo.On("Popular", mock.Anything, 10).Return(nil, errDatabase).Once()

		_, err := app.NewFilmUseCase(repo).PopularFilms(ctx, 10)
		assert.ErrorIs(t, err, errDatabase)
		assert.Contains(t, err.Error(), "listing popular films")
	})
}
