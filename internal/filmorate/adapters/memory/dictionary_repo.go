package memory

import (
	"context"

	"filmorate/internal/filmorate/domain/entities"
	"filmorate/internal/filmorate/ports/repositories"
)

var defaultGenres = []entities.Genre{
	{ID: 1, Name: "Комедия"},
	{ID: 2, Name: "Драма"},
	{ID: 3, Name: "Мультфильм"},
	{ID: 4, Name: "Триллер"},
	{ID: 5, Name: "Документальный"},
	{ID: 6, Name: "Боевик"},
}

var defaultMpa = []entities.Mpa{
	{ID: 1, Name: "G"},
	{ID: 2, Name: "PG"},
	{ID: 3, Name: "PG-13"},
	{ID: 4, Name: "R"},
	{ID: 5, Name: "NC-17"},
}

// GenreRepository - неизменяемый справочник жанров.
type GenreRepository struct {
	items []entities.Genre
	byID  map[int]entities.Genre
}

// NewGenreRepository создает справочник. Без аргументов используются стандартные жанры.
func NewGenreRepository(genres ...entities.Genre) repositories.GenreRepository {
	if len(genres) == 0 {
		genres = defaultGenres
	}
	r := &GenreRepository{
		items: append([]entities.Genre(nil), genres...),
		byID:  make(map[int]entities.Genre, len(genres)),
	}
	for _, g := range genres {
		r.byID[g.ID] = g
	}
	return r
}

// FindAll возвращает жанры в порядке объявления.
func (r *GenreRepository) FindAll(_ context.Context) ([]entities.Genre, error) {
	return append([]entities.Genre(nil), r.items...), nil
}

// FindByID возвращает жанр или ErrGenreNotFound.
func (r *GenreRepository) FindByID(_ context.Context, id int) (entities.Genre, error) {
	g, ok := r.byID[id]
	if !ok {
		return entities.Genre{}, entities.GenreNotFound(id)
	}
	return g, nil
}

// MpaRepository - неизменяемый справочник рейтингов.
type MpaRepository struct {
	items []entities.Mpa
	byID  map[int]entities.Mpa
}

// NewMpaRepository создает справочник. Без аргументов используются стандартные рейтинги MPA.
func NewMpaRepository(ratings ...entities.Mpa) repositories.MpaRepository {
	if len(ratings) == 0 {
		ratings = defaultMpa
	}
	r := &MpaRepository{
		items: append([]entities.Mpa(nil), ratings...),
		byID:  make(map[int]entities.Mpa, len(ratings)),
	}
	for _, m := range ratings {
		r.byID[m.ID] = m
	}
	return r
}

// FindAll возвращает рейтинги в порядке объявления.
func (r *MpaRepository) FindAll(_ context.Context) ([]entities.Mpa, error) {
	return append([]entities.Mpa(nil), r.items...), nil
}

// FindByID возвращает рейтинг или ErrMpaNotFound.
func (r *MpaRepository) FindByID(_ context.Context, id int) (entities.Mpa, error) {
	m, ok := r.byID[id]
	if !ok {
		return entities.Mpa{}, entities.MpaNotFound(id)
	}
	return m, nil
}
