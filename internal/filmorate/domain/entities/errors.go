// Package entities содержит сущности домена каталога фильмов и ошибки домена.
package entities

import (
	"errors"
	"fmt"
)

// Виды ошибок. Конкретные ошибки оборачивают один из них,
// поэтому вызывающий код классифицирует их через errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// Ошибки отсутствия сущностей.
var (
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrFilmNotFound  = fmt.Errorf("film %w", ErrNotFound)
	ErrGenreNotFound = fmt.Errorf("genre %w", ErrNotFound)
	ErrMpaNotFound   = fmt.Errorf("mpa %w", ErrNotFound)
)

// Ошибки уникальности.
var (
	ErrLoginTaken = fmt.Errorf("login already taken: %w", ErrConflict)
	ErrFilmExists = fmt.Errorf("film with the same name, description, release date and duration exists: %w", ErrConflict)
)

// Ошибки валидации.
var (
	ErrSelfFriendship     = fmt.Errorf("user cannot befriend themselves: %w", ErrValidation)
	ErrInvalidID          = fmt.Errorf("id must be positive: %w", ErrValidation)
	ErrInvalidEmail       = fmt.Errorf("invalid email: %w", ErrValidation)
	ErrInvalidLogin       = fmt.Errorf("login must be non-blank and contain no spaces: %w", ErrValidation)
	ErrBirthdayInFuture   = fmt.Errorf("birthday cannot be in the future: %w", ErrValidation)
	ErrEmptyFilmName      = fmt.Errorf("film name cannot be empty: %w", ErrValidation)
	ErrDescriptionTooLong = fmt.Errorf("film description is too long: %w", ErrValidation)
	ErrReleaseTooEarly    = fmt.Errorf("release date is before the first film screening: %w", ErrValidation)
	ErrInvalidDuration    = fmt.Errorf("film duration must be positive: %w", ErrValidation)
	ErrInvalidCount       = fmt.Errorf("count must be positive: %w", ErrValidation)
)

// UserNotFound возвращает ошибку с указанием отсутствующего пользователя.
func UserNotFound(id int64) error {
	return fmt.Errorf("%w: id=%d", ErrUserNotFound, id)
}

// FilmNotFound возвращает ошибку с указанием отсутствующего фильма.
func FilmNotFound(id int64) error {
	return fmt.Errorf("%w: id=%d", ErrFilmNotFound, id)
}

// GenreNotFound возвращает ошибку с указанием отсутствующего жанра.
func GenreNotFound(id int) error {
	return fmt.Errorf("%w: id=%d", ErrGenreNotFound, id)
}

// MpaNotFound возвращает ошибку с указанием отсутствующего рейтинга.
func MpaNotFound(id int) error {
	return fmt.Errorf("%w: id=%d", ErrMpaNotFound, id)
}
