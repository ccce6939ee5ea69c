package app

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"filmorate/internal/filmorate/domain/entities"
)

// MaxDescriptionLength - максимальная длина описания фильма в символах.
const MaxDescriptionLength = 200

// FirstFilmRelease - дата первого публичного киносеанса.
var FirstFilmRelease = time.Date(1895, 12, 28, 0, 0, 0, 0, time.UTC)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}

func validateLogin(login string) error {
	if strings.TrimSpace(login) == "" || strings.IndexFunc(login, unicode.IsSpace) >= 0 {
		return entities.ErrInvalidLogin
	}
	return nil
}

func validateUser(user *entities.User, now time.Time) error {
	if err := validateEmail(user.Email); err != nil {
		return err
	}
	if err := validateLogin(user.Login); err != nil {
		return err
	}
	if entities.DateOnly(user.Birthday).After(entities.DateOnly(now)) {
		return entities.ErrBirthdayInFuture
	}
	return nil
}

func validateFilm(film *entities.Film) error {
	if strings.TrimSpace(film.Name) == "" {
		return entities.ErrEmptyFilmName
	}
	if utf8.RuneCountInString(film.Description) > MaxDescriptionLength {
		return entities.ErrDescriptionTooLong
	}
	if entities.DateOnly(film.ReleaseDate).Before(FirstFilmRelease) {
		return entities.ErrReleaseTooEarly
	}
	if film.Duration <= 0 {
		return entities.ErrInvalidDuration
	}
	return nil
}
