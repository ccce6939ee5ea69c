// Package dto содержит объекты передачи данных HTTP API.
package dto

import (
	"fmt"
	"time"

	"filmorate/internal/filmorate/domain/entities"
)

// DateLayout - формат дат в запросах и ответах.
const DateLayout = "2006-01-02"

// ErrInvalidDate возвращается для дат не в формате YYYY-MM-DD.
var ErrInvalidDate = fmt.Errorf("date must be in YYYY-MM-DD format: %w", entities.ErrValidation)

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserRequest - тело запросов создания и обновления пользователя.
type UserRequest struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Birthday string `json:"birthday"`
}

// UserResponse - представление пользователя в ответах.
type UserResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday string  `json:"birthday"`
	Friends  []int64 `json:"friends"`
}

// GenreDTO - жанр в запросах и ответах. В запросах значим только id.
type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// MpaDTO - рейтинг MPA в запросах и ответах.
type MpaDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// FilmRequest - тело запросов создания и обновления фильма.
//
// Отсутствующие genres или likes при обновлении оставляют набор без изменений.
type FilmRequest struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ReleaseDate string     `json:"releaseDate"`
	Duration    int        `json:"duration"`
	Mpa         *MpaDTO    `json:"mpa"`
	Genres      []GenreDTO `json:"genres"`
	Likes       []int64    `json:"likes"`
}

// FilmResponse - представление фильма в ответах.
type FilmResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ReleaseDate string     `json:"releaseDate"`
	Duration    int        `json:"duration"`
	Mpa         *MpaDTO    `json:"mpa"`
	Genres      []GenreDTO `json:"genres"`
	Likes       []int64    `json:"likes"`
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ToEntity преобразует запрос в пользователя домена.
func (r *UserRequest) ToEntity() (*entities.User, error) {
	birthday, err := parseDate(r.Birthday)
	if err != nil {
		return nil, err
	}
	return &entities.User{
		ID:       r.ID,
		Email:    r.Email,
		Login:    r.Login,
		Name:     r.Name,
		Birthday: birthday,
	}, nil
}

// NewUserResponse строит ответ по пользователю.
func NewUserResponse(u *entities.User) UserResponse {
	friends := u.Friends
	if friends == nil {
		friends = []int64{}
	}
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Login:    u.Login,
		Name:     u.Name,
		Birthday: formatDate(u.Birthday),
		Friends:  friends,
	}
}

// NewUserListResponse строит ответ по списку пользователей.
func NewUserListResponse(users []*entities.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// ToEntity преобразует запрос в фильм домена.
func (r *FilmRequest) ToEntity() (*entities.Film, error) {
	release, err := parseDate(r.ReleaseDate)
	if err != nil {
		return nil, err
	}

	film := &entities.Film{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ReleaseDate: release,
		Duration:    r.Duration,
		UserLikes:   r.Likes,
	}
	if r.Mpa != nil {
		film.Mpa = &entities.Mpa{ID: r.Mpa.ID}
	}
	if r.Genres != nil {
		film.Genres = make([]entities.Genre, 0, len(r.Genres))
		for _, g := range r.Genres {
			film.Genres = append(film.Genres, entities.Genre{ID: g.ID})
		}
	}
	return film, nil
}

// NewFilmResponse строит ответ по фильму.
func NewFilmResponse(f *entities.Film) FilmResponse {
	resp := FilmResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		ReleaseDate: formatDate(f.ReleaseDate),
		Duration:    f.Duration,
		Genres:      NewGenreListResponse(f.Genres),
		Likes:       f.UserLikes,
	}
	if resp.Likes == nil {
		resp.Likes = []int64{}
	}
	if f.Mpa != nil {
		mpa := NewMpaResponse(*f.Mpa)
		resp.Mpa = &mpa
	}
	return resp
}

// NewFilmListResponse строит ответ по списку фильмов.
func NewFilmListResponse(films []*entities.Film) []FilmResponse {
	out := make([]FilmResponse, 0, len(films))
	for _, f := range films {
		out = append(out, NewFilmResponse(f))
	}
	return out
}

// NewGenreResponse строит ответ по жанру.
func NewGenreResponse(g entities.Genre) GenreDTO {
	return GenreDTO{ID: g.ID, Name: g.Name}
}

// NewGenreListResponse строит ответ по списку жанров.
func NewGenreListResponse(genres []entities.Genre) []GenreDTO {
	out := make([]GenreDTO, 0, len(genres))
	for _, g := range genres {
		out = append(out, NewGenreResponse(g))
	}
	return out
}

// NewMpaResponse строит ответ по рейтингу.
func NewMpaResponse(m entities.Mpa) MpaDTO {
	return MpaDTO{ID: m.ID, Name: m.Name}
}

// NewMpaListResponse строит ответ по списку рейтингов.
func NewMpaListResponse(ratings []entities.Mpa) []MpaDTO {
	out := make([]MpaDTO, 0, len(ratings))
	for _, m := range ratings {
		out = append(out, NewMpaResponse(m))
	}
	return out
}
