package entities

import "time"

// Film представляет фильм каталога.
//
// Во входных данных обновления nil в Genres или UserLikes означает
// "оставить без изменений", а непустой или пустой срез заменяет набор целиком.
type Film struct {
	ID          int64
	Name        string
	Description string
	ReleaseDate time.Time
	// Duration - продолжительность в минутах.
	Duration  int
	Mpa       *Mpa
	Genres    []Genre
	UserLikes []int64
}

// BusinessKey - естественный ключ фильма.
type BusinessKey struct {
	Name        string
	Description string
	ReleaseDate time.Time
	Duration    int
}

// Key возвращает естественный ключ фильма. Дата нормализуется до дня.
func (f *Film) Key() BusinessKey {
	return BusinessKey{
		Name:        f.Name,
		Description: f.Description,
		ReleaseDate: DateOnly(f.ReleaseDate),
		Duration:    f.Duration,
	}
}

// GenreIDs возвращает идентификаторы жанров без повторов в порядке возрастания.
func (f *Film) GenreIDs() []int {
	ids := make([]int, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return UniqueSorted(ids)
}

// LikesCount возвращает количество лайков.
func (f *Film) LikesCount() int {
	return len(f.UserLikes)
}

// Clone возвращает глубокую копию фильма. nil-срезы остаются nil.
func (f *Film) Clone() *Film {
	c := *f
	if f.Mpa != nil {
		mpa := *f.Mpa
		c.Mpa = &mpa
	}
	if f.Genres != nil {
		c.Genres = append([]Genre{}, f.Genres...)
	}
	if f.UserLikes != nil {
		c.UserLikes = append([]int64{}, f.UserLikes...)
	}
	return &c
}

// DateOnly отбрасывает время суток и приводит дату к UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
