package entities_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"filmorate/internal/filmorate/domain/entities"
)

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, entities.UserNotFound(5), entities.ErrNotFound)
	assert.ErrorIs(t, entities.UserNotFound(5), entities.ErrUserNotFound)
	assert.Contains(t, entities.GenreNotFound(7).Error(), "genre not found: id=7")
	assert.ErrorIs(t, entities.ErrLoginTaken, entities.ErrConflict)
	assert.ErrorIs(t, entities.ErrSelfFriendship, entities.ErrValidation)
	assert.False(t, errors.Is(entities.ErrFilmNotFound, entities.ErrConflict))
}

func TestUserApplyDefaults(t *testing.T) {
	u := &entities.User{Login: "dolore", Name: "  "}
	u.ApplyDefaults()
	assert.Equal(t, "dolore", u.Name)

	named := &entities.User{Login: "dolore", Name: "Nick"}
	named.ApplyDefaults()
	assert.Equal(t, "Nick", named.Name)
}

func TestFilmKeyIgnoresTimeOfDay(t *testing.T) {
	a := &entities.Film{Name: "n", Description: "d", Duration: 90,
		ReleaseDate: time.Date(1999, 3, 31, 15, 4, 0, 0, time.UTC)}
	b := &entities.Film{Name: "n", Description: "d", Duration: 90,
		ReleaseDate: time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, a.Key(), b.Key())
}

func TestFilmGenreIDs(t *testing.T) {
	f := &entities.Film{Genres: []entities.Genre{{ID: 3}, {ID: 1}, {ID: 3}}}
	assert.Equal(t, []int{1, 3}, f.GenreIDs())
}

func TestFilmCloneKeepsNil(t *testing.T) {
	f := &entities.Film{ID: 1}
	c := f.Clone()
	assert.Nil(t, c.Genres)
	assert.Nil(t, c.UserLikes)

	f.UserLikes = []int64{1}
	c = f.Clone()
	c.UserLikes[0] = 42
	assert.Equal(t, int64(1), f.UserLikes[0])
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, []int64{4, 5}, entities.Intersect([]int64{3, 4, 5}, []int64{4, 5, 6}))
	assert.Empty(t, entities.Intersect([]int64{1}, []int64{2}))
}
