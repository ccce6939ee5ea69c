package memory_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/filmorate/adapters/memory"
	"filmorate/internal/filmorate/domain/entities"
)

func TestRepositoryFactory_DeleteUserPurgesLikes(t *testing.T) {
	ctx := testContext(t)
	factory := memory.NewRepositoryFactory(nil, nil)
	users := factory.UserRepository()
	films := factory.FilmRepository()

	liker, err := users.Create(ctx, newUser("liker"))
	require.NoError(t, err)
	friend, err := users.Create(ctx, newUser("friend"))
	require.NoError(t, err)
	require.NoError(t, users.AddFriend(ctx, liker.ID, friend.ID))

	film, err := films.Create(ctx, newFilm("liked"))
	require.NoError(t, err)
	require.NoError(t, films.AddLike(ctx, film.ID, liker.ID))
	require.NoError(t, films.AddLike(ctx, film.ID, friend.ID))

	require.NoError(t, users.Delete(ctx, liker.ID))

	found, err := films.FindByID(ctx, film.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{friend.ID}, found.UserLikes)

	survivor, err := users.FindByID(ctx, friend.ID)
	require.NoError(t, err)
	assert.Empty(t, survivor.Friends)
}

func TestRepositoryFactory_Dictionaries(t *testing.T) {
	ctx := testContext(t)
	factory := memory.NewRepositoryFactory(nil, nil)

	genres, err := factory.GenreRepository().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 6)

	mpa, err := factory.MpaRepository().FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, entities.Mpa{ID: 3, Name: "PG-13"}, mpa)
}

func TestRepositoryFactory_SharedSequence(t *testing.T) {
	ctx := testContext(t)
	seq := memory.NewSequence()
	factory := memory.NewRepositoryFactory(seq, seq)

	u, err := factory.UserRepository().Create(ctx, newUser("first"))
	require.NoError(t, err)
	f, err := factory.FilmRepository().Create(ctx, newFilm("second"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, int64(2), f.ID)
}

func TestRepositoryFactory_DeleteUserWhileLiking(t *testing.T) {
	ctx := testContext(t)
	factory := memory.NewRepositoryFactory(nil, nil)
	users := factory.UserRepository()
	films := factory.FilmRepository()

	film, err := films.Create(ctx, newFilm("busy"))
	require.NoError(t, err)

	var created []*entities.User
	for _, login := range []string{"u1", "u2", "u3", "u4", "u5", "u6"} {
		u, err := users.Create(ctx, newUser(login))
		require.NoError(t, err)
		created = append(created, u)
	}

	var wg sync.WaitGroup
	for _, u := range created {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			_ = films.AddLike(ctx, film.ID, id)
		}(u.ID)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, users.Delete(ctx, id))
		}(u.ID)
	}
	wg.Wait()

	found, err := films.FindByID(ctx, film.ID)
	require.NoError(t, err)
	assert.Empty(t, found.UserLikes, "likes of deleted users must not survive")
}
