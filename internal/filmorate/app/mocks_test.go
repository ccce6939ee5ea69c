package app_test

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"filmorate/internal/filmorate/domain/entities"
)

var errDatabase = errors.New("database connection error")

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *mockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) AddFriend(ctx context.Context, id, friendID int64) error {
	return m.Called(ctx, id, friendID).Error(0)
}

func (m *mockUserRepository) DeleteFriend(ctx context.Context, id, friendID int64) error {
	return m.Called(ctx, id, friendID).Error(0)
}

func (m *mockUserRepository) FriendsOf(ctx context.Context, id int64) ([]*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *mockUserRepository) CommonFriends(ctx context.Context, id, otherID int64) ([]*entities.User, error) {
	args := m.Called(ctx, id, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

type mockFilmRepository struct {
	mock.Mock
}

func (m *mockFilmRepository) Create(ctx context.Context, film *entities.Film) (*entities.Film, error) {
	args := m.Called(ctx, film)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Film), args.Error(1)
}

func (m *mockFilmRepository) Update(ctx context.Context, film *entities.Film) (*entities.Film, error) {
	args := m.Called(ctx, film)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Film), args.Error(1)
}

func (m *mockFilmRepository) FindByID(ctx context.Context, id int64) (*entities.Film, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Film), args.Error(1)
}

func (m *mockFilmRepository) FindAll(ctx context.Context) ([]*entities.Film, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Film), args.Error(1)
}

func (m *mockFilmRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockFilmRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockFilmRepository) AddLike(ctx context.Context, filmID, userID int64) error {
	return m.Called(ctx, filmID, userID).Error(0)
}

func (m *mockFilmRepository) DeleteLike(ctx context.Context, filmID, userID int64) error {
	return m.Called(ctx, filmID, userID).Error(0)
}

func (m *mockFilmRepository) Popular(ctx context.Context, count int) ([]*entities.Film, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Film), args.Error(1)
}

type mockGenreRepository struct {
	mock.Mock
}

func (m *mockGenreRepository) FindAll(ctx context.Context) ([]entities.Genre, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Genre), args.Error(1)
}

func (m *mockGenreRepository) FindByID(ctx context.Context, id int) (entities.Genre, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Genre), args.Error(1)
}

type mockMpaRepository struct {
	mock.Mock
}

func (m *mockMpaRepository) FindAll(ctx context.Context) ([]entities.Mpa, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Mpa), args.Error(1)
}

func (m *mockMpaRepository) FindByID(ctx context.Context, id int) (entities.Mpa, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Mpa), args.Error(1)
}
