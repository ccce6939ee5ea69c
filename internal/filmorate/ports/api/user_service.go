// Package api определяет интерфейсы сценариев использования каталога.
package api

import (
	"context"

	"filmorate/internal/filmorate/domain/entities"
)

// UserUseCase определяет операции над пользователями и дружбой.
type UserUseCase interface {
	CreateUser(ctx context.Context, user *entities.User) (*entities.User, error)
	UpdateUser(ctx context.Context, user *entities.User) (*entities.User, error)
	GetUser(ctx context.Context, id int64) (*entities.User, error)
	ListUsers(ctx context.Context) ([]*entities.User, error)
	DeleteUser(ctx context.Context, id int64) error
	AddFriend(ctx context.Context, id, friendID int64) error
	DeleteFriend(ctx context.Context, id, friendID int64) error
	ListFriends(ctx context.Context, id int64) ([]*entities.User, error)
	ListCommonFriends(ctx context.Context, id, otherID int64) ([]*entities.User, error)
}
