package repositories

import (
	"context"

	"filmorate/internal/filmorate/domain/entities"
)

// UserRepository хранит пользователей и симметричный граф дружбы.
//
// Update не изменяет набор друзей: дружба управляется только AddFriend и DeleteFriend.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	Update(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id int64) (*entities.User, error)

	FindByLogin(ctx context.Context, login string) (*entities.User, error)

	FindAll(ctx context.Context) ([]*entities.User, error)

	Exists(ctx context.Context, id int64) (bool, error)

	Delete(ctx context.Context, id int64) error

	AddFriend(ctx context.Context, id, friendID int64) error

	DeleteFriend(ctx context.Context, id, friendID int64) error

	FriendsOf(ctx context.Context, id int64) ([]*entities.User, error)

	CommonFriends(ctx context.Context, id, otherID int64) ([]*entities.User, error)
}
