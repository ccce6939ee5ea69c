// Package app содержит сценарии использования каталога фильмов.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"filmorate/internal/filmorate/domain/entities"
	"filmorate/internal/filmorate/ports/api"
	"filmorate/internal/filmorate/ports/repositories"
	"filmorate/pkg/logger"
)

const (
	methodCreateUser        = "CreateUser"
	methodUpdateUser        = "UpdateUser"
	methodGetUser           = "GetUser"
	methodListUsers         = "ListUsers"
	methodDeleteUser        = "DeleteUser"
	methodAddFriend         = "AddFriend"
	methodDeleteFriend      = "DeleteFriend"
	methodListFriends       = "ListFriends"
	methodListCommonFriends = "ListCommonFriends"

	msgInvalidUser    = "invalid user data"
	msgUserCreated    = "user created successfully"
	msgUserUpdated    = "user updated successfully"
	msgUserDeleted    = "user deleted successfully"
	msgFriendAdded    = "friend added successfully"
	msgFriendDeleted  = "friend removed successfully"
	msgUserRequestErr = "user request failed"
	msgUserStoreErr   = "user store failure"

	errCtxValidatingUser   = "validating user"
	errCtxCreatingUser     = "creating user"
	errCtxUpdatingUser     = "updating user"
	errCtxFetchingUser     = "fetching user"
	errCtxListingUsers     = "listing users"
	errCtxDeletingUser     = "deleting user"
	errCtxAddingFriend     = "adding friend"
	errCtxDeletingFriend   = "removing friend"
	errCtxListingFriends   = "listing friends"
	errCtxListingCommonFrs = "listing common friends"
)

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	userRepo repositories.UserRepository
	now      func() time.Time
}

// NewUserUseCase создает новый экземпляр сервиса пользователей.
func NewUserUseCase(userRepo repositories.UserRepository) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// CreateUser проверяет и сохраняет нового пользователя.
func (u *UserUseCaseImpl) CreateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateUser), zap.String("login", user.Login))

	if err := validateUser(user, u.now()); err != nil {
		log.Debug(ctx, msgInvalidUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUser, err)
	}

	created, err := u.userRepo.Create(ctx, user)
	if err != nil {
		logFailure(ctx, log, msgUserRequestErr, msgUserStoreErr, err)
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserCreated, zap.Int64("id", created.ID))
	return created, nil
}

// UpdateUser проверяет и заменяет данные пользователя.
func (u *UserUseCaseImpl) UpdateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateUser), zap.Int64("id", user.ID))

	if err := validateUser(user, u.now()); err != nil {
		log.Debug(ctx, msgInvalidUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUser, err)
	}

	updated, err := u.userRepo.Update(ctx, user)
	if err != nil {
		logFailure(ctx, log, msgUserRequestErr, msgUserStoreErr, err)
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, err)
	}

	log.Info(ctx, msgUserUpdated)
	return updated, nil
}

// GetUser возвращает пользователя по ID.
func (u *UserUseCaseImpl) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		log := logger.Log(ctx).With(zap.String("method", methodGetUser), zap.Int64("id", id))
		logFailure(ctx, log, msgUserRequestErr, msgUserStoreErr, err)
		return nil, fmt.Errorf("%s: %w", errCtxFetchingUser, err)
	}
	return user, nil
}

// ListUsers возвращает всех пользователей.
func (u *UserUseCaseImpl) ListUsers(ctx context.Context) ([]*entities.User, error) {
	users, err := u.userRepo.FindAll(ctx)
	if err != nil {
		logger.Log(ctx).With(zap.String("method", methodListUsers)).Error(ctx, msgUserStoreErr, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}
	return users, nil
}

// DeleteUser удаляет пользователя.
func (u *UserUseCaseImpl) DeleteUser(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteUser), zap.Int64("id", id))

	if err := u.userRepo.Delete(ctx, id); err != nil {
		logFailure(ctx, log, msgUserRequestErr, msgUserStoreErr, err)
		return fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	log.Info(ctx, msgUserDeleted)
	return nil
}

// AddFriend добавляет дружбу между пользователями.
func (u *UserUseCaseImpl) AddFriend(ctx context.Context, id, friendID int64) error {
	log := logger.Log(ctx).With(zap.String("method", methodAddFriend), zap.Int64("id", id), zap.Int64("friend_id", friendID))

	if err := u.userRepo.AddFriend(ctx, id, friendID); err != nil {
		logFailure(ctx, log, msgUserRequestErr, msgUserStoreErr, err)
		return fmt.Errorf("%s: %w", errCtxAddingFriend, err)
	}

	log.Info(ctx, msgFriendAdded)
	return nil
}

// DeleteFriend разрывает дружбу между пользователями.
func (u *UserUseCaseImpl) DeleteFriend(ctx context.Context, id, friendID int64) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteFriend), zap.Int64("id", id), zap.Int64("friend_id", friendID))

	if err := u.userRepo.DeleteFriend(ctx, id, friendID); err != nil {
		logFailure(ctx, log, msgUserRequestErr, msgUserStoreErr, err)
		return fmt.Errorf("%s: %w", errCtxDeletingFriend, err)
	}

	log.Info(ctx, msgFriendDeleted)
	return nil
}

// ListFriends возвращает друзей пользователя.
func (u *UserUseCaseImpl) ListFriends(ctx context.Context, id int64) ([]*entities.User, error) {
	friends, err := u.userRepo.FriendsOf(ctx, id)
	if err != nil {
		log := logger.Log(ctx).With(zap.String("method", methodListFriends), zap.Int64("id", id))
		logFailure(ctx, log, msgUserRequestErr, msgUserStoreErr, err)
		return nil, fmt.Errorf("%s: %w", errCtxListingFriends, err)
	}
	return friends, nil
}

// ListCommonFriends возвращает общих друзей двух пользователей.
func (u *UserUseCaseImpl) ListCommonFriends(ctx context.Context, id, otherID int64) ([]*entities.User, error) {
	common, err := u.userRepo.CommonFriends(ctx, id, otherID)
	if err != nil {
		log := logger.Log(ctx).With(zap.String("method", methodListCommonFriends), zap.Int64("id", id), zap.Int64("other_id", otherID))
		logFailure(ctx, log, msgUserRequestErr, msgUserStoreErr, err)
		return nil, fmt.Errorf("%s: %w", errCtxListingCommonFrs, err)
	}
	return common, nil
}

// logFailure пишет ошибки домена на уровне Debug, инфраструктурные - на уровне Error.
func logFailure(ctx context.Context, log *logger.Logger, domainMsg, infraMsg string, err error) {
	if errors.Is(err, entities.ErrNotFound) ||
		errors.Is(err, entities.ErrConflict) ||
		errors.Is(err, entities.ErrValidation) {
		log.Debug(ctx, domainMsg, zap.Error(err))
		return
	}
	log.Error(ctx, infraMsg, zap.Error(err))
}
