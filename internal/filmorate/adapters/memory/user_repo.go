package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"filmorate/internal/filmorate/domain/entities"
	"filmorate/internal/filmorate/ports/repositories"
	"filmorate/pkg/logger"
)

const (
	msgUserNotFound    = "user not found"
	msgLoginTaken      = "login already taken"
	msgUserCreated     = "user created"
	msgUserUpdated     = "user updated"
	msgUserDeleted     = "user deleted"
	msgFriendAdded     = "friendship added"
	msgFriendRemoved   = "friendship removed"
	msgSelfFriendship  = "self friendship rejected"
	errCtxNextUserID   = "allocating user id"
	fieldRepository    = "repository"
	fieldMethod        = "method"
	repositoryNameUser = "memory.user"
)

// UserDeleteHook вызывается после удаления пользователя, когда блокировка хранилища уже снята.
type UserDeleteHook func(ctx context.Context, userID int64)

// UserRepository хранит пользователей и граф дружбы в памяти процесса.
// Все изменения сериализуются одним RWMutex, чтения выполняются параллельно.
type UserRepository struct {
	mu      sync.RWMutex
	seq     repositories.Sequence
	users   map[int64]*entities.User
	logins  map[string]int64
	friends map[int64]map[int64]struct{}
	hooks   []UserDeleteHook
}

// NewUserRepository создает пустое хранилище пользователей.
func NewUserRepository(seq repositories.Sequence) *UserRepository {
	if seq == nil {
		seq = NewSequence()
	}
	return &UserRepository{
		seq:     seq,
		users:   make(map[int64]*entities.User),
		logins:  make(map[string]int64),
		friends: make(map[int64]map[int64]struct{}),
	}
}

// OnDelete регистрирует обработчик удаления пользователя.
func (r *UserRepository) OnDelete(hook UserDeleteHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

func (r *UserRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String(fieldRepository, repositoryNameUser), zap.String(fieldMethod, method))
}

// Create сохраняет нового пользователя и назначает ему идентификатор.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := r.log(ctx, "Create")

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.logins[user.Login]; taken {
		log.Debug(ctx, msgLoginTaken, zap.String("login", user.Login))
		return nil, fmt.Errorf("%w: %s", entities.ErrLoginTaken, user.Login)
	}

	id, err := r.seq.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxNextUserID, err)
	}

	stored := user.Clone()
	stored.ID = id
	stored.Friends = nil
	stored.ApplyDefaults()

	r.users[id] = stored
	r.logins[stored.Login] = id
	r.friends[id] = make(map[int64]struct{})

	log.Debug(ctx, msgUserCreated, zap.Int64("id", id))
	return r.view(id), nil
}

// Update заменяет данные пользователя целиком, сохраняя набор друзей.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := r.log(ctx, "Update")

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		log.Debug(ctx, msgUserNotFound, zap.Int64("id", user.ID))
		return nil, entities.UserNotFound(user.ID)
	}

	if owner, taken := r.logins[user.Login]; taken && owner != user.ID {
		log.Debug(ctx, msgLoginTaken, zap.String("login", user.Login), zap.Int64("owner", owner))
		return nil, fmt.Errorf("%w: %s", entities.ErrLoginTaken, user.Login)
	}

	stored := user.Clone()
	stored.Friends = nil
	stored.ApplyDefaults()

	delete(r.logins, current.Login)
	r.logins[stored.Login] = stored.ID
	r.users[stored.ID] = stored

	log.Debug(ctx, msgUserUpdated, zap.Int64("id", stored.ID))
	return r.view(stored.ID), nil
}

// FindByID возвращает пользователя по идентификатору.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.users[id]; !ok {
		r.log(ctx, "FindByID").Debug(ctx, msgUserNotFound, zap.Int64("id", id))
		return nil, entities.UserNotFound(id)
	}
	return r.view(id), nil
}

// FindByLogin возвращает пользователя по логину.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.logins[login]
	if !ok {
		r.log(ctx, "FindByLogin").Debug(ctx, msgUserNotFound, zap.String("login", login))
		return nil, fmt.Errorf("%w: login=%s", entities.ErrUserNotFound, login)
	}
	return r.view(id), nil
}

// FindAll возвращает всех пользователей в порядке возрастания идентификаторов.
func (r *UserRepository) FindAll(_ context.Context) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.resolve(slices.Sorted(maps.Keys(r.users))), nil
}

// Exists проверяет наличие пользователя.
func (r *UserRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok, nil
}

// Delete удаляет пользователя вместе с обеими сторонами всех его дружеских связей.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	log := r.log(ctx, "Delete")

	r.mu.Lock()
	user, ok := r.users[id]
	if !ok {
		r.mu.Unlock()
		log.Debug(ctx, msgUserNotFound, zap.Int64("id", id))
		return entities.UserNotFound(id)
	}

	for friendID := range r.friends[id] {
		r.unlink(id, friendID)
	}
	delete(r.friends, id)
	delete(r.logins, user.Login)
	delete(r.users, id)
	hooks := slices.Clone(r.hooks)
	r.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx, id)
	}

	log.Debug(ctx, msgUserDeleted, zap.Int64("id", id))
	return nil
}

// AddFriend связывает двух пользователей симметрично. Повторный вызов ничего не меняет.
func (r *UserRepository) AddFriend(ctx context.Context, id, friendID int64) error {
	log := r.log(ctx, "AddFriend")

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireExisting(id, friendID); err != nil {
		log.Debug(ctx, msgUserNotFound, zap.Error(err))
		return err
	}
	if id == friendID {
		log.Debug(ctx, msgSelfFriendship, zap.Int64("id", id))
		return entities.ErrSelfFriendship
	}

	r.link(id, friendID)
	log.Debug(ctx, msgFriendAdded, zap.Int64("id", id), zap.Int64("friend_id", friendID))
	return nil
}

// DeleteFriend разрывает дружбу с обеих сторон. Отсутствие связи не является ошибкой.
func (r *UserRepository) DeleteFriend(ctx context.Context, id, friendID int64) error {
	log := r.log(ctx, "DeleteFriend")

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireExisting(id, friendID); err != nil {
		log.Debug(ctx, msgUserNotFound, zap.Error(err))
		return err
	}

	r.unlink(id, friendID)
	log.Debug(ctx, msgFriendRemoved, zap.Int64("id", id), zap.Int64("friend_id", friendID))
	return nil
}

// FriendsOf возвращает друзей пользователя в порядке возрастания идентификаторов.
func (r *UserRepository) FriendsOf(ctx context.Context, id int64) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.requireExisting(id); err != nil {
		r.log(ctx, "FriendsOf").Debug(ctx, msgUserNotFound, zap.Error(err))
		return nil, err
	}
	return r.resolve(r.friendIDs(id)), nil
}

// CommonFriends возвращает пересечение наборов друзей двух пользователей.
func (r *UserRepository) CommonFriends(ctx context.Context, id, otherID int64) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.requireExisting(id, otherID); err != nil {
		r.log(ctx, "CommonFriends").Debug(ctx, msgUserNotFound, zap.Error(err))
		return nil, err
	}
	return r.resolve(entities.Intersect(r.friendIDs(id), r.friendIDs(otherID))), nil
}

// link и unlink - единственные места, меняющие граф дружбы.
// Вызываются под r.mu, поэтому обе стороны связи меняются атомарно для читателей.
func (r *UserRepository) link(a, b int64) {
	r.friends[a][b] = struct{}{}
	r.friends[b][a] = struct{}{}
}

func (r *UserRepository) unlink(a, b int64) {
	delete(r.friends[a], b)
	delete(r.friends[b], a)
}

func (r *UserRepository) requireExisting(ids ...int64) error {
	for _, id := range ids {
		if _, ok := r.users[id]; !ok {
			return entities.UserNotFound(id)
		}
	}
	return nil
}

func (r *UserRepository) friendIDs(id int64) []int64 {
	return slices.Sorted(maps.Keys(r.friends[id]))
}

func (r *UserRepository) view(id int64) *entities.User {
	u := r.users[id].Clone()
	u.Friends = r.friendIDs(id)
	return u
}

func (r *UserRepository) resolve(ids []int64) []*entities.User {
	out := make([]*entities.User, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.users[id]; ok {
			out = append(out, r.view(id))
		}
	}
	return out
}
