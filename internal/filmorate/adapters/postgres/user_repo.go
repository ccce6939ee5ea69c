package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"filmorate/internal/filmorate/domain/entities"
	"filmorate/internal/filmorate/ports/repositories"
	"filmorate/pkg/logger"
)

const (
	selectUsers = `
        SELECT u.id, u.email, u.login, u.name, u.birthday,
               COALESCE(array_agg(f.friend_id ORDER BY f.friend_id) FILTER (WHERE f.friend_id IS NOT NULL), '{}')
        FROM users u
        LEFT JOIN friendships f ON f.user_id = u.id
    `
	groupUsers = `
        GROUP BY u.id
        ORDER BY u.id
    `

	queryUserExists  = `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	queryLoginExists = `SELECT EXISTS(SELECT 1 FROM users WHERE login = $1 AND id <> $2)`
)

const (
	msgUserNotFound      = "user not found"
	msgLoginTaken        = "login already taken"
	msgSelfFriendship    = "self friendship rejected"
	msgErrCreatingUser   = "error creating user"
	msgErrUpdatingUser   = "error updating user"
	msgErrFindingUser    = "error finding user"
	msgErrListingUsers   = "error listing users"
	msgErrDeletingUser   = "error deleting user"
	msgErrAddingFriend   = "error adding friend"
	msgErrRemovingFriend = "error removing friend"

	errCtxCreateUser   = "error creating user"
	errCtxUpdateUser   = "error updating user"
	errCtxQueryUser    = "error querying user"
	errCtxQueryUsers   = "error querying users"
	errCtxCheckUser    = "error checking user existence"
	errCtxDeleteUser   = "error deleting user"
	errCtxAddFriend    = "error adding friend"
	errCtxRemoveFriend = "error removing friend"
)

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

func userLog(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", method))
}

// Create создает нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := userLog(ctx, "Create")

	stored := user.Clone()
	stored.ApplyDefaults()
	stored.Friends = []int64{}

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		taken, err := exists(ctx, tx, queryLoginExists, stored.Login, int64(0))
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxCreateUser, err)
		}
		if taken {
			return fmt.Errorf("%w: %s", entities.ErrLoginTaken, stored.Login)
		}

		query := `
            INSERT INTO users (email, login, name, birthday)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `
		err = tx.QueryRow(ctx, query, stored.Email, stored.Login, stored.Name, stored.Birthday).Scan(&stored.ID)
		if err != nil {
			if pgErrorCode(err) == pgUniqueViolation {
				return fmt.Errorf("%w: %s", entities.ErrLoginTaken, stored.Login)
			}
			return fmt.Errorf("%s: %w", errCtxCreateUser, err)
		}
		return nil
	})
	if err != nil {
		r.logFailure(ctx, log, msgErrCreatingUser, err)
		return nil, err
	}

	return stored, nil
}

// Update заменяет данные пользователя, сохраняя набор друзей.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := userLog(ctx, "Update")

	if user.ID <= 0 {
		log.Debug(ctx, msgUserNotFound, zap.Int64("id", user.ID))
		return nil, entities.UserNotFound(user.ID)
	}

	stored := user.Clone()
	stored.ApplyDefaults()

	var updated *entities.User
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := requireUsers(ctx, tx, stored.ID); err != nil {
			return err
		}

		taken, err := exists(ctx, tx, queryLoginExists, stored.Login, stored.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxUpdateUser, err)
		}
		if taken {
			return fmt.Errorf("%w: %s", entities.ErrLoginTaken, stored.Login)
		}

		query := `
            UPDATE users
            SET email = $2, login = $3, name = $4, birthday = $5
            WHERE id = $1
        `
		if _, err := tx.Exec(ctx, query, stored.ID, stored.Email, stored.Login, stored.Name, stored.Birthday); err != nil {
			if pgErrorCode(err) == pgUniqueViolation {
				return fmt.Errorf("%w: %s", entities.ErrLoginTaken, stored.Login)
			}
			return fmt.Errorf("%s: %w", errCtxUpdateUser, err)
		}

		updated, err = findUser(ctx, tx, "u.id = $1", stored.ID)
		return err
	})
	if err != nil {
		r.logFailure(ctx, log, msgErrUpdatingUser, err)
		return nil, err
	}

	return updated, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	user, err := findUser(ctx, r.pool, "u.id = $1", id)
	if err != nil {
		r.logFailure(ctx, userLog(ctx, "FindByID"), msgErrFindingUser, err)
		return nil, err
	}
	return user, nil
}

// FindByLogin находит пользователя по логину.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	user, err := findUser(ctx, r.pool, "u.login = $1", login)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			err = fmt.Errorf("%w: login=%s", entities.ErrUserNotFound, login)
		}
		r.logFailure(ctx, userLog(ctx, "FindByLogin"), msgErrFindingUser, err)
		return nil, err
	}
	return user, nil
}

// FindAll возвращает всех пользователей.
func (r *UserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	users, err := listUsers(ctx, r.pool, selectUsers+groupUsers)
	if err != nil {
		userLog(ctx, "FindAll").Error(ctx, msgErrListingUsers, zap.Error(err))
		return nil, err
	}
	return users, nil
}

// Exists проверяет наличие пользователя.
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.pool, queryUserExists, id)
	if err != nil {
		userLog(ctx, "Exists").Error(ctx, msgErrFindingUser, zap.Error(err))
		return false, fmt.Errorf("%s: %w", errCtxCheckUser, err)
	}
	return found, nil
}

// Delete удаляет пользователя. Дружеские связи и лайки удаляются каскадно.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	log := userLog(ctx, "Delete")

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxDeleteUser, err)
		}
		if result.RowsAffected() == 0 {
			return entities.UserNotFound(id)
		}
		return nil
	})
	if err != nil {
		r.logFailure(ctx, log, msgErrDeletingUser, err)
		return err
	}
	return nil
}

// AddFriend связывает пользователей в обе стороны.
func (r *UserRepository) AddFriend(ctx context.Context, id, friendID int64) error {
	log := userLog(ctx, "AddFriend")

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := requireUsers(ctx, tx, id, friendID); err != nil {
			return err
		}
		if id == friendID {
			return entities.ErrSelfFriendship
		}

		query := `
            INSERT INTO friendships (user_id, friend_id)
            VALUES ($1, $2), ($2, $1)
            ON CONFLICT DO NOTHING
        `
		if _, err := tx.Exec(ctx, query, id, friendID); err != nil {
			if pgErrorCode(err) == pgForeignKeyViolation {
				return fmt.Errorf("%w: id=%d or id=%d", entities.ErrUserNotFound, id, friendID)
			}
			return fmt.Errorf("%s: %w", errCtxAddFriend, err)
		}
		return nil
	})
	if err != nil {
		r.logFailure(ctx, log, msgErrAddingFriend, err)
		return err
	}
	return nil
}

// DeleteFriend разрывает дружбу с обеих сторон.
func (r *UserRepository) DeleteFriend(ctx context.Context, id, friendID int64) error {
	log := userLog(ctx, "DeleteFriend")

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := requireUsers(ctx, tx, id, friendID); err != nil {
			return err
		}

		query := `
            DELETE FROM friendships
            WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
        `
		if _, err := tx.Exec(ctx, query, id, friendID); err != nil {
			return fmt.Errorf("%s: %w", errCtxRemoveFriend, err)
		}
		return nil
	})
	if err != nil {
		r.logFailure(ctx, log, msgErrRemovingFriend, err)
		return err
	}
	return nil
}

// FriendsOf возвращает друзей пользователя.
func (r *UserRepository) FriendsOf(ctx context.Context, id int64) ([]*entities.User, error) {
	log := userLog(ctx, "FriendsOf")

	if err := requireUsers(ctx, r.pool, id); err != nil {
		r.logFailure(ctx, log, msgErrListingUsers, err)
		return nil, err
	}

	query := selectUsers + `
        WHERE u.id IN (SELECT friend_id FROM friendships WHERE user_id = $1)
    ` + groupUsers
	users, err := listUsers(ctx, r.pool, query, id)
	if err != nil {
		log.Error(ctx, msgErrListingUsers, zap.Error(err))
		return nil, err
	}
	return users, nil
}

// CommonFriends возвращает общих друзей двух пользователей.
func (r *UserRepository) CommonFriends(ctx context.Context, id, otherID int64) ([]*entities.User, error) {
	log := userLog(ctx, "CommonFriends")

	if err := requireUsers(ctx, r.pool, id, otherID); err != nil {
		r.logFailure(ctx, log, msgErrListingUsers, err)
		return nil, err
	}

	query := selectUsers + `
        WHERE u.id IN (
            SELECT a.friend_id
            FROM friendships a
            JOIN friendships b ON b.friend_id = a.friend_id
            WHERE a.user_id = $1 AND b.user_id = $2
        )
    ` + groupUsers
	users, err := listUsers(ctx, r.pool, query, id, otherID)
	if err != nil {
		log.Error(ctx, msgErrListingUsers, zap.Error(err))
		return nil, err
	}
	return users, nil
}

// logFailure пишет ожидаемые ошибки домена на уровне Debug, остальные на уровне Error.
func (r *UserRepository) logFailure(ctx context.Context, log *logger.Logger, msg string, err error) {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		log.Debug(ctx, msgUserNotFound, zap.Error(err))
	case errors.Is(err, entities.ErrConflict):
		log.Debug(ctx, msgLoginTaken, zap.Error(err))
	case errors.Is(err, entities.ErrValidation):
		log.Debug(ctx, msgSelfFriendship, zap.Error(err))
	default:
		log.Error(ctx, msg, zap.Error(err))
	}
}

func requireUsers(ctx context.Context, q Querier, ids ...int64) error {
	for _, id := range ids {
		found, err := exists(ctx, q, queryUserExists, id)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxCheckUser, err)
		}
		if !found {
			return entities.UserNotFound(id)
		}
	}
	return nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Login,
		&user.Name,
		&user.Birthday,
		&user.Friends,
	); err != nil {
		return nil, err
	}
	if user.Friends == nil {
		user.Friends = []int64{}
	}
	return &user, nil
}

func findUser(ctx context.Context, q Querier, where string, arg interface{}) (*entities.User, error) {
	query := selectUsers + " WHERE " + where + groupUsers

	user, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if id, ok := arg.(int64); ok {
				return nil, entities.UserNotFound(id)
			}
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errCtxQueryUser, err)
	}
	return user, nil
}

func listUsers(ctx context.Context, q Querier, query string, args ...interface{}) ([]*entities.User, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxQueryUsers, err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxQueryUsers, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxQueryUsers, err)
	}
	return users, nil
}
