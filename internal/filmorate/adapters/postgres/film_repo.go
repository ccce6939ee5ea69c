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
	selectFilms = `
        SELECT f.id, f.name, f.description, f.release_date, f.duration,
               COALESCE(m.id, 0), COALESCE(m.name, '')
        FROM films f
        LEFT JOIN mpa m ON m.id = f.mpa_id
    `

	queryFilmExists = `SELECT EXISTS(SELECT 1 FROM films WHERE id = $1)`
	queryFilmKey    = `
        SELECT EXISTS(
            SELECT 1 FROM films
            WHERE name = $1 AND description = $2 AND release_date = $3 AND duration = $4 AND id <> $5
        )
    `
	queryFilmGenres = `
        SELECT fg.film_id, g.id, g.name
        FROM film_genres fg
        JOIN genres g ON g.id = fg.genre_id
        WHERE fg.film_id = ANY($1)
        ORDER BY fg.film_id, g.id
    `
	queryFilmLikes = `
        SELECT film_id, user_id
        FROM film_likes
        WHERE film_id = ANY($1)
        ORDER BY film_id, user_id
    `
	queryPopular = selectFilms + `
        LEFT JOIN film_likes fl ON fl.film_id = f.id
        GROUP BY f.id, m.id
        ORDER BY COUNT(fl.user_id) DESC, f.id DESC
        LIMIT $1
    `
	insertFilmGenres = `INSERT INTO film_genres (film_id, genre_id) SELECT $1, unnest($2::int[])`
	insertFilmLikes  = `INSERT INTO film_likes (film_id, user_id) SELECT $1, unnest($2::bigint[])`
)

const (
	msgFilmNotFound      = "film not found"
	msgFilmExists        = "film already exists"
	msgErrCreatingFilm   = "error creating film"
	msgErrUpdatingFilm   = "error updating film"
	msgErrFindingFilm    = "error finding film"
	msgErrListingFilms   = "error listing films"
	msgErrDeletingFilm   = "error deleting film"
	msgErrAddingLike     = "error adding like"
	msgErrRemovingLike   = "error removing like"
	msgErrQueryingRating = "error querying popular films"

	errCtxCreateFilm    = "error creating film"
	errCtxUpdateFilm    = "error updating film"
	errCtxQueryFilm     = "error querying film"
	errCtxQueryFilms    = "error querying films"
	errCtxCheckFilm     = "error checking film existence"
	errCtxDeleteFilm    = "error deleting film"
	errCtxWriteGenres   = "error writing film genres"
	errCtxWriteLikes    = "error writing film likes"
	errCtxQueryGenres   = "error querying film genres"
	errCtxQueryLikes    = "error querying film likes"
	errCtxResolveMpa    = "error resolving mpa"
	errCtxResolveGenres = "error resolving genres"
	errCtxAddLike       = "error adding like"
	errCtxRemoveLike    = "error removing like"
)

// FilmRepository реализует интерфейс repositories.FilmRepository для работы с Postgres.
type FilmRepository struct {
	pool PgxPoolInterface
}

// NewFilmRepository создает новый экземпляр репозитория фильмов.
func NewFilmRepository(pool PgxPoolInterface) repositories.FilmRepository {
	return &FilmRepository{pool: pool}
}

func filmLog(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", "film"), zap.String("method", method))
}

// Create создает фильм вместе с жанрами и лайками.
func (r *FilmRepository) Create(ctx context.Context, film *entities.Film) (*entities.Film, error) {
	log := filmLog(ctx, "Create")

	var created *entities.Film
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		resolved, err := resolveFilm(ctx, tx, film)
		if err != nil {
			return err
		}
		if resolved.Genres == nil {
			resolved.Genres = []entities.Genre{}
		}
		if resolved.UserLikes == nil {
			resolved.UserLikes = []int64{}
		}

		if err := requireUniqueKey(ctx, tx, resolved, 0); err != nil {
			return err
		}

		query := `
            INSERT INTO films (name, description, release_date, duration, mpa_id)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id
        `
		err = tx.QueryRow(ctx, query,
			resolved.Name,
			resolved.Description,
			resolved.ReleaseDate,
			resolved.Duration,
			mpaID(resolved),
		).Scan(&resolved.ID)
		if err != nil {
			if pgErrorCode(err) == pgUniqueViolation {
				return entities.ErrFilmExists
			}
			return fmt.Errorf("%s: %w", errCtxCreateFilm, err)
		}

		if err := writeGenres(ctx, tx, resolved.ID, resolved.GenreIDs()); err != nil {
			return err
		}
		if err := writeLikes(ctx, tx, resolved.ID, resolved.UserLikes); err != nil {
			return err
		}

		created = resolved
		return nil
	})
	if err != nil {
		logFilmFailure(ctx, log, msgErrCreatingFilm, err)
		return nil, err
	}

	return created, nil
}

// Update заменяет поля фильма. Жанры и лайки заменяются, только если срез не nil.
func (r *FilmRepository) Update(ctx context.Context, film *entities.Film) (*entities.Film, error) {
	log := filmLog(ctx, "Update")

	if film.ID <= 0 {
		log.Debug(ctx, msgFilmNotFound, zap.Int64("id", film.ID))
		return nil, entities.FilmNotFound(film.ID)
	}

	var updated *entities.Film
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := requireFilm(ctx, tx, film.ID); err != nil {
			return err
		}

		resolved, err := resolveFilm(ctx, tx, film)
		if err != nil {
			return err
		}
		if err := requireUniqueKey(ctx, tx, resolved, film.ID); err != nil {
			return err
		}

		query := `
            UPDATE films
            SET name = $2, description = $3, release_date = $4, duration = $5, mpa_id = $6
            WHERE id = $1
        `
		_, err = tx.Exec(ctx, query,
			film.ID,
			resolved.Name,
			resolved.Description,
			resolved.ReleaseDate,
			resolved.Duration,
			mpaID(resolved),
		)
		if err != nil {
			if pgErrorCode(err) == pgUniqueViolation {
				return entities.ErrFilmExists
			}
			return fmt.Errorf("%s: %w", errCtxUpdateFilm, err)
		}

		if resolved.Genres != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM film_genres WHERE film_id = $1`, film.ID); err != nil {
				return fmt.Errorf("%s: %w", errCtxWriteGenres, err)
			}
			if err := writeGenres(ctx, tx, film.ID, resolved.GenreIDs()); err != nil {
				return err
			}
		}
		if resolved.UserLikes != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM film_likes WHERE film_id = $1`, film.ID); err != nil {
				return fmt.Errorf("%s: %w", errCtxWriteLikes, err)
			}
			if err := writeLikes(ctx, tx, film.ID, resolved.UserLikes); err != nil {
				return err
			}
		}

		updated, err = findFilm(ctx, tx, film.ID)
		return err
	})
	if err != nil {
		logFilmFailure(ctx, log, msgErrUpdatingFilm, err)
		return nil, err
	}

	return updated, nil
}

// FindByID находит фильм по ID.
func (r *FilmRepository) FindByID(ctx context.Context, id int64) (*entities.Film, error) {
	film, err := findFilm(ctx, r.pool, id)
	if err != nil {
		logFilmFailure(ctx, filmLog(ctx, "FindByID"), msgErrFindingFilm, err)
		return nil, err
	}
	return film, nil
}

// FindAll возвращает все фильмы.
func (r *FilmRepository) FindAll(ctx context.Context) ([]*entities.Film, error) {
	films, err := listFilms(ctx, r.pool, selectFilms+` ORDER BY f.id`)
	if err != nil {
		filmLog(ctx, "FindAll").Error(ctx, msgErrListingFilms, zap.Error(err))
		return nil, err
	}
	return films, nil
}

// Exists проверяет наличие фильма.
func (r *FilmRepository) Exists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.pool, queryFilmExists, id)
	if err != nil {
		filmLog(ctx, "Exists").Error(ctx, msgErrFindingFilm, zap.Error(err))
		return false, fmt.Errorf("%s: %w", errCtxCheckFilm, err)
	}
	return found, nil
}

// Delete удаляет фильм. Жанры и лайки удаляются каскадно.
func (r *FilmRepository) Delete(ctx context.Context, id int64) error {
	log := filmLog(ctx, "Delete")

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM films WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxDeleteFilm, err)
		}
		if result.RowsAffected() == 0 {
			return entities.FilmNotFound(id)
		}
		return nil
	})
	if err != nil {
		logFilmFailure(ctx, log, msgErrDeletingFilm, err)
		return err
	}
	return nil
}

// AddLike добавляет лайк. Повторный лайк ничего не меняет.
func (r *FilmRepository) AddLike(ctx context.Context, filmID, userID int64) error {
	log := filmLog(ctx, "AddLike")

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := requireFilm(ctx, tx, filmID); err != nil {
			return err
		}
		if err := requireUsers(ctx, tx, userID); err != nil {
			return err
		}

		query := `
            INSERT INTO film_likes (film_id, user_id)
            VALUES ($1, $2)
            ON CONFLICT DO NOTHING
        `
		if _, err := tx.Exec(ctx, query, filmID, userID); err != nil {
			if pgErrorCode(err) == pgForeignKeyViolation {
				return fmt.Errorf("%w: film id=%d, user id=%d", entities.ErrNotFound, filmID, userID)
			}
			return fmt.Errorf("%s: %w", errCtxAddLike, err)
		}
		return nil
	})
	if err != nil {
		logFilmFailure(ctx, log, msgErrAddingLike, err)
		return err
	}
	return nil
}

// DeleteLike удаляет лайк. Отсутствие пользователя или лайка не является ошибкой.
func (r *FilmRepository) DeleteLike(ctx context.Context, filmID, userID int64) error {
	log := filmLog(ctx, "DeleteLike")

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := requireFilm(ctx, tx, filmID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM film_likes WHERE film_id = $1 AND user_id = $2`, filmID, userID); err != nil {
			return fmt.Errorf("%s: %w", errCtxRemoveLike, err)
		}
		return nil
	})
	if err != nil {
		logFilmFailure(ctx, log, msgErrRemovingLike, err)
		return err
	}
	return nil
}

// Popular возвращает count самых популярных фильмов.
func (r *FilmRepository) Popular(ctx context.Context, count int) ([]*entities.Film, error) {
	if count <= 0 {
		return []*entities.Film{}, nil
	}

	films, err := listFilms(ctx, r.pool, queryPopular, count)
	if err != nil {
		filmLog(ctx, "Popular").Error(ctx, msgErrQueryingRating, zap.Error(err))
		return nil, err
	}
	return films, nil
}

func logFilmFailure(ctx context.Context, log *logger.Logger, msg string, err error) {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		log.Debug(ctx, msgFilmNotFound, zap.Error(err))
	case errors.Is(err, entities.ErrConflict):
		log.Debug(ctx, msgFilmExists, zap.Error(err))
	default:
		log.Error(ctx, msg, zap.Error(err))
	}
}

func mpaID(film *entities.Film) interface{} {
	if film.Mpa == nil {
		return nil
	}
	return film.Mpa.ID
}

func requireFilm(ctx context.Context, q Querier, id int64) error {
	found, err := exists(ctx, q, queryFilmExists, id)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxCheckFilm, err)
	}
	if !found {
		return entities.FilmNotFound(id)
	}
	return nil
}

func requireUniqueKey(ctx context.Context, q Querier, film *entities.Film, ownID int64) error {
	key := film.Key()
	taken, err := exists(ctx, q, queryFilmKey, key.Name, key.Description, key.ReleaseDate, key.Duration, ownID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxCheckFilm, err)
	}
	if taken {
		return entities.ErrFilmExists
	}
	return nil
}

// resolveFilm проверяет ссылки фильма и возвращает копию с названиями из справочников.
func resolveFilm(ctx context.Context, q Querier, film *entities.Film) (*entities.Film, error) {
	resolved := film.Clone()
	resolved.ReleaseDate = entities.DateOnly(film.ReleaseDate)

	if film.Mpa != nil {
		mpa, err := findMpa(ctx, q, film.Mpa.ID)
		if err != nil {
			return nil, err
		}
		resolved.Mpa = &mpa
	}

	if film.Genres != nil {
		genres, err := resolveGenres(ctx, q, film.GenreIDs())
		if err != nil {
			return nil, err
		}
		resolved.Genres = genres
	}

	if film.UserLikes != nil {
		resolved.UserLikes = entities.UniqueSorted(film.UserLikes)
		if err := requireUsers(ctx, q, resolved.UserLikes...); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}

func resolveGenres(ctx context.Context, q Querier, ids []int) ([]entities.Genre, error) {
	genres := make([]entities.Genre, 0, len(ids))
	if len(ids) == 0 {
		return genres, nil
	}

	rows, err := q.Query(ctx, `SELECT id, name FROM genres WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxResolveGenres, err)
	}
	defer rows.Close()

	for rows.Next() {
		var g entities.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxResolveGenres, err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxResolveGenres, err)
	}

	for i, id := range ids {
		if i >= len(genres) || genres[i].ID != id {
			return nil, entities.GenreNotFound(id)
		}
	}
	return genres, nil
}

func writeGenres(ctx context.Context, tx pgx.Tx, filmID int64, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, insertFilmGenres, filmID, genreIDs); err != nil {
		return fmt.Errorf("%s: %w", errCtxWriteGenres, err)
	}
	return nil
}

func writeLikes(ctx context.Context, tx pgx.Tx, filmID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, insertFilmLikes, filmID, userIDs); err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("%w: %v", entities.ErrUserNotFound, userIDs)
		}
		return fmt.Errorf("%s: %w", errCtxWriteLikes, err)
	}
	return nil
}

func scanFilm(row pgx.Row) (*entities.Film, error) {
	var (
		film entities.Film
		mpa  entities.Mpa
	)
	if err := row.Scan(
		&film.ID,
		&film.Name,
		&film.Description,
		&film.ReleaseDate,
		&film.Duration,
		&mpa.ID,
		&mpa.Name,
	); err != nil {
		return nil, err
	}
	if mpa.ID != 0 {
		film.Mpa = &mpa
	}
	film.Genres = []entities.Genre{}
	film.UserLikes = []int64{}
	return &film, nil
}

func findFilm(ctx context.Context, q Querier, id int64) (*entities.Film, error) {
	film, err := scanFilm(q.QueryRow(ctx, selectFilms+` WHERE f.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.FilmNotFound(id)
		}
		return nil, fmt.Errorf("%s: %w", errCtxQueryFilm, err)
	}

	if err := attachRelations(ctx, q, []*entities.Film{film}); err != nil {
		return nil, err
	}
	return film, nil
}

func listFilms(ctx context.Context, q Querier, query string, args ...interface{}) ([]*entities.Film, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxQueryFilms, err)
	}

	films := make([]*entities.Film, 0)
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: %w", errCtxQueryFilms, err)
		}
		films = append(films, film)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxQueryFilms, err)
	}

	if err := attachRelations(ctx, q, films); err != nil {
		return nil, err
	}
	return films, nil
}

// attachRelations загружает жанры и лайки для всех фильмов двумя запросами.
func attachRelations(ctx context.Context, q Querier, films []*entities.Film) error {
	if len(films) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(films))
	byID := make(map[int64]*entities.Film, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
		byID[f.ID] = f
	}

	genreRows, err := q.Query(ctx, queryFilmGenres, ids)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxQueryGenres, err)
	}
	for genreRows.Next() {
		var (
			filmID int64
			genre  entities.Genre
		)
		if err := genreRows.Scan(&filmID, &genre.ID, &genre.Name); err != nil {
			genreRows.Close()
			return fmt.Errorf("%s: %w", errCtxQueryGenres, err)
		}
		if f, ok := byID[filmID]; ok {
			f.Genres = append(f.Genres, genre)
		}
	}
	genreRows.Close()
	if err := genreRows.Err(); err != nil {
		return fmt.Errorf("%s: %w", errCtxQueryGenres, err)
	}

	likeRows, err := q.Query(ctx, queryFilmLikes, ids)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxQueryLikes, err)
	}
	for likeRows.Next() {
		var filmID, userID int64
		if err := likeRows.Scan(&filmID, &userID); err != nil {
			likeRows.Close()
			return fmt.Errorf("%s: %w", errCtxQueryLikes, err)
		}
		if f, ok := byID[filmID]; ok {
			f.UserLikes = append(f.UserLikes, userID)
		}
	}
	likeRows.Close()
	if err := likeRows.Err(); err != nil {
		return fmt.Errorf("%s: %w", errCtxQueryLikes, err)
	}

	return nil
}
