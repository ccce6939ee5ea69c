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
	msgErrQueryingDictionary = "error querying dictionary"

	errCtxQueryGenre = "error querying genre"
	errCtxQueryMpa   = "error querying mpa"
)

// GenreRepository читает справочник жанров.
type GenreRepository struct {
	pool PgxPoolInterface
}

// NewGenreRepository создает новый экземпляр справочника жанров.
func NewGenreRepository(pool PgxPoolInterface) repositories.GenreRepository {
	return &GenreRepository{pool: pool}
}

// FindAll возвращает все жанры.
func (r *GenreRepository) FindAll(ctx context.Context) ([]entities.Genre, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		dictionaryLog(ctx, "genre", "FindAll").Error(ctx, msgErrQueryingDictionary, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxQueryGenre, err)
	}
	defer rows.Close()

	genres := make([]entities.Genre, 0)
	for rows.Next() {
		var g entities.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxQueryGenre, err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxQueryGenre, err)
	}
	return genres, nil
}

// FindByID возвращает жанр по ID.
func (r *GenreRepository) FindByID(ctx context.Context, id int) (entities.Genre, error) {
	g := entities.Genre{ID: id}
	err := r.pool.QueryRow(ctx, `SELECT name FROM genres WHERE id = $1`, id).Scan(&g.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Genre{}, entities.GenreNotFound(id)
		}
		dictionaryLog(ctx, "genre", "FindByID").Error(ctx, msgErrQueryingDictionary, zap.Error(err))
		return entities.Genre{}, fmt.Errorf("%s: %w", errCtxQueryGenre, err)
	}
	return g, nil
}

// MpaRepository читает справочник рейтингов MPA.
type MpaRepository struct {
	pool PgxPoolInterface
}

// NewMpaRepository создает новый экземпляр справочника рейтингов.
func NewMpaRepository(pool PgxPoolInterface) repositories.MpaRepository {
	return &MpaRepository{pool: pool}
}

// FindAll возвращает все рейтинги.
func (r *MpaRepository) FindAll(ctx context.Context) ([]entities.Mpa, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM mpa ORDER BY id`)
	if err != nil {
		dictionaryLog(ctx, "mpa", "FindAll").Error(ctx, msgErrQueryingDictionary, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxQueryMpa, err)
	}
	defer rows.Close()

	ratings := make([]entities.Mpa, 0)
	for rows.Next() {
		var m entities.Mpa
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxQueryMpa, err)
		}
		ratings = append(ratings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxQueryMpa, err)
	}
	return ratings, nil
}

// FindByID возвращает рейтинг по ID.
func (r *MpaRepository) FindByID(ctx context.Context, id int) (entities.Mpa, error) {
	m, err := findMpa(ctx, r.pool, id)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		dictionaryLog(ctx, "mpa", "FindByID").Error(ctx, msgErrQueryingDictionary, zap.Error(err))
	}
	return m, err
}

func dictionaryLog(ctx context.Context, name, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", name), zap.String("method", method))
}

func findMpa(ctx context.Context, q Querier, id int) (entities.Mpa, error) {
	m := entities.Mpa{ID: id}
	err := q.QueryRow(ctx, `SELECT name FROM mpa WHERE id = $1`, id).Scan(&m.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Mpa{}, entities.MpaNotFound(id)
		}
		return entities.Mpa{}, fmt.Errorf("%s: %w", errCtxResolveMpa, err)
	}
	return m, nil
}
