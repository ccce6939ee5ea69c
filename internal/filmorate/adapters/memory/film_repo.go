package memory

import (
	"cmp"
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
	msgFilmNotFound    = "film not found"
	msgFilmExists      = "film with the same business key exists"
	msgFilmCreated     = "film created"
	msgFilmUpdated     = "film updated"
	msgFilmDeleted     = "film deleted"
	msgLikeAdded       = "like added"
	msgLikeRemoved     = "like removed"
	msgReferenceFailed = "film references validation failed"
	errCtxNextFilmID   = "allocating film id"
	errCtxCheckUser    = "checking user existence"
	repositoryNameFilm = "memory.film"
)

// UserChecker сообщает, существует ли пользователь.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type filmRecord struct {
	film  *entities.Film
	likes map[int64]struct{}
}

// FilmRepository хранит фильмы, жанры и лайки в памяти процесса.
//
// Справочники проверяются до захвата блокировки. Существование пользователей
// проверяется под блокировкой хранилища фильмов: порядок всегда "фильмы, затем
// пользователи", а хранилище пользователей вызывает обработчики удаления уже
// после снятия своей блокировки.
type FilmRepository struct {
	mu     sync.RWMutex
	seq    repositories.Sequence
	users  UserChecker
	genres repositories.GenreRepository
	mpa    repositories.MpaRepository
	films  map[int64]*filmRecord
	keys   map[entities.BusinessKey]int64
}

// NewFilmRepository создает пустое хранилище фильмов.
func NewFilmRepository(
	seq repositories.Sequence,
	users UserChecker,
	genres repositories.GenreRepository,
	mpa repositories.MpaRepository,
) *FilmRepository {
	if seq == nil {
		seq = NewSequence()
	}
	return &FilmRepository{
		seq:    seq,
		users:  users,
		genres: genres,
		mpa:    mpa,
		films:  make(map[int64]*filmRecord),
		keys:   make(map[entities.BusinessKey]int64),
	}
}

func (r *FilmRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String(fieldRepository, repositoryNameFilm), zap.String(fieldMethod, method))
}

// Create сохраняет фильм вместе с переданными жанрами и лайками.
func (r *FilmRepository) Create(ctx context.Context, film *entities.Film) (*entities.Film, error) {
	log := r.log(ctx, "Create")

	resolved, err := r.resolveReferences(ctx, film)
	if err != nil {
		log.Debug(ctx, msgReferenceFailed, zap.Error(err))
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireUsers(ctx, film.UserLikes); err != nil {
		log.Debug(ctx, msgReferenceFailed, zap.Error(err))
		return nil, err
	}

	key := resolved.Key()
	if _, exists := r.keys[key]; exists {
		log.Debug(ctx, msgFilmExists, zap.String("name", film.Name))
		return nil, entities.ErrFilmExists
	}

	id, err := r.seq.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxNextFilmID, err)
	}
	resolved.ID = id

	record := &filmRecord{film: resolved, likes: make(map[int64]struct{})}
	for _, userID := range film.UserLikes {
		record.likes[userID] = struct{}{}
	}
	record.film.UserLikes = nil

	r.films[id] = record
	r.keys[key] = id

	log.Debug(ctx, msgFilmCreated, zap.Int64("id", id))
	return r.view(record), nil
}

// Update заменяет скалярные поля фильма. Жанры и лайки заменяются,
// только если соответствующий срез не nil.
func (r *FilmRepository) Update(ctx context.Context, film *entities.Film) (*entities.Film, error) {
	log := r.log(ctx, "Update")

	exists, _ := r.Exists(ctx, film.ID)
	if !exists {
		log.Debug(ctx, msgFilmNotFound, zap.Int64("id", film.ID))
		return nil, entities.FilmNotFound(film.ID)
	}

	resolved, err := r.resolveReferences(ctx, film)
	if err != nil {
		log.Debug(ctx, msgReferenceFailed, zap.Error(err))
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.films[film.ID]
	if !ok {
		log.Debug(ctx, msgFilmNotFound, zap.Int64("id", film.ID))
		return nil, entities.FilmNotFound(film.ID)
	}
	if err := r.requireUsers(ctx, film.UserLikes); err != nil {
		log.Debug(ctx, msgReferenceFailed, zap.Error(err))
		return nil, err
	}

	oldKey := record.film.Key()
	newKey := resolved.Key()
	if owner, taken := r.keys[newKey]; taken && owner != film.ID {
		log.Debug(ctx, msgFilmExists, zap.Int64("owner", owner))
		return nil, entities.ErrFilmExists
	}

	if resolved.Genres == nil {
		resolved.Genres = record.film.Genres
	}
	if film.UserLikes != nil {
		record.likes = make(map[int64]struct{}, len(film.UserLikes))
		for _, userID := range film.UserLikes {
			record.likes[userID] = struct{}{}
		}
	}
	resolved.UserLikes = nil
	record.film = resolved

	delete(r.keys, oldKey)
	r.keys[newKey] = film.ID

	log.Debug(ctx, msgFilmUpdated, zap.Int64("id", film.ID))
	return r.view(record), nil
}

// FindByID возвращает фильм по идентификатору.
func (r *FilmRepository) FindByID(ctx context.Context, id int64) (*entities.Film, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.films[id]
	if !ok {
		r.log(ctx, "FindByID").Debug(ctx, msgFilmNotFound, zap.Int64("id", id))
		return nil, entities.FilmNotFound(id)
	}
	return r.view(record), nil
}

// FindAll возвращает все фильмы в порядке возрастания идентификаторов.
func (r *FilmRepository) FindAll(_ context.Context) ([]*entities.Film, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Film, 0, len(r.films))
	for _, id := range slices.Sorted(maps.Keys(r.films)) {
		out = append(out, r.view(r.films[id]))
	}
	return out, nil
}

// Exists проверяет наличие фильма.
func (r *FilmRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.films[id]
	return ok, nil
}

// Delete удаляет фильм вместе со всеми его жанрами и лайками.
func (r *FilmRepository) Delete(ctx context.Context, id int64) error {
	log := r.log(ctx, "Delete")

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.films[id]
	if !ok {
		log.Debug(ctx, msgFilmNotFound, zap.Int64("id", id))
		return entities.FilmNotFound(id)
	}

	delete(r.keys, record.film.Key())
	delete(r.films, id)

	log.Debug(ctx, msgFilmDeleted, zap.Int64("id", id))
	return nil
}

// AddLike добавляет лайк пользователя. Повторный лайк ничего не меняет.
func (r *FilmRepository) AddLike(ctx context.Context, filmID, userID int64) error {
	log := r.log(ctx, "AddLike")

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.films[filmID]
	if !ok {
		log.Debug(ctx, msgFilmNotFound, zap.Int64("id", filmID))
		return entities.FilmNotFound(filmID)
	}
	if err := r.requireUsers(ctx, []int64{userID}); err != nil {
		log.Debug(ctx, msgUserNotFound, zap.Error(err))
		return err
	}
	record.likes[userID] = struct{}{}

	log.Debug(ctx, msgLikeAdded, zap.Int64("film_id", filmID), zap.Int64("user_id", userID))
	return nil
}

// DeleteLike удаляет лайк. Отсутствие пользователя или лайка не является ошибкой.
func (r *FilmRepository) DeleteLike(ctx context.Context, filmID, userID int64) error {
	log := r.log(ctx, "DeleteLike")

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.films[filmID]
	if !ok {
		log.Debug(ctx, msgFilmNotFound, zap.Int64("id", filmID))
		return entities.FilmNotFound(filmID)
	}
	delete(record.likes, userID)

	log.Debug(ctx, msgLikeRemoved, zap.Int64("film_id", filmID), zap.Int64("user_id", userID))
	return nil
}

// RemoveUserLikes снимает все лайки пользователя. Используется при удалении пользователя.
func (r *FilmRepository) RemoveUserLikes(_ context.Context, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.films {
		delete(record.likes, userID)
	}
}

// Popular возвращает самые популярные фильмы.
func (r *FilmRepository) Popular(_ context.Context, count int) ([]*entities.Film, error) {
	if count <= 0 {
		return []*entities.Film{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	records := slices.Collect(maps.Values(r.films))
	slices.SortFunc(records, func(a, b *filmRecord) int {
		if c := cmp.Compare(len(b.likes), len(a.likes)); c != 0 {
			return c
		}
		return cmp.Compare(b.film.ID, a.film.ID)
	})

	if len(records) > count {
		records = records[:count]
	}

	out := make([]*entities.Film, 0, len(records))
	for _, record := range records {
		out = append(out, r.view(record))
	}
	return out, nil
}

// resolveReferences проверяет рейтинг и жанры и возвращает копию
// фильма с названиями из справочников. Genres остается nil, если не передан.
func (r *FilmRepository) resolveReferences(ctx context.Context, film *entities.Film) (*entities.Film, error) {
	resolved := film.Clone()
	resolved.ReleaseDate = entities.DateOnly(film.ReleaseDate)

	if film.Mpa != nil {
		mpa, err := r.mpa.FindByID(ctx, film.Mpa.ID)
		if err != nil {
			return nil, err
		}
		resolved.Mpa = &mpa
	}

	if film.Genres != nil {
		ids := film.GenreIDs()
		resolved.Genres = make([]entities.Genre, 0, len(ids))
		for _, id := range ids {
			genre, err := r.genres.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			resolved.Genres = append(resolved.Genres, genre)
		}
	}

	return resolved, nil
}

func (r *FilmRepository) requireUsers(ctx context.Context, ids []int64) error {
	for _, id := range entities.UniqueSorted(ids) {
		exists, err := r.users.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxCheckUser, err)
		}
		if !exists {
			return entities.UserNotFound(id)
		}
	}
	return nil
}

func (r *FilmRepository) view(record *filmRecord) *entities.Film {
	f := record.film.Clone()
	if f.Genres == nil {
		f.Genres = []entities.Genre{}
	}
	f.UserLikes = slices.Sorted(maps.Keys(record.likes))
	if f.UserLikes == nil {
		f.UserLikes = []int64{}
	}
	return f
}
