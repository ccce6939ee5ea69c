package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"filmorate/internal/filmorate/adapters/memory"
	"filmorate/internal/filmorate/adapters/postgres"
	redisadapter "filmorate/internal/filmorate/adapters/redis"
	"filmorate/internal/filmorate/config"
	"filmorate/internal/filmorate/db"
	"filmorate/internal/filmorate/ports/repositories"
	"filmorate/pkg/db/redis"
	"filmorate/pkg/logger"
	"filmorate/pkg/resilience"
	"filmorate/pkg/shutdown"
)

const (
	LogInitMemoryStorage   = "initializing in-memory storage"
	LogInitPostgresStorage = "initializing postgres storage"
	LogInitRedisSequence   = "initializing redis id sequence"
	LogClosingDB           = "closing database connection"
	LogClosingRedis        = "closing redis connection"

	ErrInitDB    = "failed to initialize database"
	ErrInitRedis = "failed to initialize redis client"

	sequenceUsers = "users"
	sequenceFilms = "films"
)

// stores - выбранные при запуске хранилища и хуки их закрытия.
type stores struct {
	users  repositories.UserRepository
	films  repositories.FilmRepository
	genres repositories.GenreRepository
	mpa    repositories.MpaRepository
	hooks  []shutdown.Hook
}

type repositoryFactory interface {
	UserRepository() repositories.UserRepository
	FilmRepository() repositories.FilmRepository
	GenreRepository() repositories.GenreRepository
	MpaRepository() repositories.MpaRepository
}

func newStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	log := logger.Log(ctx)

	if cfg.Storage.UsesPostgres() {
		log.Info(ctx, LogInitPostgresStorage)
		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrInitDB, err)
		}
		s := fromFactory(postgres.NewRepositoryFactory(database.Pool()))
		s.hooks = append(s.hooks, func(ctx context.Context) error {
			log.Info(ctx, LogClosingDB)
			database.Close(ctx)
			return nil
		})
		return s, nil
	}

	log.Info(ctx, LogInitMemoryStorage, zap.String("sequence", cfg.Storage.Sequence))
	if !cfg.Storage.UsesRedisSequence() {
		return fromFactory(memory.NewRepositoryFactory(nil, nil)), nil
	}

	log.Info(ctx, LogInitRedisSequence)
	client, err := redis.NewClient(ctx, cfg.Redis.ToRedisConfig())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitRedis, err)
	}
	guard := resilience.NewGuard("redis", cfg.Redis.ToCircuitBreakerConfig(), cfg.Redis.ToRetryConfig())
	s := fromFactory(memory.NewRepositoryFactory(
		redisadapter.NewSequence(client, sequenceUsers, redisadapter.WithGuard(guard)),
		redisadapter.NewSequence(client, sequenceFilms, redisadapter.WithGuard(guard)),
	))
	s.hooks = append(s.hooks, func(ctx context.Context) error {
		log.Info(ctx, LogClosingRedis)
		return client.Close()
	})
	return s, nil
}

func fromFactory(f repositoryFactory) *stores {
	return &stores{
		users:  f.UserRepository(),
		films:  f.FilmRepository(),
		genres: f.GenreRepository(),
		mpa:    f.MpaRepository(),
	}
}
