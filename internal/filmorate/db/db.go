// Package db инициализирует базу данных каталога фильмов.
package db

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"filmorate/internal/filmorate/config"
	"filmorate/pkg/db/postgres"
	"filmorate/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing filmorate database"
	LogDBInitialized     = "filmorate database initialized successfully"
	LogMigrationStarting = "starting filmorate database migrations"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations = "failed to apply filmorate database migrations"
	ErrDBConnection = "failed to connect to filmorate database"
	ErrGetPath      = "failed to get path"
)

// DB представляет соединение с базой данных каталога.
type DB struct {
	database *postgres.Database
}

// MigrationsURL преобразует каталог миграций в URL источника file://.
func MigrationsURL(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return "file://" + dir, nil
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrGetPath, err)
	}
	return "file://" + absPath, nil
}

// New применяет миграции и открывает пул соединений.
func New(ctx context.Context, cfg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	migrationsPath, err := MigrationsURL(cfg.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", migrationsPath))
	status, err := postgres.Migrate(ctx, cfg.GetConnectionURL(), migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	database, err := postgres.New(ctx, postgres.Options{
		DSN:            cfg.GetDSN(),
		MinConns:       cfg.MinConn,
		MaxConns:       cfg.MaxConn,
		ConnectTimeout: cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogDBInitialized,
		zap.Uint("schema_version", status.Version),
		zap.Bool("schema_changed", status.Changed))

	return &DB{database: database}, nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет доступность базы данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}
