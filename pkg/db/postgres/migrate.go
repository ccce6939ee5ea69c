package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"filmorate/pkg/logger"
)

// Константы для сообщений миграций.
const (
	LogMigrationsUpToDate = "database schema is up to date"

	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrReadMigrationVersion    = "failed to read migration version"
)

// ErrDirtySchema возвращается, если предыдущая миграция завершилась с ошибкой
// и схема требует ручного исправления.
var ErrDirtySchema = errors.New("database schema is dirty")

// MigrationStatus описывает состояние схемы после применения миграций.
type MigrationStatus struct {
	Version uint
	Changed bool
}

// Migrate применяет миграции из sourceURL (например, file:///migrations) к базе databaseURL.
// Отмена ctx останавливает применение после текущей миграции.
func Migrate(ctx context.Context, databaseURL, sourceURL string) (MigrationStatus, error) {
	log := logger.Log(ctx).With(zap.String("source", sourceURL))

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return MigrationStatus{}, fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer m.Close()

	if _, dirty, err := m.Version(); err == nil && dirty {
		log.Error(ctx, ErrApplyMigrations, zap.Error(ErrDirtySchema))
		return MigrationStatus{}, fmt.Errorf("%s: %w", ErrApplyMigrations, ErrDirtySchema)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	status := MigrationStatus{Changed: true}
	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			log.Error(ctx, ErrApplyMigrations, zap.Error(err))
			return MigrationStatus{}, fmt.Errorf("%s: %w", ErrApplyMigrations, err)
		}
		status.Changed = false
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Error(ctx, ErrReadMigrationVersion, zap.Error(err))
		return MigrationStatus{}, fmt.Errorf("%s: %w", ErrReadMigrationVersion, err)
	}
	status.Version = version

	if status.Changed {
		log.Info(ctx, LogMigrationsApplied, zap.Uint("version", version))
	} else {
		log.Info(ctx, LogMigrationsUpToDate, zap.Uint("version", version))
	}
	return status, nil
}
