package db_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/filmorate/config"
	"filmorate/internal/filmorate/db"
)

func TestMigrationsURL(t *testing.T) {
	t.Run("absolute path", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "migrations")
		url, err := db.MigrationsURL(dir)
		require.NoError(t, err)
		assert.Equal(t, "file://"+dir, url)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		url, err := db.MigrationsURL("migrations/filmorate")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "file:///"))
		assert.True(t, strings.HasSuffix(url, filepath.Join("migrations", "filmorate")))
	})
}

func TestNewFailsOnMissingMigrations(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := &config.PostgresConfig{
		Host:          "localhost",
		Port:          1,
		User:          "postgres",
		Password:      "postgres",
		Database:      "filmorate",
		MigrationsDir: filepath.Join(t.TempDir(), "missing"),
	}

	database, err := db.New(ctx, cfg)

	require.Error(t, err)
	assert.Nil(t, database)
	assert.Contains(t, err.Error(), db.ErrDBMigrations)
}
