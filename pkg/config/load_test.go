package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/pkg/config"
)

type sample struct {
	Name  string `yaml:"name" env:"SAMPLE_NAME" env-default:"default-name"`
	Count int    `yaml:"count" env:"SAMPLE_COUNT" env-default:"3"`
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-env")

	cfg, err := config.Load[sample](context.Background(), "test", "")

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 3, cfg.Count)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\ncount: 7\n"), 0o600))

	cfg, err := config.Load[sample](context.Background(), "test", path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, 7, cfg.Count)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := config.Load[sample](context.Background(), "test", filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Nil(t, cfg)
}
