// Package config содержит конфигурацию сервиса каталога фильмов.
package config

import (
	"context"
	"os"

	"go.uber.org/zap"

	pkgconfig "filmorate/pkg/config"
	"filmorate/pkg/logger"
)

const (
	// ServiceName - имя сервиса в логах.
	ServiceName = "filmorate"

	// EnvConfigPath - переменная окружения с путем к необязательному YAML файлу.
	EnvConfigPath = "FILMORATE_CONFIG_PATH"

	LogConfigSummary = "filmorate configuration"
)

// Config представляет полную конфигурацию приложения.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из окружения и файла FILMORATE_CONFIG_PATH, если он задан.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, os.Getenv(EnvConfigPath))
	if err != nil {
		return nil, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, LogConfigSummary,
		zap.String("storage", cfg.Storage.Type),
		zap.String("sequence", cfg.Storage.Sequence),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("grpc_address", cfg.GRPC.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}
