package config

import (
	"time"

	"filmorate/pkg/db/redis"
	"filmorate/pkg/resilience"
)

// RedisConfig содержит настройки Redis для общей последовательности идентификаторов.
type RedisConfig struct {
	Host     string        `yaml:"host" env:"FILMORATE_REDIS_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"FILMORATE_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"FILMORATE_REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"FILMORATE_REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"FILMORATE_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `yaml:"timeout" env:"FILMORATE_REDIS_TIMEOUT" env-default:"5s"`

	RetryAttempts    int           `yaml:"retry_attempts" env:"FILMORATE_REDIS_RETRY_ATTEMPTS" env-default:"3"`
	RetryBackoff     time.Duration `yaml:"retry_backoff" env:"FILMORATE_REDIS_RETRY_BACKOFF" env-default:"100ms"`
	BreakerThreshold int           `yaml:"breaker_threshold" env:"FILMORATE_REDIS_BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout" env:"FILMORATE_REDIS_BREAKER_TIMEOUT" env-default:"10s"`
}

// ToRedisConfig преобразует настройки в конфигурацию клиента.
func (c *RedisConfig) ToRedisConfig() *redis.Config {
	return &redis.Config{
		Host:     c.Host,
		Port:     c.Port,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
		Timeout:  c.Timeout,
	}
}

// ToCircuitBreakerConfig возвращает настройки Circuit Breaker для вызовов Redis.
func (c *RedisConfig) ToCircuitBreakerConfig() resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.ErrorThreshold = c.BreakerThreshold
	cfg.Timeout = c.BreakerTimeout
	return cfg
}

// ToRetryConfig возвращает настройки повторных попыток для вызовов Redis.
func (c *RedisConfig) ToRetryConfig() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = c.RetryAttempts
	cfg.InitialBackoff = c.RetryBackoff
	return cfg
}
