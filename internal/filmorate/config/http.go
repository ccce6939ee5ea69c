package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"FILMORATE_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"FILMORATE_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"FILMORATE_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"FILMORATE_HTTP_WRITE_TIMEOUT" env-default:"10s"`

	// MetricsEnabled публикует метрики Prometheus на /metrics.
	MetricsEnabled bool `yaml:"metrics_enabled" env:"FILMORATE_HTTP_METRICS_ENABLED" env-default:"true"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
