package config

import (
	"fmt"
	"time"
)

// HTTPConfig содержит настройки HTTP сервера.
type HTTPConfig struct {
	Host         string        `env:"AUTH_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `env:"AUTH_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"AUTH_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"AUTH_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"AUTH_HTTP_IDLE_TIMEOUT" env-default:"60s"`
	BodyLimit    int           `env:"AUTH_HTTP_BODY_LIMIT" env-default:"65536"`
	// RateLimit - запросов в секунду на IP для /auth; 0 отключает ограничение.
	RateLimit     float64       `env:"AUTH_HTTP_RATE_LIMIT" env-default:"10"`
	RateBurst     int           `env:"AUTH_HTTP_RATE_BURST" env-default:"20"`
	RateCacheSize int           `env:"AUTH_HTTP_RATE_CACHE_SIZE" env-default:"10000"`
	RateEntryTTL  time.Duration `env:"AUTH_HTTP_RATE_ENTRY_TTL" env-default:"10m"`
}

// Address возвращает адрес для прослушивания.
func (h *HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}
