package config

import (
	"time"

	redisdb "gocollab/pkg/db/redis"
)

// RedisConfig содержит настройки Redis для ограничителя попыток входа.
type RedisConfig struct {
	Host     string        `env:"AUTH_REDIS_HOST" env-default:"localhost"`
	Port     int           `env:"AUTH_REDIS_PORT" env-default:"6379"`
	Password string        `env:"AUTH_REDIS_PASSWORD" env-default:""`
	DB       int           `env:"AUTH_REDIS_DB" env-default:"0"`
	PoolSize int           `env:"AUTH_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `env:"AUTH_REDIS_TIMEOUT" env-default:"3s"`
}

// Client возвращает конфигурацию клиента Redis.
func (r *RedisConfig) Client() *redisdb.Config {
	return &redisdb.Config{
		Host:     r.Host,
		Port:     r.Port,
		Password: r.Password,
		DB:       r.DB,
		PoolSize: r.PoolSize,
		Timeout:  r.Timeout,
	}
}
