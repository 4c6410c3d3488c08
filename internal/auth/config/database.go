package config

import (
	"fmt"
	"net/url"
	"time"
)

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host           string `env:"AUTH_POSTGRES_HOST" env-default:"localhost"`
	Port           int    `env:"AUTH_POSTGRES_PORT" env-default:"5432"`
	User           string `env:"AUTH_POSTGRES_USER" env-default:"postgres"`
	Password       string `env:"AUTH_POSTGRES_PASSWORD" env-default:"postgres"`
	Database       string `env:"AUTH_POSTGRES_DB" env-default:"auth"`
	SSLMode        string `env:"AUTH_POSTGRES_SSLMODE" env-default:"disable"`
	MinConn        int    `env:"AUTH_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn        int    `env:"AUTH_POSTGRES_MAX_CONN" env-default:"10"`
	QueryTimeout   int    `env:"AUTH_POSTGRES_QUERY_TIMEOUT" env-default:"3"`
	ConnectRetries int    `env:"AUTH_POSTGRES_CONNECT_RETRIES" env-default:"5"`
	MigrationsDir  string `env:"AUTH_MIGRATIONS_DIR" env-default:"migrations/auth"`
}

// GetDSN возвращает строку подключения для pgx.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// GetConnectionURL возвращает URL подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     p.Database,
		RawQuery: "sslmode=" + p.SSLMode,
	}
	return u.String()
}

// GetQueryTimeout возвращает таймаут одного запроса.
func (p *PostgresConfig) GetQueryTimeout() time.Duration {
	return time.Duration(p.QueryTimeout) * time.Second
}
