// Package config содержит конфигурацию сервиса аутентификации.
package config

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "gocollab/pkg/config"
	"gocollab/pkg/logger"
)

const (
	serviceName  = "auth"
	LogConfigSet = "authentication service configuration"
)

// Ошибки проверки конфигурации.
var (
	ErrMissingSecret    = errors.New("token secret must not be empty")
	ErrSameSecrets      = errors.New("access and refresh token secrets must differ")
	ErrNonPositiveTTL   = errors.New("token expiry must be positive")
	ErrUnknownDriver    = errors.New("unknown storage driver")
	ErrInvalidLimiter   = errors.New("invalid login limiter settings")
	ErrInvalidHTTPLimit = errors.New("invalid http rate limit settings")
)

// Config представляет полную конфигурацию сервиса.
type Config struct {
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Security SecurityConfig
	Storage  StorageConfig
	Logging  LoggingConfig
	Shutdown ShutdownConfig
}

// Load читает конфигурацию из envPath (если файл существует) и окружения и проверяет ее.
func Load(ctx context.Context, envPath string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName, envPath)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, LogConfigSet,
		zap.String("http_address", cfg.HTTP.Address()),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("hash_algorithm", cfg.Password.Algorithm),
		zap.Int("hash_cost", cfg.Password.Cost),
		zap.Int("access_token_expiry_seconds", cfg.JWT.AccessTokenExpiry),
		zap.Int("refresh_token_expiry_seconds", cfg.JWT.RefreshTokenExpiry),
		zap.Bool("login_limiter_enabled", cfg.Security.LoginLimiterEnabled),
		zap.Bool("hide_account_existence", cfg.Security.HideAccountExistence),
		zap.String("log_level", cfg.Logging.Level),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}

// Validate проверяет значения, которые cleanenv проверить не может.
func (c *Config) Validate() error {
	var errs []error

	errs = append(errs, c.JWT.Validate(), c.Password.Validate(), c.Storage.Validate(), c.Security.Validate())
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		errs = append(errs, ErrInvalidHTTPLimit)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
