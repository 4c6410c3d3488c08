package config

import (
	"fmt"
	"time"

	"gocollab/internal/auth/domain/services"
)

// JWTConfig содержит секреты и сроки жизни токенов. Все поля обязательны.
type JWTConfig struct {
	AccessTokenSecret  string `env:"AUTH_ACCESS_TOKEN_SECRET" env-required:"true"`
	AccessTokenExpiry  int    `env:"AUTH_ACCESS_TOKEN_EXPIRY" env-required:"true"`
	RefreshTokenSecret string `env:"AUTH_REFRESH_TOKEN_SECRET" env-required:"true"`
	RefreshTokenExpiry int    `env:"AUTH_REFRESH_TOKEN_EXPIRY" env-required:"true"`
}

// Validate проверяет, что секреты заданы и различны, а сроки положительны.
func (c *JWTConfig) Validate() error {
	switch {
	case c.AccessTokenSecret == "":
		return fmt.Errorf("AUTH_ACCESS_TOKEN_SECRET: %w", ErrMissingSecret)
	case c.RefreshTokenSecret == "":
		return fmt.Errorf("AUTH_REFRESH_TOKEN_SECRET: %w", ErrMissingSecret)
	case c.AccessTokenSecret == c.RefreshTokenSecret:
		return ErrSameSecrets
	case c.AccessTokenExpiry <= 0:
		return fmt.Errorf("AUTH_ACCESS_TOKEN_EXPIRY: %w", ErrNonPositiveTTL)
	case c.RefreshTokenExpiry <= 0:
		return fmt.Errorf("AUTH_REFRESH_TOKEN_EXPIRY: %w", ErrNonPositiveTTL)
	}
	return nil
}

// AccessTTL возвращает срок жизни access токена.
func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiry) * time.Second
}

// RefreshTTL возвращает срок жизни refresh токена.
func (c *JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpiry) * time.Second
}

// Domain переводит конфигурацию в доменную структуру.
func (c *JWTConfig) Domain() services.JWTConfig {
	return services.JWTConfig{
		AccessSecret:  []byte(c.AccessTokenSecret),
		AccessTTL:     c.AccessTTL(),
		RefreshSecret: []byte(c.RefreshTokenSecret),
		RefreshTTL:    c.RefreshTTL(),
	}
}
