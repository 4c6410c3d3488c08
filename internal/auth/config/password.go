package config

import (
	"fmt"

	adapters "gocollab/internal/auth/adapters/services"
	"gocollab/internal/auth/domain/services"
)

// PasswordConfig содержит настройки хеширования паролей.
type PasswordConfig struct {
	Algorithm     string `env:"AUTH_PASSWORD_HASH_ALGORITHM" env-default:"bcrypt"`
	Cost          int    `env:"AUTH_PASSWORD_HASH_COST" env-required:"true"`
	MaxConcurrent int    `env:"AUTH_PASSWORD_HASH_MAX_CONCURRENT" env-default:"0"`
}

// HashAlgorithm возвращает алгоритм в доменном виде.
func (c *PasswordConfig) HashAlgorithm() services.HashAlgorithm {
	return services.HashAlgorithm(c.Algorithm)
}

// Validate проверяет алгоритм и допустимость стоимости для него.
func (c *PasswordConfig) Validate() error {
	if err := adapters.ValidateCost(c.HashAlgorithm(), c.Cost); err != nil {
		return fmt.Errorf("AUTH_PASSWORD_HASH_COST: %w", err)
	}
	return nil
}
