// Package services содержит реализации сервисов паролей и токенов
// и фабрику, собирающую их по конфигурации.
package services

import (
	"errors"
	"fmt"

	"gocollab/internal/auth/domain/services"
	ports "gocollab/internal/auth/ports/services"
)

// ErrUnknownAlgorithm возвращается для неподдерживаемого алгоритма хеширования.
var ErrUnknownAlgorithm = errors.New("unknown password hash algorithm")

// FactoryConfig содержит параметры сервисов аутентификации.
type FactoryConfig struct {
	JWT                 services.JWTConfig
	HashAlgorithm       services.HashAlgorithm
	HashCost            int
	MaxConcurrentHashes int
}

// ServiceFactory создает сервисы паролей и токенов.
type ServiceFactory struct {
	passwordService ports.PasswordService
	tokenService    ports.TokenService
}

// NewServiceFactory создает фабрику. Алгоритм по умолчанию - bcrypt.
func NewServiceFactory(cfg FactoryConfig, jwtOpts ...JWTOption) (*ServiceFactory, error) {
	passwords, err := NewPasswordService(cfg.HashAlgorithm, cfg.HashCost, cfg.MaxConcurrentHashes)
	if err != nil {
		return nil, err
	}

	return &ServiceFactory{
		passwordService: passwords,
		tokenService:    NewJWT(cfg.JWT, jwtOpts...),
	}, nil
}

// NewPasswordService выбирает реализацию по алгоритму и проверяет стоимость.
func NewPasswordService(algorithm services.HashAlgorithm, cost, maxConcurrent int) (ports.PasswordService, error) {
	switch algorithm {
	case services.AlgorithmBcrypt, "":
		if err := ValidateBcryptCost(cost); err != nil {
			return nil, err
		}
		return NewBcrypt(cost, maxConcurrent), nil
	case services.AlgorithmArgon2id:
		if err := ValidateArgon2idCost(cost); err != nil {
			return nil, err
		}
		return NewArgon2id(cost, maxConcurrent), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// ValidateCost проверяет стоимость для выбранного алгоритма.
func ValidateCost(algorithm services.HashAlgorithm, cost int) error {
	switch algorithm {
	case services.AlgorithmBcrypt, "":
		return ValidateBcryptCost(cost)
	case services.AlgorithmArgon2id:
		return ValidateArgon2idCost(cost)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() ports.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис токенов.
func (f *ServiceFactory) TokenService() ports.TokenService {
	return f.tokenService
}
