package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gocollab/internal/auth/domain/services"
	svc "gocollab/internal/auth/ports/services"
	"gocollab/pkg/logger"
)

const (
	methodBcryptHash   = "ServiceBcrypt.Hash"
	methodBcryptVerify = "ServiceBcrypt.Verify"

	errMsgFailedToGenerateHash = "failed to generate password hash"
	errMsgWaitingHashSlot      = "waiting for hashing slot"
	msgVerifyAborted           = "password verification aborted"
	msgPasswordTooLong         = "password exceeds bcrypt input limit"
)

// ServiceBcrypt реализует PasswordService на bcrypt.
type ServiceBcrypt struct {
	cost    int
	limiter *hashLimiter
}

// NewBcrypt создает сервис bcrypt. Стоимость проверяется при каждом хешировании.
func NewBcrypt(cost, maxConcurrent int) svc.PasswordService {
	return &ServiceBcrypt{
		cost:    cost,
		limiter: newHashLimiter(maxConcurrent),
	}
}

// ValidateBcryptCost проверяет, что стоимость лежит в допустимом для bcrypt диапазоне.
func ValidateBcryptCost(cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("%w: bcrypt cost %d outside [%d, %d]", services.ErrInvalidCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// Hash хеширует пароль со стоимостью из конфигурации.
func (s *ServiceBcrypt) Hash(ctx context.Context, password string) (string, error) {
	return s.HashWithCost(ctx, password, s.cost)
}

// HashWithCost хеширует пароль bcrypt с заданной стоимостью.
func (s *ServiceBcrypt) HashWithCost(ctx context.Context, password string, cost int) (string, error) {
	if err := ValidateBcryptCost(cost); err != nil {
		return "", fmt.Errorf("%w: %w", services.ErrHashingFailed, err)
	}

	var hashed []byte
	err := s.limiter.do(ctx, func() error {
		var err error
		hashed, err = bcrypt.GenerateFromPassword([]byte(password), cost)
		return err
	})
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		logger.Log(ctx).Debug(ctx, msgPasswordTooLong, zap.String("method", methodBcryptHash))
		return "", fmt.Errorf("%s: %w: %w", errMsgFailedToGenerateHash, services.ErrBadRequest, err)
	}
	if err != nil {
		logger.Log(ctx).Error(ctx, errMsgFailedToGenerateHash,
			zap.String("method", methodBcryptHash),
			zap.Error(err))
		return "", fmt.Errorf("%s: %w: %w", errMsgFailedToGenerateHash, services.ErrHashingFailed, err)
	}

	return string(hashed), nil
}

// Verify сравнивает пароль с хешем. Любая ошибка, включая некорректный хеш, дает false.
func (s *ServiceBcrypt) Verify(ctx context.Context, password, hash string) bool {
	var matched bool
	err := s.limiter.do(ctx, func() error {
		matched = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
		return nil
	})
	if err != nil {
		logger.Log(ctx).Warn(ctx, msgVerifyAborted,
			zap.String("method", methodBcryptVerify),
			zap.String("reason", errMsgWaitingHashSlot),
			zap.Error(err))
		return false
	}
	return matched
}
