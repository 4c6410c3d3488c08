package services

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"
	"go.uber.org/zap"

	"gocollab/internal/auth/domain/services"
	svc "gocollab/internal/auth/ports/services"
	"gocollab/pkg/logger"
)

const (
	methodArgon2idHash   = "ServiceArgon2id.Hash"
	methodArgon2idVerify = "ServiceArgon2id.Verify"
)

// Диапазон стоимости argon2id: число итераций.
const (
	Argon2idMinCost = 1
	Argon2idMaxCost = 10
)

// ServiceArgon2id реализует PasswordService на argon2id. Стоимость задает число итераций.
type ServiceArgon2id struct {
	cost    int
	params  argon2id.Params
	limiter *hashLimiter
}

// NewArgon2id создает сервис argon2id с памятью 64 MiB на хеш.
func NewArgon2id(cost, maxConcurrent int) svc.PasswordService {
	return &ServiceArgon2id{
		cost: cost,
		params: argon2id.Params{
			Memory:      64 * 1024,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		limiter: newHashLimiter(maxConcurrent),
	}
}

// ValidateArgon2idCost проверяет число итераций argon2id.
func ValidateArgon2idCost(cost int) error {
	if cost < Argon2idMinCost || cost > Argon2idMaxCost {
		return fmt.Errorf("%w: argon2id cost %d outside [%d, %d]", services.ErrInvalidCost, cost, Argon2idMinCost, Argon2idMaxCost)
	}
	return nil
}

func (s *ServiceArgon2id) Hash(ctx context.Context, password string) (string, error) {
	return s.HashWithCost(ctx, password, s.cost)
}

func (s *ServiceArgon2id) HashWithCost(ctx context.Context, password string, cost int) (string, error) {
	if err := ValidateArgon2idCost(cost); err != nil {
		return "", fmt.Errorf("%w: %w", services.ErrHashingFailed, err)
	}

	params := s.params
	params.Iterations = uint32(cost) //nolint:gosec

	var hash string
	err := s.limiter.do(ctx, func() error {
		var err error
		hash, err = argon2id.CreateHash(password, &params)
		return err
	})
	if err != nil {
		logger.Log(ctx).Error(ctx, errMsgFailedToGenerateHash,
			zap.String("method", methodArgon2idHash),
			zap.Error(err))
		return "", fmt.Errorf("%s: %w: %w", errMsgFailedToGenerateHash, services.ErrHashingFailed, err)
	}
	return hash, nil
}

// Verify сравнивает пароль с хешем. Некорректный хеш дает false.
func (s *ServiceArgon2id) Verify(ctx context.Context, password, hash string) bool {
	var matched bool
	err := s.limiter.do(ctx, func() error {
		ok, err := argon2id.ComparePasswordAndHash(password, hash)
		matched = ok && err == nil
		return nil
	})
	if err != nil {
		logger.Log(ctx).Warn(ctx, msgVerifyAborted,
			zap.String("method", methodArgon2idVerify),
			zap.Error(err))
		return false
	}
	return matched
}
