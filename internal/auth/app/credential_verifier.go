package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"gocollab/internal/auth/domain/entities"
	"gocollab/internal/auth/domain/services"
	"gocollab/internal/auth/ports/repositories"
	svc "gocollab/internal/auth/ports/services"
	"gocollab/pkg/logger"
)

const (
	methodResolve      = "Resolve"
	methodAuthenticate = "Authenticate"

	msgResolvingAccount     = "resolving account"
	msgAccountNotFound      = "account not found for identifier"
	msgPasswordMismatch     = "password does not match"
	msgAccountAuthenticated = "account authenticated"
	msgErrResolvingAccount  = "failed to resolve account"
	msgErrDummyHash         = "failed to prepare dummy password hash"

	errCtxResolvingAccount = "resolving account"
	errCtxUnknownKind      = "unknown identifier kind"
	errCtxComparingHash    = "comparing password"

	dummyPassword = "gocollab-dummy-password"
)

// CredentialVerifier находит учетную запись по логину или email и проверяет пароль.
type CredentialVerifier struct {
	repo      repositories.AccountRepository
	passwords svc.PasswordService

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialVerifier создает CredentialVerifier.
func NewCredentialVerifier(repo repositories.AccountRepository, passwords svc.PasswordService) *CredentialVerifier {
	return &CredentialVerifier{repo: repo, passwords: passwords}
}

// Resolve возвращает учетную запись по идентификатору или entities.ErrAccountNotFound.
func (v *CredentialVerifier) Resolve(
	ctx context.Context,
	id services.Identifier,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	log := logger.Log(ctx).With(zap.String("method", methodResolve), zap.String("identifier", id.String()))
	log.Debug(ctx, msgResolvingAccount)

	var (
		account *entities.Account
		err     error
	)
	switch id.Kind {
	case services.IdentifierLogin:
		account, err = v.repo.FindByLogin(ctx, id.Value, opts...)
	case services.IdentifierEmail:
		account, err = v.repo.FindByEmail(ctx, id.Value, opts...)
	default:
		return nil, fmt.Errorf("%s: %w", errCtxUnknownKind, services.ErrBadRequest)
	}
	if err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) {
			log.Debug(ctx, msgAccountNotFound)
		} else {
			log.Error(ctx, msgErrResolvingAccount, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxResolvingAccount, err)
	}

	return account, nil
}

// Authenticate проверяет пароль учетной записи. Возвращает entities.ErrAccountNotFound
// или services.ErrCredentialMismatch. Для неизвестного идентификатора выполняется
// сравнение с фиктивным хешем, чтобы время ответа не выдавало наличие учетной записи.
func (v *CredentialVerifier) Authenticate(
	ctx context.Context,
	id services.Identifier,
	password string,
) (*entities.Account, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate), zap.String("identifier", id.String()))

	account, err := v.Resolve(ctx, id, repositories.WithPasswordHash())
	if err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) {
			v.compareDummy(ctx, password)
		}
		return nil, err
	}

	if !v.passwords.Verify(ctx, password, account.PasswordHash) {
		log.Debug(ctx, msgPasswordMismatch, zap.String("accountID", account.ID))
		return nil, fmt.Errorf("%s: %w", errCtxComparingHash, services.ErrCredentialMismatch)
	}

	log.Debug(ctx, msgAccountAuthenticated, zap.String("accountID", account.ID))
	return account.Public(), nil
}

func (v *CredentialVerifier) compareDummy(ctx context.Context, password string) {
	v.dummyOnce.Do(func() {
		hash, err := v.passwords.Hash(context.WithoutCancel(ctx), dummyPassword)
		if err != nil {
			logger.Log(ctx).Warn(ctx, msgErrDummyHash, zap.Error(err))
			return
		}
		v.dummyHash = hash
	})
	if v.dummyHash != "" {
		_ = v.passwords.Verify(ctx, password, v.dummyHash)
	}
}
