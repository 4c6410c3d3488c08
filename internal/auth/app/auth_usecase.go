// Package app содержит сценарии сервиса аутентификации.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gocollab/internal/auth/domain/entities"
	"gocollab/internal/auth/domain/services"
	"gocollab/internal/auth/ports/api"
	"gocollab/internal/auth/ports/repositories"
	svc "gocollab/internal/auth/ports/services"
	"gocollab/pkg/logger"
)

const (
	methodLogin              = "Login"
	methodRefreshAccessToken = "RefreshAccessToken"
	methodVerify             = "Verify"
	methodLogout             = "Logout"

	msgLoginAttempt        = "login attempt"
	msgLoginRejected       = "login rejected"
	msgLoginThrottled      = "login throttled"
	msgUserLoggedIn        = "user logged in successfully"
	msgRefreshingToken     = "refreshing access token"
	msgRefreshRejected     = "refresh token rejected"
	msgRefreshSubjectDiff  = "refresh token subject does not match stored account"
	msgAccessTokenIssued   = "access token issued"
	msgVerifyingToken      = "verifying access token"
	msgEmptyToken          = "empty token provided"
	msgTokenRejected       = "access token rejected"
	msgTokenVerified       = "access token verified"
	msgProcessingLogout    = "processing logout request"
	msgUnknownRefreshToken = "logout with unknown refresh token"
	msgUserLoggedOut       = "user logged out successfully"

	msgErrLimiter              = "login limiter unavailable, continuing without throttling"
	msgErrGenerateAccessToken  = "failed to generate access token"
	msgErrGenerateRefreshToken = "failed to generate refresh token"
	msgErrStoreRefreshToken    = "failed to store refresh token"
	msgErrFindingRefreshToken  = "failed to find account by refresh token"
	msgErrRevokingToken        = "failed to revoke refresh token"

	errCtxValidatingCredentials  = "validating credentials"
	errCtxCheckingLimiter        = "checking login attempts"
	errCtxAuthenticating         = "authenticating"
	errCtxGeneratingAccessToken  = "generating access token"
	errCtxGeneratingRefreshToken = "generating refresh token"
	errCtxStoringRefreshToken    = "storing refresh token"
	errCtxValidatingRefresh      = "validating refresh token"
	errCtxFindingRefreshToken    = "finding refresh token"
	errCtxVerifyingToken         = "verifying token"
	errCtxRevokingToken          = "revoking token"

	limiterAccountPrefix = "account:"
)

// AuthUseCaseImpl реализует api.AuthUseCase.
type AuthUseCaseImpl struct {
	repo     repositories.AccountRepository
	verifier *CredentialVerifier
	tokenSvc svc.TokenService
	limiter  svc.LoginLimiter
}

// AuthOption настраивает AuthUseCaseImpl.
type AuthOption func(*AuthUseCaseImpl)

// WithLoginLimiter включает ограничение неудачных попыток входа.
func WithLoginLimiter(limiter svc.LoginLimiter) AuthOption {
	return func(a *AuthUseCaseImpl) { a.limiter = limiter }
}

// NewAuthUseCase создает сервис сессий.
func NewAuthUseCase(
	repo repositories.AccountRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	opts ...AuthOption,
) api.AuthUseCase {
	a := &AuthUseCaseImpl{
		repo:     repo,
		verifier: NewCredentialVerifier(repo, passwordSvc),
		tokenSvc: tokenSvc,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Login проверяет учетные данные и выпускает пару токенов. Refresh токен сохраняется
// последним шагом и заменяет предыдущий, поэтому активна только одна сессия.
func (a *AuthUseCaseImpl) Login(ctx context.Context, credentials services.Credentials) (*services.TokenPair, error) {
	id, err := credentials.Identifier()
	if err != nil {
		logger.Log(ctx).Debug(ctx, msgLoginRejected, zap.String("method", methodLogin), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingCredentials, err)
	}

	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("identifier", id.String()))
	log.Debug(ctx, msgLoginAttempt)

	key := a.limiterKey(ctx, id)
	if err := a.allow(ctx, log, key); err != nil {
		return nil, err
	}

	account, err := a.verifier.Authenticate(ctx, id, credentials.Password)
	if err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) || errors.Is(err, services.ErrCredentialMismatch) {
			a.registerFailure(ctx, log, key)
			log.Debug(ctx, msgLoginRejected, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticating, err)
	}
	a.reset(ctx, log, key)

	log = log.With(zap.String("accountID", account.ID))

	accessToken, accessExpires, err := a.tokenSvc.GenerateAccessToken(ctx, account.ID, account.Login)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingAccessToken, services.ErrTokenGenerationFailed)
	}

	refreshToken, refreshExpires, err := a.tokenSvc.GenerateRefreshToken(ctx, account.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingRefreshToken, services.ErrTokenGenerationFailed)
	}

	if err := a.repo.SaveRefreshToken(ctx, account.ID, refreshToken); err != nil {
		log.Error(ctx, msgErrStoreRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringRefreshToken, err)
	}

	log.Info(ctx, msgUserLoggedIn)
	return &services.TokenPair{
		AccountID:             account.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpires,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpires,
	}, nil
}

// RefreshAccessToken выпускает новый access токен по сохраненному refresh токену.
// Сам refresh токен не меняется.
func (a *AuthUseCaseImpl) RefreshAccessToken(ctx context.Context, refreshToken string) (*services.AccessToken, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefreshAccessToken))
	log.Debug(ctx, msgRefreshingToken)

	if refreshToken == "" {
		log.Debug(ctx, msgEmptyToken)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingRefresh, services.ErrAccessDenied)
	}

	claims, err := a.tokenSvc.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug(ctx, msgRefreshRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingRefresh, services.ErrAccessDenied)
	}

	account, err := a.repo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) {
			log.Debug(ctx, msgRefreshRejected, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxFindingRefreshToken, services.ErrAccessDenied)
		}
		log.Error(ctx, msgErrFindingRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingRefreshToken, err)
	}

	log = log.With(zap.String("accountID", account.ID))

	if claims.AccountID != account.ID {
		log.Warn(ctx, msgRefreshSubjectDiff, zap.String("subject", claims.AccountID))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingRefresh, services.ErrAccessDenied)
	}

	accessToken, expiresAt, err := a.tokenSvc.GenerateAccessToken(ctx, account.ID, account.Login)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingAccessToken, services.ErrTokenGenerationFailed)
	}

	log.Info(ctx, msgAccessTokenIssued)
	return &services.AccessToken{Token: accessToken, ExpiresAt: expiresAt}, nil
}

// Verify проверяет access токен. Пустой токен дает services.ErrAccessDenied,
// просроченный или некорректный - services.ErrTokenExpired или services.ErrTokenInvalid.
func (a *AuthUseCaseImpl) Verify(ctx context.Context, token string) (*services.TokenClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodVerify))
	log.Debug(ctx, msgVerifyingToken)

	if token == "" {
		log.Debug(ctx, msgEmptyToken)
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrAccessDenied)
	}

	claims, err := a.tokenSvc.ValidateAccessToken(ctx, token)
	if err != nil {
		log.Debug(ctx, msgTokenRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, err)
	}

	log.Debug(ctx, msgTokenVerified, zap.String("accountID", claims.AccountID))
	return claims, nil
}

// Logout отзывает refresh токен. Неизвестный токен дает services.ErrAccessDenied.
func (a *AuthUseCaseImpl) Logout(ctx context.Context, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))
	log.Debug(ctx, msgProcessingLogout)

	if refreshToken == "" {
		log.Debug(ctx, msgEmptyToken)
		return fmt.Errorf("%s: %w", errCtxRevokingToken, services.ErrAccessDenied)
	}

	if err := a.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) {
			log.Debug(ctx, msgUnknownRefreshToken)
			return fmt.Errorf("%s: %w", errCtxRevokingToken, services.ErrAccessDenied)
		}
		log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// allow возвращает ошибку только при исчерпанном лимите. Недоступность ограничителя
// не блокирует вход.
// limiterKey возвращает ключ счетчика неудач. Для существующей учетной записи ключ общий
// для входа по логину и по email, для неизвестной совпадает с идентификатором.
func (a *AuthUseCaseImpl) limiterKey(ctx context.Context, id services.Identifier) string {
	if a.limiter == nil {
		return ""
	}
	account, err := a.verifier.Resolve(ctx, id)
	if err != nil {
		return id.String()
	}
	return limiterAccountPrefix + account.ID
}

func (a *AuthUseCaseImpl) allow(ctx context.Context, log *logger.Logger, key string) error {
	if a.limiter == nil {
		return nil
	}
	err := a.limiter.Allow(ctx, key)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrTooManyAttempts):
		log.Info(ctx, msgLoginThrottled)
		return fmt.Errorf("%s: %w", errCtxCheckingLimiter, err)
	default:
		log.Warn(ctx, msgErrLimiter, zap.Error(err))
		return nil
	}
}

func (a *AuthUseCaseImpl) registerFailure(ctx context.Context, log *logger.Logger, key string) {
	if a.limiter == nil {
		return
	}
	if err := a.limiter.RegisterFailure(ctx, key); err != nil {
		log.Warn(ctx, msgErrLimiter, zap.Error(err))
	}
}

func (a *AuthUseCaseImpl) reset(ctx context.Context, log *logger.Logger, key string) {
	if a.limiter == nil {
		return
	}
	if err := a.limiter.Reset(ctx, key); err != nil {
		log.Warn(ctx, msgErrLimiter, zap.Error(err))
	}
}
