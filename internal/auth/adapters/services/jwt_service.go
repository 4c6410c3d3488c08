package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gocollab/internal/auth/domain/services"
	svc "gocollab/internal/auth/ports/services"
	"gocollab/pkg/logger"
)

const (
	methodGenerateAccessToken   = "GenerateAccessToken"
	methodGenerateRefreshToken  = "GenerateRefreshToken"
	methodValidateAccessToken   = "ValidateAccessToken"
	methodValidateRefreshToken  = "ValidateRefreshToken"
	msgGeneratingToken          = "generating token"
	msgTokenGenerated           = "token generated successfully"
	msgTokenValidated           = "token validated successfully"
	msgTokenRejected            = "token rejected"
	errSigningToken             = "error signing token" //nolint:gosec
	errCtxGeneratingAccessToken = "generating access token"
	errCtxGeneratingRefresh     = "generating refresh token"
	errCtxValidatingAccess      = "validating access token"
	errCtxValidatingRefresh     = "validating refresh token"
)

// ServiceJWT выпускает и проверяет access и refresh токены через TokenCodec,
// используя для каждого назначения свой секрет и срок жизни.
type ServiceJWT struct {
	config services.JWTConfig
	codec  svc.TokenCodec
	now    func() time.Time
}

// JWTOption настраивает ServiceJWT.
type JWTOption func(*ServiceJWT)

// WithTokenCodec подменяет кодек.
func WithTokenCodec(codec svc.TokenCodec) JWTOption {
	return func(s *ServiceJWT) { s.codec = codec }
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) JWTOption {
	return func(s *ServiceJWT) { s.now = now }
}

// NewJWT создает сервис токенов.
func NewJWT(cfg services.JWTConfig, opts ...JWTOption) svc.TokenService {
	s := &ServiceJWT{config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.codec == nil {
		s.codec = NewCodecJWT(s.now)
	}
	return s
}

// GenerateAccessToken выпускает короткоживущий access токен.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, accountID, login string) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateAccessToken),
		zap.String("accountID", accountID),
	)
	token, expiresAt, err := s.generate(ctx, log, services.TokenClaims{AccountID: accountID, Login: login},
		s.config.AccessSecret, s.config.AccessTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxGeneratingAccessToken, err)
	}
	return token, expiresAt, nil
}

// GenerateRefreshToken выпускает долгоживущий refresh токен.
func (s *ServiceJWT) GenerateRefreshToken(ctx context.Context, accountID string) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateRefreshToken),
		zap.String("accountID", accountID),
	)
	token, expiresAt, err := s.generate(ctx, log, services.TokenClaims{AccountID: accountID},
		s.config.RefreshSecret, s.config.RefreshTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxGeneratingRefresh, err)
	}
	return token, expiresAt, nil
}

func (s *ServiceJWT) generate(
	ctx context.Context,
	log *logger.Logger,
	claims services.TokenClaims,
	secret []byte,
	ttl time.Duration,
) (string, time.Time, error) {
	log.Debug(ctx, msgGeneratingToken)

	claims.IssuedAt = s.now()
	token, err := s.codec.Encode(claims, secret, ttl)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, err
	}

	expiresAt := claims.IssuedAt.Add(ttl)
	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return token, expiresAt, nil
}

// ValidateAccessToken проверяет access токен его секретом.
func (s *ServiceJWT) ValidateAccessToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	claims, err := s.validate(ctx, methodValidateAccessToken, token, s.config.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingAccess, err)
	}
	return claims, nil
}

// ValidateRefreshToken проверяет refresh токен его секретом.
func (s *ServiceJWT) ValidateRefreshToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	claims, err := s.validate(ctx, methodValidateRefreshToken, token, s.config.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingRefresh, err)
	}
	return claims, nil
}

func (s *ServiceJWT) validate(ctx context.Context, method, token string, secret []byte) (*services.TokenClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", method))

	claims, err := s.codec.Decode(token, secret)
	if err != nil {
		log.Debug(ctx, msgTokenRejected, zap.Error(err))
		return nil, err
	}

	log.Debug(ctx, msgTokenValidated, zap.String("accountID", claims.AccountID))
	return claims, nil
}
