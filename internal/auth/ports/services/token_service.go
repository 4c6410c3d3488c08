package services

import (
	"context"
	"time"

	"gocollab/internal/auth/domain/services"
)

// TokenCodec кодирует и декодирует подписанные токены с ограниченным сроком жизни.
type TokenCodec interface {
	Encode(claims services.TokenClaims, secret []byte, expiresIn time.Duration) (string, error)

	Decode(token string, secret []byte) (*services.TokenClaims, error)
}

// TokenService выпускает и проверяет access и refresh токены.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, accountID, login string) (string, time.Time, error)

	GenerateRefreshToken(ctx context.Context, accountID string) (string, time.Time, error)

	ValidateAccessToken(ctx context.Context, token string) (*services.TokenClaims, error)

	ValidateRefreshToken(ctx context.Context, token string) (*services.TokenClaims, error)
}
