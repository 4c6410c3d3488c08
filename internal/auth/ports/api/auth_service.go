package api

import (
	"context"

	"gocollab/internal/auth/domain/services"
)

// AuthUseCase определяет операции сессии: вход, обновление, проверку и выход.
type AuthUseCase interface {
	Login(ctx context.Context, credentials services.Credentials) (*services.TokenPair, error)

	RefreshAccessToken(ctx context.Context, refreshToken string) (*services.AccessToken, error)

	Verify(ctx context.Context, token string) (*services.TokenClaims, error)

	Logout(ctx context.Context, refreshToken string) error
}
