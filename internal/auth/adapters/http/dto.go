package http

import (
	"time"

	"gocollab/internal/auth/domain/entities"
	"gocollab/internal/auth/domain/services"
)

// LoginRequest содержит данные для входа. Достаточно логина или email.
type LoginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse содержит выданную пару токенов.
type TokenResponse struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// RefreshRequest содержит refresh токен для обновления или выхода.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AccessTokenResponse содержит новый access токен.
type AccessTokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ClaimsResponse содержит claims проверенного токена.
type ClaimsResponse struct {
	Subject   string    `json:"sub"`
	Login     string    `json:"login,omitempty"`
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// RegisterRequest содержит данные для создания учетной записи.
type RegisterRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountResponse содержит публичные поля учетной записи.
type AccountResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func newTokenResponse(pair *services.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
	}
}

func newClaimsResponse(claims *services.TokenClaims) ClaimsResponse {
	return ClaimsResponse{
		Subject:   claims.AccountID,
		Login:     claims.Login,
		TokenID:   claims.TokenID,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}
}

func newAccountResponse(account *entities.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Login:     account.Login,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}
}
