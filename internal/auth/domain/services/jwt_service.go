package services

import (
	"errors"
	"time"
)

// Ошибки кодирования и проверки токенов.
var (
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrTokenEncoding = errors.New("failed to encode token")
)

// TokenPurpose различает access и refresh токены. Структура у них одинаковая,
// различаются секрет и срок жизни.
type TokenPurpose string

// Назначения токенов.
const (
	PurposeAccess  TokenPurpose = "access"
	PurposeRefresh TokenPurpose = "refresh"
)

// TokenClaims - полезная нагрузка подписанного токена.
type TokenClaims struct {
	AccountID string
	Login     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// JWTConfig содержит секреты и сроки жизни токенов.
type JWTConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}
