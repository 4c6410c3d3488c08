package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации.
var (
	ErrBadRequest            = errors.New("bad request")
	ErrCredentialMismatch    = errors.New("wrong password")
	ErrAccessDenied          = errors.New("access denied")
	ErrTooManyAttempts       = errors.New("too many failed login attempts")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
)

// IdentifierKind определяет, по какому полю ищется учетная запись.
type IdentifierKind string

// Поддерживаемые виды идентификаторов.
const (
	IdentifierLogin IdentifierKind = "login"
	IdentifierEmail IdentifierKind = "email"
)

// Identifier - логин или email, по которому резолвится учетная запись.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// String возвращает ключ вида "login:alice".
func (i Identifier) String() string {
	return string(i.Kind) + ":" + i.Value
}

// Credentials - входные данные для входа. Никогда не сохраняются.
type Credentials struct {
	Login    string
	Email    string
	Password string
}

// Identifier выбирает идентификатор для поиска. Логин имеет приоритет над email.
// Возвращает ErrBadRequest, если не задан ни логин, ни email, или пуст пароль.
func (c Credentials) Identifier() (Identifier, error) {
	if c.Password == "" {
		return Identifier{}, ErrBadRequest
	}
	switch {
	case c.Login != "":
		return Identifier{Kind: IdentifierLogin, Value: c.Login}, nil
	case c.Email != "":
		return Identifier{Kind: IdentifierEmail, Value: c.Email}, nil
	default:
		return Identifier{}, ErrBadRequest
	}
}

// TokenPair - результат успешного входа.
type TokenPair struct {
	AccountID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// AccessToken - результат обновления access токена.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}
