package entities

import (
	"errors"
	"time"
)

// Ошибки домена учетной записи.
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountExists    = errors.New("account with this login or email already exists")
	ErrStoreFailure     = errors.New("account store failure")
	ErrEmptyAccountID   = errors.New("account ID cannot be empty")
	ErrEmptyLogin       = errors.New("login cannot be empty")
	ErrLoginTooLong     = errors.New("login must not exceed 64 characters")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must contain at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 bytes")
)

// Account представляет учетную запись пользователя.
// PasswordHash и RefreshToken никогда не отдаются клиентам.
type Account struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string  `json:"-"`
	RefreshToken *string `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRefreshToken сообщает, совпадает ли token с текущим refresh токеном учетной записи.
func (a *Account) HasRefreshToken(token string) bool {
	return a.RefreshToken != nil && token != "" && *a.RefreshToken == token
}

// Public возвращает копию учетной записи без чувствительных полей.
func (a *Account) Public() *Account {
	return &Account{
		ID:        a.ID,
		Login:     a.Login,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
