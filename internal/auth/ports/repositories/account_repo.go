package repositories

import (
	"context"

	"gocollab/internal/auth/domain/entities"
)

// FindOptions управляет составом читаемых полей.
type FindOptions struct {
	IncludePasswordHash bool
}

// FindOption изменяет FindOptions.
type FindOption func(*FindOptions)

// WithPasswordHash явно запрашивает хеш пароля. По умолчанию он не читается.
func WithPasswordHash() FindOption {
	return func(o *FindOptions) {
		o.IncludePasswordHash = true
	}
}

// ApplyFindOptions собирает опции чтения.
func ApplyFindOptions(opts ...FindOption) FindOptions {
	var o FindOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// AccountRepository определяет хранилище учетных записей и их refresh токенов.
// Ошибки хранилища оборачивают entities.ErrStoreFailure.
type AccountRepository interface {
	Create(ctx context.Context, account *entities.Account) (*entities.Account, error)

	FindByID(ctx context.Context, id string, opts ...FindOption) (*entities.Account, error)

	FindByLogin(ctx context.Context, login string, opts ...FindOption) (*entities.Account, error)

	FindByEmail(ctx context.Context, email string, opts ...FindOption) (*entities.Account, error)

	FindByRefreshToken(ctx context.Context, token string) (*entities.Account, error)

	// SaveRefreshToken атомарно заменяет refresh токен учетной записи.
	// При конкурентных вызовах побеждает последний.
	SaveRefreshToken(ctx context.Context, accountID, token string) error

	// RevokeRefreshToken атомарно очищает refresh токен, равный token.
	// Возвращает entities.ErrAccountNotFound, если такого токена нет.
	RevokeRefreshToken(ctx context.Context, token string) error
}
