package services

import "context"

// LoginLimiter ограничивает число неудачных попыток входа по ключу.
type LoginLimiter interface {
	// Allow возвращает services.ErrTooManyAttempts, если лимит исчерпан.
	Allow(ctx context.Context, key string) error

	RegisterFailure(ctx context.Context, key string) error

	Reset(ctx context.Context, key string) error
}
