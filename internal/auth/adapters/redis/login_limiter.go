// Package redis содержит ограничитель неудачных попыток входа на Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gocollab/internal/auth/domain/services"
	ports "gocollab/internal/auth/ports/services"
	"gocollab/pkg/logger"
	"gocollab/pkg/resilience"
)

const (
	keyPrefix = "auth:login_failures:"

	methodAllow           = "LoginLimiter.Allow"
	methodRegisterFailure = "LoginLimiter.RegisterFailure"
	methodReset           = "LoginLimiter.Reset"

	msgLimitExceeded = "login attempts limit exceeded"
	errMsgRedisCall  = "login limiter redis call failed"
)

// ErrLimiterUnavailable оборачивает сбои Redis и открытый circuit breaker.
var ErrLimiterUnavailable = errors.New("login limiter unavailable")

// LoginLimiter считает неудачные попытки входа в фиксированном окне.
type LoginLimiter struct {
	client      redis.Cmdable
	maxFailures int64
	window      time.Duration
	breaker     *resilience.CircuitBreaker
}

var _ ports.LoginLimiter = (*LoginLimiter)(nil)

// NewLoginLimiter создает ограничитель: после maxFailures неудач в течение window
// вход блокируется до истечения окна.
func NewLoginLimiter(
	client redis.Cmdable,
	maxFailures int,
	window time.Duration,
	breaker *resilience.CircuitBreaker,
) *LoginLimiter {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker("login-limiter", resilience.DefaultCircuitBreakerConfig())
	}
	return &LoginLimiter{
		client:      client,
		maxFailures: int64(maxFailures),
		window:      window,
		breaker:     breaker,
	}
}

// Allow возвращает services.ErrTooManyAttempts, если лимит исчерпан.
func (l *LoginLimiter) Allow(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("method", methodAllow))

	var failures int64
	err := l.call(ctx, func() error {
		n, err := l.client.Get(ctx, keyPrefix+key).Int64()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		failures = n
		return err
	})
	if err != nil {
		log.Warn(ctx, errMsgRedisCall, zap.Error(err))
		return err
	}

	if failures >= l.maxFailures {
		log.Info(ctx, msgLimitExceeded, zap.Int64("failures", failures))
		return services.ErrTooManyAttempts
	}
	return nil
}

// RegisterFailure увеличивает счетчик; окно начинается с первой неудачи.
func (l *LoginLimiter) RegisterFailure(ctx context.Context, key string) error {
	err := l.call(ctx, func() error {
		n, err := l.client.Incr(ctx, keyPrefix+key).Result()
		if err != nil {
			return err
		}
		if n == 1 {
			return l.client.Expire(ctx, keyPrefix+key, l.window).Err()
		}
		return nil
	})
	if err != nil {
		logger.Log(ctx).Warn(ctx, errMsgRedisCall, zap.String("method", methodRegisterFailure), zap.Error(err))
		return err
	}
	return nil
}

// Reset очищает счетчик после успешного входа.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	err := l.call(ctx, func() error {
		return l.client.Del(ctx, keyPrefix+key).Err()
	})
	if err != nil {
		logger.Log(ctx).Warn(ctx, errMsgRedisCall, zap.String("method", methodReset), zap.Error(err))
		return err
	}
	return nil
}

func (l *LoginLimiter) call(ctx context.Context, fn func() error) error {
	if err := l.breaker.Execute(ctx, fn); err != nil {
		return fmt.Errorf("%w: %w", ErrLimiterUnavailable, err)
	}
	return nil
}
