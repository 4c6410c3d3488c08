// Package shutdown реализует корректное завершение приложения по отмене контекста.
package shutdown

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"gocollab/pkg/logger"
)

const (
	msgShutdownStarted = "shutdown started"
	msgHookFailed      = "shutdown hook failed"
	msgShutdownTimeout = "shutdown timed out"
)

// Hook освобождает ресурс в рамках переданного контекста.
type Hook func(context.Context) error

// WaitContext блокирует выполнение до отмены ctx, затем параллельно выполняет
// все хуки, ограничивая их общим timeout. Возвращает объединенные ошибки хуков
// либо context.DeadlineExceeded, если хуки не уложились в timeout.
func WaitContext(ctx context.Context, timeout time.Duration, hooks ...Hook) error {
	<-ctx.Done()

	logger.Log(ctx).Info(ctx, msgShutdownStarted, zap.Int("hooks", len(hooks)))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, hook := range hooks {
		wg.Add(1)
		go func(fn Hook) {
			defer wg.Done()
			if err := fn(shutdownCtx); err != nil {
				logger.Log(ctx).Error(ctx, msgHookFailed, zap.Error(err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return errors.Join(errs...)
	case <-shutdownCtx.Done():
		logger.Log(ctx).Warn(ctx, msgShutdownTimeout, zap.Duration("timeout", timeout))
		return shutdownCtx.Err()
	}
}
