package services

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// hashLimiter ограничивает число одновременных вычислений хеша,
// чтобы дорогое хеширование не вытесняло остальные запросы.
type hashLimiter struct {
	sem *semaphore.Weighted
}

func newHashLimiter(maxConcurrent int) *hashLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}
	return &hashLimiter{sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// do выполняет fn, дождавшись слота. Отмена ctx прерывает ожидание.
func (l *hashLimiter) do(ctx context.Context, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	return fn()
}
