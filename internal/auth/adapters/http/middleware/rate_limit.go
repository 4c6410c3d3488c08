package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gocollab/pkg/logger"
)

// RateLimitConfig задает ограничение запросов с одного IP.
type RateLimitConfig struct {
	// Limit - запросов в секунду. Ноль отключает ограничение.
	Limit     float64
	Burst     int
	CacheSize int
	EntryTTL  time.Duration
}

// NewRateLimitPerIP ограничивает частоту запросов с одного IP token bucket'ом.
// Лимитеры хранятся в LRU кэше, запись живет EntryTTL.
func NewRateLimitPerIP(cfg RateLimitConfig) fiber.Handler {
	if cfg.Limit <= 0 {
		return func(ctx fiber.Ctx) error { return ctx.Next() }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 10000
	}
	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = 10 * time.Minute
	}

	visitors := lru.NewLRU[string, *rate.Limiter](cfg.CacheSize, nil, cfg.EntryTTL)

	return func(ctx fiber.Ctx) error {
		ip := ctx.IP()

		lim, found := visitors.Get(ip)
		if !found {
			lim = rate.NewLimiter(rate.Limit(cfg.Limit), cfg.Burst)
			visitors.Add(ip, lim)
		}

		if !lim.Allow() {
			requestCtx := ctx.Context()
			logger.Log(requestCtx).Info(requestCtx, "rate limit exceeded", zap.String("ip", ip))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":             "too_many_requests",
				"error_description": "rate limit exceeded",
			})
		}
		return ctx.Next()
	}
}
