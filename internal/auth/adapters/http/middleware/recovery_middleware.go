package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gocollab/pkg/logger"
)

// NewRecoveryMiddleware перехватывает панику обработчика и отвечает 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		requestCtx := ctx.Context()

		defer func() {
			r := recover()
			if r == nil {
				return
			}

			log := logger.Log(requestCtx)
			log.Error(requestCtx, "server panic",
				zap.String("error", fmt.Sprintf("%v", r)),
				zap.String("stack", string(debug.Stack())),
			)

			err = ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal_error",
			})
		}()

		return ctx.Next()
	}
}
