// Package middleware содержит промежуточное ПО HTTP сервера аутентификации.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"gocollab/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware берет идентификатор из заголовка или генерирует новый,
// кладет его в контекст запроса и возвращает клиенту.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), ctx.Get(HeaderRequestID))
		id, _ := logger.GetRequestID(requestCtx)

		ctx.SetContext(requestCtx)
		ctx.Set(HeaderRequestID, id)

		return ctx.Next()
	}
}
