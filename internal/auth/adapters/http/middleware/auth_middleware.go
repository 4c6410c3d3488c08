package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gocollab/internal/auth/domain/services"
	"gocollab/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"

	bearerPrefix = "Bearer "
)

type claimsKeyType struct{}

var claimsKey = claimsKeyType{}

// TokenVerifier проверяет access токен.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*services.TokenClaims, error)
}

// ErrorResponder отвечает клиенту по доменной ошибке.
type ErrorResponder func(ctx fiber.Ctx, err error) error

// BearerToken извлекает токен из заголовка Authorization. Схема сравнивается без учета регистра.
// Отсутствующий заголовок дает services.ErrAccessDenied, заголовок без схемы Bearer -
// services.ErrTokenInvalid. "Bearer " без токена возвращает пустую строку.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", services.ErrAccessDenied
	}
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", services.ErrTokenInvalid
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), nil
}

// NewAuthMiddleware пропускает запрос только с действительным access токеном
// и сохраняет его claims в Locals.
func NewAuthMiddleware(verifier TokenVerifier, respond ErrorResponder) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		token, err := BearerToken(ctx.Get(fiber.HeaderAuthorization))
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidTokenFormat, zap.Error(err))
			return respond(ctx, err)
		}

		claims, err := verifier.Verify(requestCtx, token)
		if err != nil {
			return respond(ctx, err)
		}

		ctx.Locals(claimsKey, claims)
		return ctx.Next()
	}
}

// ClaimsFromContext возвращает claims, сохраненные NewAuthMiddleware.
func ClaimsFromContext(ctx fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := ctx.Locals(claimsKey).(*services.TokenClaims)
	return claims, ok && claims != nil
}
