// Package http содержит HTTP интерфейс сервиса аутентификации на fiber.
package http

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gocollab/internal/auth/adapters/http/middleware"
	"gocollab/internal/auth/domain/services"
	"gocollab/internal/auth/ports/api"
	"gocollab/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerLogin    = "auth handler: login"
	LogHandlerRefresh  = "auth handler: refresh access token" // #nosec G101 - not a credential
	LogHandlerVerify   = "auth handler: verify"
	LogHandlerLogout   = "auth handler: logout"
	LogHandlerRegister = "account handler: register"
	LogHandlerProfile  = "account handler: get profile"

	ErrorInvalidRequest = "invalid request body"
	ErrorMissingClaims  = "claims missing in request context"
)

// Handler содержит HTTP обработчики аутентификации и учетных записей.
type Handler struct {
	auth     api.AuthUseCase
	accounts api.AccountUseCase
	errs     *ErrorMapper
}

// NewHandler создает обработчики.
func NewHandler(auth api.AuthUseCase, accounts api.AccountUseCase, errs *ErrorMapper) *Handler {
	return &Handler{auth: auth, accounts: accounts, errs: errs}
}

// Login обрабатывает POST /auth/login.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerLogin)

	var req LoginRequest
	if ok, err := h.bind(ctx, &req); !ok {
		return err
	}

	pair, err := h.auth.Login(requestCtx, services.Credentials{
		Login:    req.Login,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.errs.RespondLogin(ctx, err)
	}

	return h.send(ctx, fiber.StatusOK, newTokenResponse(pair))
}

// Refresh обрабатывает POST /auth/refresh.
func (h *Handler) Refresh(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerRefresh)

	var req RefreshRequest
	if ok, err := h.bind(ctx, &req); !ok {
		return err
	}

	token, err := h.auth.RefreshAccessToken(requestCtx, req.RefreshToken)
	if err != nil {
		return h.errs.Respond(ctx, err)
	}

	return h.send(ctx, fiber.StatusOK, AccessTokenResponse{AccessToken: token.Token, ExpiresAt: token.ExpiresAt})
}

// Verify обрабатывает POST /auth/verify с токеном в заголовке Authorization.
func (h *Handler) Verify(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerVerify)

	token, err := middleware.BearerToken(ctx.Get(fiber.HeaderAuthorization))
	if err != nil {
		return h.errs.Respond(ctx, err)
	}

	claims, err := h.auth.Verify(requestCtx, token)
	if err != nil {
		return h.errs.Respond(ctx, err)
	}

	return h.send(ctx, fiber.StatusOK, newClaimsResponse(claims))
}

// Logout обрабатывает POST /auth/logout.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerLogout)

	var req RefreshRequest
	if ok, err := h.bind(ctx, &req); !ok {
		return err
	}

	if err := h.auth.Logout(requestCtx, req.RefreshToken); err != nil {
		return h.errs.Respond(ctx, err)
	}

	return h.send(ctx, fiber.StatusOK, fiber.Map{"status": "logged_out"})
}

// Register обрабатывает POST /users.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerRegister)

	var req RegisterRequest
	if ok, err := h.bind(ctx, &req); !ok {
		return err
	}

	account, err := h.accounts.Register(requestCtx, req.Login, req.Email, req.Password)
	if err != nil {
		return h.errs.Respond(ctx, err)
	}

	return h.send(ctx, fiber.StatusCreated, newAccountResponse(account))
}

// Me обрабатывает GET /users/me. Требует NewAuthMiddleware.
func (h *Handler) Me(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerProfile)

	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		log.Error(requestCtx, ErrorMissingClaims)
		return h.errs.Respond(ctx, services.ErrAccessDenied)
	}

	account, err := h.accounts.GetProfile(requestCtx, claims.AccountID)
	if err != nil {
		return h.errs.Respond(ctx, err)
	}

	return h.send(ctx, fiber.StatusOK, newAccountResponse(account))
}

// bind разбирает JSON тело. false означает, что ответ 400 уже отправлен;
// error тогда содержит только ошибку отправки.
func (h *Handler) bind(ctx fiber.Ctx, out any) (bool, error) {
	err := ctx.Bind().WithoutAutoHandling().JSON(out)
	if err == nil {
		return true, nil
	}

	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
	return false, h.send(ctx, fiber.StatusBadRequest, ErrorResponse{
		Error:       CodeBadRequest,
		Description: ErrorInvalidRequest,
	})
}

func (h *Handler) send(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
