package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gocollab/internal/auth/domain/entities"
	"gocollab/internal/auth/domain/services"
	"gocollab/pkg/logger"
)

// Коды ошибок в теле ответа.
const (
	CodeBadRequest         = "bad_request"
	CodeNotFound           = "not_found"
	CodeWrongPassword      = "wrong_password"
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccessDenied       = "access_denied"
	CodeInvalidToken       = "invalid_token"
	CodeTokenExpired       = "token_expired"
	CodeAlreadyExists      = "already_exists"
	CodeTooManyRequests    = "too_many_requests"
	CodeInternal           = "internal_error"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Порядок важен: ошибки валидации регистрации оборачивают ErrBadRequest.
var errorMappings = []errorMapping{
	{services.ErrBadRequest, fiber.StatusBadRequest, CodeBadRequest},
	{entities.ErrAccountNotFound, fiber.StatusNotFound, CodeNotFound},
	{services.ErrCredentialMismatch, fiber.StatusUnauthorized, CodeWrongPassword},
	{services.ErrAccessDenied, fiber.StatusUnauthorized, CodeAccessDenied},
	{services.ErrTokenExpired, fiber.StatusBadRequest, CodeTokenExpired},
	{services.ErrTokenInvalid, fiber.StatusBadRequest, CodeInvalidToken},
	{entities.ErrAccountExists, fiber.StatusConflict, CodeAlreadyExists},
	{services.ErrTooManyAttempts, fiber.StatusTooManyRequests, CodeTooManyRequests},
}

// Причины ошибок валидации, которые можно показать клиенту.
var validationErrors = []error{
	entities.ErrEmptyLogin,
	entities.ErrLoginTooLong,
	entities.ErrInvalidEmail,
	entities.ErrPasswordTooShort,
	entities.ErrPasswordTooLong,
	entities.ErrEmptyAccountID,
}

// ErrorMapper переводит доменные ошибки в HTTP ответы.
type ErrorMapper struct {
	hideAccountExistence bool
}

// NewErrorMapper создает ErrorMapper. При hideAccountExistence ошибки входа
// "не найден" и "неверный пароль" отдаются одинаково.
func NewErrorMapper(hideAccountExistence bool) *ErrorMapper {
	return &ErrorMapper{hideAccountExistence: hideAccountExistence}
}

// Respond пишет ответ с ошибкой. Ошибки без сопоставления становятся непрозрачным 500.
func (m *ErrorMapper) Respond(ctx fiber.Ctx, err error) error {
	status, body := m.resolve(err)
	if status == fiber.StatusInternalServerError {
		requestCtx := ctx.Context()
		logger.Log(requestCtx).Error(requestCtx, "request failed with internal error",
			zap.String("path", ctx.Path()), zap.Error(err))
	}
	return ctx.Status(status).JSON(body)
}

// RespondLogin пишет ответ с ошибкой входа с учетом скрытия существования учетной записи.
func (m *ErrorMapper) RespondLogin(ctx fiber.Ctx, err error) error {
	if m.hideAccountExistence &&
		(errors.Is(err, entities.ErrAccountNotFound) || errors.Is(err, services.ErrCredentialMismatch)) {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:       CodeInvalidCredentials,
			Description: "invalid login or password",
		})
	}
	return m.Respond(ctx, err)
}

func (m *ErrorMapper) resolve(err error) (int, ErrorResponse) {
	for _, mapping := range errorMappings {
		if !errors.Is(err, mapping.target) {
			continue
		}
		return mapping.status, ErrorResponse{Error: mapping.code, Description: describe(err, mapping.target)}
	}
	return fiber.StatusInternalServerError, ErrorResponse{Error: CodeInternal}
}

func describe(err, target error) string {
	if errors.Is(target, services.ErrBadRequest) {
		for _, cause := range validationErrors {
			if errors.Is(err, cause) {
				return cause.Error()
			}
		}
	}
	return target.Error()
}
