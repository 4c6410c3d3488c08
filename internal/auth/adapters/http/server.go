package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gocollab/internal/auth/adapters/http/middleware"
	"gocollab/internal/auth/ports/api"
	"gocollab/pkg/logger"
)

// Константы для логирования.
const (
	LogServerStarting = "starting HTTP server"
	LogServerStopping = "stopping HTTP server"
	LogServerStopped  = "HTTP server stopped"
	ErrServerStart    = "failed to start HTTP server"
	ErrServerStop     = "failed to stop HTTP server"
)

// ServerConfig содержит параметры HTTP сервера.
type ServerConfig struct {
	Address              string
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	BodyLimit            int
	HideAccountExistence bool
	RateLimit            middleware.RateLimitConfig
}

// Server представляет HTTP сервер сервиса аутентификации.
type Server struct {
	cfg ServerConfig
	app *fiber.App
}

// New создает сервер с зарегистрированными маршрутами.
func New(cfg ServerConfig, auth api.AuthUseCase, accounts api.AccountUseCase) *Server {
	errs := NewErrorMapper(cfg.HideAccountExistence)

	app := fiber.New(fiber.Config{
		AppName:      "gocollab-auth",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler,
	})

	SetupRouter(app, NewHandler(auth, accounts, errs), errs, cfg.RateLimit)

	return &Server{cfg: cfg, app: app}
}

// App возвращает fiber приложение.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start запускает сервер в отдельной горутине. Ошибка прослушивания пишется в errCh.
func (s *Server) Start(ctx context.Context) <-chan error {
	log := logger.Log(ctx)
	log.Info(ctx, LogServerStarting, zap.String("address", s.cfg.Address))

	errCh := make(chan error, 1)
	go func() {
		if err := s.app.Listen(s.cfg.Address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Error(ctx, ErrServerStart, zap.Error(err))
			errCh <- fmt.Errorf("%s: %w", ErrServerStart, err)
		}
		close(errCh)
	}()
	return errCh
}

// Stop останавливает сервер, дожидаясь завершения активных запросов.
func (s *Server) Stop(ctx context.Context) error {
	log := logger.Log(ctx)
	log.Info(ctx, LogServerStopping)

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		log.Error(ctx, ErrServerStop, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStop, err)
	}

	log.Info(ctx, LogServerStopped)
	return nil
}

// errorHandler отвечает на ошибки, которые обработчики вернули fiber.
func errorHandler(ctx fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := ErrorResponse{Error: CodeInternal}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		switch {
		case status == fiber.StatusNotFound:
			body = ErrorResponse{Error: CodeNotFound, Description: fiberErr.Message}
		case status == fiber.StatusRequestEntityTooLarge, status < fiber.StatusInternalServerError:
			body = ErrorResponse{Error: CodeBadRequest, Description: fiberErr.Message}
		}
	}

	requestCtx := ctx.Context()
	logger.Log(requestCtx).Error(requestCtx, "unhandled request error", zap.Int("status", status), zap.Error(err))

	return ctx.Status(status).JSON(body)
}
