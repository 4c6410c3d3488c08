package http

import (
	"github.com/gofiber/fiber/v3"

	"gocollab/internal/auth/adapters/http/middleware"
)

// SetupRouter настраивает маршруты сервиса.
func SetupRouter(app *fiber.App, handler *Handler, errs *ErrorMapper, rateLimit middleware.RateLimitConfig) {
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())

	authRoutes := app.Group("/auth", middleware.NewRateLimitPerIP(rateLimit))
	authRoutes.Post("/login", handler.Login)
	authRoutes.Post("/refresh", handler.Refresh)
	authRoutes.Post("/verify", handler.Verify)
	authRoutes.Post("/logout", handler.Logout)

	userRoutes := app.Group("/users")
	userRoutes.Post("/", handler.Register)
	userRoutes.Get("/me", middleware.NewAuthMiddleware(handler.auth, errs.Respond), handler.Me)

	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:       CodeNotFound,
			Description: "route not found",
		})
	})
}
