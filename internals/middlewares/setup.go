package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global. Urutan: recover paling luar.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
