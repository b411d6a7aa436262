package authRoutes

import (
	authControllers "portal/controllers/auth"
	"portal/middleware"
	authValidators "portal/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")
	limited := middleware.AuthRateLimiter()

	authGroup.Post("/signup", limited, authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", limited, authValidators.Login(), authControllers.Login)
	authGroup.Post("/logout", authControllers.Logout)
	authGroup.Get("/login/history", authValidators.LoginHistoryList(), middleware.JWTMiddleware, authControllers.LoginHistoryList)

	twoFactor := authGroup.Group("/2fa")
	twoFactor.Post("/verify", limited, authValidators.Token(), authControllers.VerifyTwoFactor)
	twoFactor.Post("/setup", middleware.JWTMiddleware, authValidators.SetupTwoFactor(), authControllers.SetupTwoFactor)
	twoFactor.Post("/enable", middleware.JWTMiddleware, authValidators.OptionalToken(), authControllers.EnableTwoFactor)
	twoFactor.Post("/disable", middleware.JWTMiddleware, authValidators.Password(), authControllers.DisableTwoFactor)
}
