package middleware

import (
	"time"

	"portal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// AuthRateLimiter throttles login, signup and 2FA attempts per client IP.
// AUTH_RATE_LIMIT=0 turns it off.
func AuthRateLimiter() fiber.Handler {
	limit := config.AppConfig.AuthRateLimit
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return limit <= 0
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many attempts. Please try again later.", nil)
		},
	})
}
