package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/okuracookware/referral-api/handlers"
)

// ReferralRoutes mounts the public storefront surface. It is rate limited
// since it takes unauthenticated traffic.
func ReferralRoutes(app *fiber.App) {
	referral := app.Group("/api/referral", limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))

	referral.Post("/enroll", handlers.Enroll)
	referral.Get("/stats/:shopifyID", handlers.GetStats)
	referral.Post("/track-click", handlers.TrackClick)
}
