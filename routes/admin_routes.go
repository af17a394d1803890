package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okuracookware/referral-api/handlers"
	"github.com/okuracookware/referral-api/middleware"
)

func AdminRoutes(app *fiber.App) {
	admin := app.Group("/api/admin", middleware.RequireAPIKey())

	admin.Get("/dashboard", handlers.Dashboard)
	admin.Get("/referrals", handlers.ListReferrals)
	admin.Patch("/referrals/:id/status", handlers.UpdateReferralStatus)
	admin.Post("/referrals/:id/reward", handlers.TriggerReward)
	admin.Post("/rewards/process-queue", handlers.ProcessQueue)
	admin.Get("/settings", handlers.GetSettings)
	admin.Put("/settings", handlers.UpdateSettings)
	admin.Get("/fraud-flags", handlers.ListFraudFlags)
}
