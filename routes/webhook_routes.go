package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okuracookware/referral-api/handlers"
	"github.com/okuracookware/referral-api/middleware"
)

func WebhookRoutes(app *fiber.App) {
	webhooks := app.Group("/api/webhooks", middleware.VerifyShopifyWebhook())

	webhooks.Post("/orders-create", handlers.OrdersCreate)
	webhooks.Post("/orders-paid", handlers.OrdersPaid)
}
