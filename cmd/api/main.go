package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/okuracookware/referral-api/configs"
	"github.com/okuracookware/referral-api/database"
	"github.com/okuracookware/referral-api/jobs"
	"github.com/okuracookware/referral-api/notifications"
	"github.com/okuracookware/referral-api/routes"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedSettings()
	notifications.InitEmailService()

	c := cron.New()
	c.AddFunc("0 * * * *", jobs.ProcessRewardQueue)
	go c.Start()
	log.Println("✅ Cron job for reward queue scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "Okura Referral API",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.Config("STOREFRONT_URL"),
		AllowHeaders:  "Origin, Content-Type, Accept, X-API-Key, X-Shopify-Hmac-Sha256",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.ReferralRoutes(app)
	routes.WebhookRoutes(app)
	routes.AdminRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	port := config.Config("PORT")
	if port == "" {
		port = "3001"
	}

	log.Printf("✅ Okura Referral API running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
