package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	config "github.com/okuracookware/referral-api/configs"
)

// VerifyShopifyWebhook checks the X-Shopify-Hmac-Sha256 header against an
// HMAC of the raw request body. Must run before the body is consumed.
func VerifyShopifyWebhook() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hmacHeader := c.Get("X-Shopify-Hmac-Sha256")
		if hmacHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing HMAC header"})
		}

		mac := hmac.New(sha256.New, []byte(config.Config("SHOPIFY_WEBHOOK_SECRET")))
		mac.Write(c.Body())
		expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(hmacHeader)) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid HMAC signature"})
		}

		return c.Next()
	}
}

// RequireAPIKey guards the admin surface with the shared operator key.
func RequireAPIKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if key == "" {
			key = c.Query("api_key")
		}

		secret := config.Config("API_SECRET")
		if secret == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		return c.Next()
	}
}
