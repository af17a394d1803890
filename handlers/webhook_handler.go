package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/okuracookware/referral-api/services"
)

// OrdersCreate receives the order-created webhook. The sender expects a fast
// acknowledgment, so the response is sent first and the conversion pipeline
// runs afterwards in a goroutine; its failures are logged only, never
// surfaced (the sender will not retry on our behalf).
func OrdersCreate(c *fiber.Ctx) error {
	var event services.OrderEvent
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	go func() {
		if err := services.ProcessOrderCreated(&event); err != nil {
			log.Printf("🔥 Webhook processing error for order %d: %v", event.ID, err)
		}
	}()

	return c.JSON(fiber.Map{"received": true})
}

// OrdersPaid receives the payment-confirmation webhook and upgrades a
// pending referral for that order to converted.
func OrdersPaid(c *fiber.Ctx) error {
	var event services.OrderEvent
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	go func() {
		if err := services.MarkOrderPaid(event.ID); err != nil {
			log.Printf("🔥 Orders-paid webhook error for order %d: %v", event.ID, err)
		}
	}()

	return c.JSON(fiber.Map{"received": true})
}
