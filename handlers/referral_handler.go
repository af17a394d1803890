package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	config "github.com/okuracookware/referral-api/configs"
	"github.com/okuracookware/referral-api/database"
	"github.com/okuracookware/referral-api/models"
	"github.com/okuracookware/referral-api/utils"
	"gorm.io/gorm"
)

var validate = validator.New()

func referralURL(code string) string {
	return fmt.Sprintf("%s?ref=%s", config.Config("STOREFRONT_URL"), code)
}

type EnrollRequest struct {
	ShopifyID int64  `json:"shopify_id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name"`
}

// Enroll registers a storefront customer into the referral program and hands
// back their shareable code. Idempotent per storefront identity.
func Enroll(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.Customer
	err := database.DB.Where("shopify_id = ?", req.ShopifyID).First(&existing).Error
	if err == nil {
		return c.JSON(fiber.Map{
			"referral_code":    existing.ReferralCode,
			"referral_url":     referralURL(existing.ReferralCode),
			"already_enrolled": true,
		})
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	code, err := utils.GenerateUniqueReferralCode(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to enroll"})
	}

	customer := models.Customer{
		ShopifyID:    req.ShopifyID,
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		ReferralCode: code,
	}
	if err := database.DB.Create(&customer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to enroll"})
	}

	return c.JSON(fiber.Map{
		"referral_code":    customer.ReferralCode,
		"referral_url":     referralURL(customer.ReferralCode),
		"already_enrolled": false,
	})
}

// GetStats returns a customer's own referral dashboard: counters, per-status
// breakdown and their most recent rewards.
func GetStats(c *fiber.Ctx) error {
	shopifyID, err := strconv.ParseInt(c.Params("shopifyID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid shopify id"})
	}

	var customer models.Customer
	if err := database.DB.Where("shopify_id = ?", shopifyID).First(&customer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not enrolled"})
	}

	var rows []struct {
		Status string
		Count  int64
	}
	err = database.DB.Model(&models.Referral{}).
		Select("status, COUNT(*) as count").
		Where("referrer_id = ?", customer.ID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	breakdown := fiber.Map{}
	for _, row := range rows {
		breakdown[row.Status] = row.Count
	}

	var rewards []models.Reward
	err = database.DB.Where("customer_id = ?", customer.ID).
		Order("created_at DESC").Limit(10).Find(&rewards).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"referral_code":   customer.ReferralCode,
		"referral_url":    referralURL(customer.ReferralCode),
		"total_referrals": customer.TotalReferrals,
		"total_earned":    customer.TotalEarned,
		"breakdown":       breakdown,
		"recent_rewards":  rewards,
	})
}

type TrackClickRequest struct {
	ReferralCode string `json:"referral_code" validate:"required"`
	IP           string `json:"ip"`
	UserAgent    string `json:"user_agent"`
	ReferrerURL  string `json:"referrer_url"`
}

// TrackClick appends an attribution event for a referral link visit. The
// code must belong to an enrolled customer.
func TrackClick(c *fiber.Ctx) error {
	var req TrackClickRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var count int64
	if err := database.DB.Model(&models.Customer{}).Where("referral_code = ?", req.ReferralCode).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if count == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invalid referral code"})
	}

	click := models.Click{
		ReferralCode: req.ReferralCode,
		IPAddress:    req.IP,
		UserAgent:    req.UserAgent,
		ReferrerURL:  req.ReferrerURL,
	}
	if err := database.DB.Create(&click).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to track"})
	}

	return c.JSON(fiber.Map{"tracked": true})
}
