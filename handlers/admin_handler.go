package handlers

import (
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/okuracookware/referral-api/database"
	"github.com/okuracookware/referral-api/models"
	"github.com/okuracookware/referral-api/services"
	"github.com/shopspring/decimal"
)

// Dashboard returns summary stats for the management portal.
func Dashboard(c *fiber.Ctx) error {
	var totalReferrals, conversions, pending, openFlags int64
	db := database.DB

	if err := db.Model(&models.Referral{}).Count(&totalReferrals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}
	db.Model(&models.Referral{}).
		Where("status IN ?", []string{models.ReferralStatusConverted, models.ReferralStatusRewarded}).
		Count(&conversions)
	db.Model(&models.Referral{}).Where("status = ?", models.ReferralStatusPending).Count(&pending)
	db.Model(&models.FraudFlag{}).Where("resolved = ?", false).Count(&openFlags)

	var revenue decimal.NullDecimal
	db.Model(&models.Referral{}).
		Where("status IN ?", []string{models.ReferralStatusConverted, models.ReferralStatusRewarded}).
		Select("SUM(order_total)").Scan(&revenue)

	var topReferrers []models.Customer
	db.Order("total_referrals DESC").Limit(10).Find(&topReferrers)

	var recent []models.Referral
	db.Preload("Referrer").Order("created_at DESC").Limit(20).Find(&recent)

	return c.JSON(fiber.Map{
		"stats": fiber.Map{
			"total_referrals": totalReferrals,
			"conversions":     conversions,
			"revenue":         revenue.Decimal,
			"pending":         pending,
			"open_flags":      openFlags,
		},
		"top_referrers":   topReferrers,
		"recent_activity": recent,
	})
}

// ListReferrals returns a paginated referral list, filterable by status and
// searchable across referrer name/email and referee email.
func ListReferrals(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Referral{}).
		Joins("JOIN customers ON customers.id = referrals.referrer_id")

	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("referrals.status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"LOWER(customers.name) LIKE LOWER(?) OR LOWER(customers.email) LIKE LOWER(?) OR LOWER(referrals.referee_email) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list referrals"})
	}

	var referrals []models.Referral
	err := query.Preload("Referrer").Preload("Referee").
		Order("referrals.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&referrals).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list referrals"})
	}

	return c.JSON(fiber.Map{
		"referrals": referrals,
		"total":     total,
		"page":      page,
		"pages":     int(math.Ceil(float64(total) / float64(limit))),
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending converted rewarded rejected expired"`
}

// UpdateReferralStatus is the operator override: any status can be forced to
// any other, validated only against the fixed vocabulary. Deliberately
// permissive so operators can unwind mistakes.
func UpdateReferralStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
	}

	var referral models.Referral
	if err := database.DB.Where("id = ?", c.Params("id")).First(&referral).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Referral not found"})
	}

	referral.Status = req.Status
	if req.Status == models.ReferralStatusConverted && referral.ConvertedAt == nil {
		now := time.Now()
		referral.ConvertedAt = &now
	}

	if err := database.DB.Save(&referral).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update"})
	}

	return c.JSON(referral)
}

// TriggerReward manually invokes reward issuance for one referral.
func TriggerReward(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid referral id"})
	}

	rewards, err := services.IssueRewards(uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue rewards"})
	}
	if rewards == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Referral not eligible for rewards"})
	}

	return c.JSON(fiber.Map{"rewards": rewards})
}

// ProcessQueue sweeps the reward queue on demand.
func ProcessQueue(c *fiber.Ctx) error {
	result, err := services.ProcessRewardQueue()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process queue"})
	}
	return c.JSON(result)
}

// GetSettings returns the singleton program configuration.
func GetSettings(c *fiber.Ctx) error {
	settings, err := services.GetSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch settings"})
	}
	return c.JSON(settings)
}

type UpdateSettingsRequest struct {
	RewardType         *string          `json:"reward_type" validate:"omitempty,oneof=fixed_amount percentage"`
	RewardAmount       *decimal.Decimal `json:"reward_amount"`
	MinOrderValue      *decimal.Decimal `json:"min_order_value"`
	CooldownDays       *int             `json:"cooldown_days" validate:"omitempty,min=0"`
	DoubleSided        *bool            `json:"double_sided"`
	RefereeRewardAmt   *decimal.Decimal `json:"referee_reward_amount"`
	MaxReferralsPerDay *int             `json:"max_referrals_per_day" validate:"omitempty,min=1"`
	CodeExpiryDays     *int             `json:"code_expiry_days" validate:"omitempty,min=1"`
	BlockSelfReferral  *bool            `json:"block_self_referral"`
	FlagSameIP         *bool            `json:"flag_same_ip"`
	FlagLowOrder       *bool            `json:"flag_low_order"`
	FlagRateLimit      *bool            `json:"flag_rate_limit"`
}

// UpdateSettings applies a partial update: only fields present in the
// request change, everything else is left as-is.
func UpdateSettings(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{}
	if req.RewardType != nil {
		updates["reward_type"] = *req.RewardType
	}
	if req.RewardAmount != nil {
		updates["reward_amount"] = *req.RewardAmount
	}
	if req.MinOrderValue != nil {
		updates["min_order_value"] = *req.MinOrderValue
	}
	if req.CooldownDays != nil {
		updates["cooldown_days"] = *req.CooldownDays
	}
	if req.DoubleSided != nil {
		updates["double_sided"] = *req.DoubleSided
	}
	if req.RefereeRewardAmt != nil {
		updates["referee_reward_amt"] = *req.RefereeRewardAmt
	}
	if req.MaxReferralsPerDay != nil {
		updates["max_referrals_per_day"] = *req.MaxReferralsPerDay
	}
	if req.CodeExpiryDays != nil {
		updates["code_expiry_days"] = *req.CodeExpiryDays
	}
	if req.BlockSelfReferral != nil {
		updates["block_self_referral"] = *req.BlockSelfReferral
	}
	if req.FlagSameIP != nil {
		updates["flag_same_ip"] = *req.FlagSameIP
	}
	if req.FlagLowOrder != nil {
		updates["flag_low_order"] = *req.FlagLowOrder
	}
	if req.FlagRateLimit != nil {
		updates["flag_rate_limit"] = *req.FlagRateLimit
	}

	if len(updates) > 0 {
		err := database.DB.Model(&models.Settings{}).Where("id = ?", 1).Updates(updates).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update settings"})
		}
	}

	settings, err := services.GetSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch settings"})
	}
	return c.JSON(settings)
}

// ListFraudFlags returns unresolved fraud flags, newest first.
func ListFraudFlags(c *fiber.Ctx) error {
	var flags []models.FraudFlag
	err := database.DB.Preload("Customer").
		Where("resolved = ?", false).
		Order("created_at DESC").
		Find(&flags).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch flags"})
	}
	return c.JSON(flags)
}
