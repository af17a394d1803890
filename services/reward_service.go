package services

import (
	"fmt"
	"log"
	"time"

	"github.com/okuracookware/referral-api/database"
	"github.com/okuracookware/referral-api/models"
	"github.com/okuracookware/referral-api/notifications"
	"github.com/okuracookware/referral-api/shopify"
	"github.com/okuracookware/referral-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// createDiscount is swapped in tests.
var createDiscount = shopify.CreateDiscountCode

// IssueRewards issues discount-code rewards for a converted referral and
// flips it to rewarded. Each recipient is attempted independently: a failed
// issuance is logged, that reward row is simply not created, and neither the
// other recipient nor the status transition is blocked. Returns nil rewards
// with no error when the referral is not in converted status.
//
// Re-invocation on an already rewarded referral is not guarded here; callers
// select by status.
func IssueRewards(referralID uint) ([]models.Reward, error) {
	settings, err := GetSettings()
	if err != nil {
		return nil, err
	}

	var referral models.Referral
	err = database.DB.Preload("Referrer").
		Where("id = ? AND status = ?", referralID, models.ReferralStatusConverted).
		First(&referral).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	rewards := []models.Reward{}

	reward, err := issueReward(&referral, models.RewardRecipientReferrer, referral.ReferrerID, utils.ReferrerCodePrefix, settings.RewardAmount, settings)
	if err != nil {
		log.Printf("🔥 Failed to create referrer reward for referral %d: %v", referral.ID, err)
	} else {
		rewards = append(rewards, *reward)

		err = database.DB.Model(&models.Customer{}).Where("id = ?", referral.ReferrerID).
			Update("total_earned", gorm.Expr("total_earned + ?", settings.RewardAmount)).Error
		if err != nil {
			return nil, err
		}

		go notifications.SendEmail(
			referral.Referrer.Name,
			referral.Referrer.Email,
			"You've Earned a Referral Reward!",
			fmt.Sprintf("<h1>Thank you for spreading the word!</h1><p>Someone you referred placed an order. Your discount code <b>%s</b> is ready to use on your next purchase.</p>", reward.DiscountCode),
		)
	}

	if settings.DoubleSided && referral.RefereeID != nil {
		refereeReward, err := issueReward(&referral, models.RewardRecipientReferee, *referral.RefereeID, utils.RefereeCodePrefix, settings.RefereeRewardAmt, settings)
		if err != nil {
			log.Printf("🔥 Failed to create referee reward for referral %d: %v", referral.ID, err)
		} else {
			rewards = append(rewards, *refereeReward)
		}
	}

	err = database.DB.Model(&models.Referral{}).Where("id = ?", referral.ID).
		Updates(map[string]interface{}{
			"status":      models.ReferralStatusRewarded,
			"rewarded_at": time.Now(),
		}).Error
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

func issueReward(referral *models.Referral, recipientType string, customerID uint, codePrefix string, amount decimal.Decimal, settings *models.Settings) (*models.Reward, error) {
	code, err := utils.GenerateUniqueDiscountCode(database.DB, codePrefix)
	if err != nil {
		return nil, err
	}

	discountType := models.RewardTypeFixedAmount
	if settings.RewardType == models.RewardTypePercentage {
		discountType = models.RewardTypePercentage
	}

	discount, err := createDiscount(shopify.DiscountRequest{
		Code:          code,
		Amount:        amount,
		Type:          discountType,
		MinOrderValue: settings.MinOrderValue,
		ExpiryDays:    settings.CodeExpiryDays,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reward := models.Reward{
		ReferralID:        referral.ID,
		RecipientType:     recipientType,
		CustomerID:        customerID,
		RewardType:        settings.RewardType,
		Amount:            amount,
		ShopifyDiscountID: discount.DiscountID,
		DiscountCode:      discount.Code,
		Status:            models.RewardStatusSent,
		SentAt:            &now,
		ExpiresAt:         &discount.ExpiresAt,
	}
	if err := database.DB.Create(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

type QueueResult struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// ProcessRewardQueue issues rewards for every converted referral whose
// conversion is older than the cooldown window. Per-item failures are logged
// and skipped; a crash mid-run is harmless since the next run re-scans
// whatever is still converted.
func ProcessRewardQueue() (QueueResult, error) {
	settings, err := GetSettings()
	if err != nil {
		return QueueResult{}, err
	}

	cutoff := time.Now().AddDate(0, 0, -settings.CooldownDays)

	var ids []uint
	err = database.DB.Model(&models.Referral{}).
		Where("status = ? AND converted_at < ?", models.ReferralStatusConverted, cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return QueueResult{}, err
	}

	processed := 0
	for _, id := range ids {
		if _, err := IssueRewards(id); err != nil {
			log.Printf("🔥 Failed to process reward for referral %d: %v", id, err)
			continue
		}
		processed++
	}

	return QueueResult{Processed: processed, Total: len(ids)}, nil
}
