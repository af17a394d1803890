package services

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okuracookware/referral-api/database"
	"github.com/okuracookware/referral-api/models"
	"github.com/okuracookware/referral-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProcessOrderCreated runs the conversion pipeline for one order-created
// event. It is invoked after the webhook has already been acknowledged, so
// failures are logged by the caller and never surfaced to the sender.
//
// Events that carry no email, no extractable code or an unknown code are
// silently dropped. Duplicate order ids are absorbed by the unique index on
// shopify_order_id.
func ProcessOrderCreated(event *OrderEvent) error {
	evtID := uuid.NewString()

	email := strings.ToLower(strings.TrimSpace(event.Email))
	if email == "" {
		return nil
	}

	code := ExtractReferralCode(event)
	if code == "" {
		return nil
	}

	var referrer models.Customer
	if err := database.DB.Where("referral_code = ?", code).First(&referrer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	// Cheap pre-check to skip fraud evaluation on redeliveries. The conflict-
	// tolerant insert below is what actually guarantees idempotency.
	var existing int64
	if err := database.DB.Model(&models.Referral{}).Where("shopify_order_id = ?", event.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		log.Printf("[%s] Order %d already processed, skipping", evtID, event.ID)
		return nil
	}

	refereeID, err := resolveReferee(event, email, referrer.ID)
	if err != nil {
		return err
	}

	settings, err := GetSettings()
	if err != nil {
		return err
	}

	verdict, err := CheckFraud(FraudCheckInput{
		ReferrerCode: code,
		RefereeEmail: email,
		RefereeIP:    event.BrowserIP,
		OrderTotal:   event.OrderTotal(),
	}, settings)
	if err != nil {
		return err
	}

	status := models.ReferralStatusPending
	var convertedAt *time.Time
	if verdict.Passed {
		status = models.ReferralStatusConverted
		now := time.Now()
		convertedAt = &now
	}

	referral := models.Referral{
		ReferrerID:     referrer.ID,
		RefereeID:      refereeID,
		RefereeEmail:   email,
		ShopifyOrderID: event.ID,
		OrderTotal:     event.OrderTotal(),
		Status:         status,
		ConvertedAt:    convertedAt,
	}
	result := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shopify_order_id"}},
		DoNothing: true,
	}).Create(&referral)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Lost a duplicate-delivery race; the winning insert owns the side effects.
		log.Printf("[%s] Order %d inserted concurrently elsewhere, skipping", evtID, event.ID)
		return nil
	}

	err = database.DB.Model(&models.Customer{}).Where("id = ?", referrer.ID).
		Update("total_referrals", gorm.Expr("total_referrals + ?", 1)).Error
	if err != nil {
		return err
	}

	if !verdict.Passed {
		if err := RecordFlags(referral.ID, referrer.ID, verdict.Flags); err != nil {
			return err
		}
	}

	log.Printf("✅ [%s] Referral %d created: %s -> %s (%s)", evtID, referral.ID, code, email, status)
	return nil
}

// resolveReferee finds the referred customer by email, auto-enrolling them
// when the order carries a storefront customer identity. Returns nil when the
// referee cannot be resolved; the referral is still recorded against the
// email snapshot.
func resolveReferee(event *OrderEvent, email string, referrerID uint) (*uint, error) {
	var referee models.Customer
	err := database.DB.Where("email = ?", email).First(&referee).Error
	if err == nil {
		return &referee.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if event.Customer == nil || event.Customer.ID == 0 {
		return nil, nil
	}

	code, err := utils.GenerateUniqueReferralCode(database.DB)
	if err != nil {
		return nil, err
	}

	referee = models.Customer{
		ShopifyID:    event.Customer.ID,
		Email:        email,
		Name:         event.Customer.FirstName,
		ReferralCode: code,
		ReferredBy:   &referrerID,
	}
	if err := database.DB.Create(&referee).Error; err != nil {
		return nil, err
	}
	return &referee.ID, nil
}

// MarkOrderPaid upgrades a pending referral to converted once payment is
// confirmed for its order. Referrals in any other status are untouched.
func MarkOrderPaid(orderID int64) error {
	return database.DB.Model(&models.Referral{}).
		Where("shopify_order_id = ? AND status = ?", orderID, models.ReferralStatusPending).
		Updates(map[string]interface{}{
			"status":       models.ReferralStatusConverted,
			"converted_at": time.Now(),
		}).Error
}
