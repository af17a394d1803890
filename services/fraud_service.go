package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/okuracookware/referral-api/database"
	"github.com/okuracookware/referral-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fraudWindow is the trailing window for the same_ip and rate_limit rules.
const fraudWindow = 24 * time.Hour

// sameIPClickLimit is the number of clicks from a single IP the window may
// contain before the next conversion is flagged.
const sameIPClickLimit = 3

type FraudCheckInput struct {
	ReferrerCode string
	RefereeEmail string
	RefereeIP    string
	OrderTotal   decimal.Decimal
}

type FraudResult struct {
	Passed bool     `json:"passed"`
	Flags  []string `json:"flags"`
}

// CheckFraud scores a conversion attempt against the rules enabled in
// settings. Rules are independent; every matching rule contributes a flag and
// the verdict passes only when none fired. Click and referral history is read
// at call time so the verdict always reflects current state.
func CheckFraud(input FraudCheckInput, settings *models.Settings) (FraudResult, error) {
	flags := []string{}
	cutoff := time.Now().Add(-fraudWindow)

	var referrer models.Customer
	referrerFound := true
	if err := database.DB.Where("referral_code = ?", input.ReferrerCode).First(&referrer).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return FraudResult{}, err
		}
		referrerFound = false
	}

	if settings.BlockSelfReferral && referrerFound && input.RefereeEmail != "" {
		if strings.EqualFold(referrer.Email, input.RefereeEmail) {
			flags = append(flags, models.FraudReasonSelfReferral)
		}
	}

	if settings.FlagSameIP && input.RefereeIP != "" {
		var clicks int64
		err := database.DB.Model(&models.Click{}).
			Where("referral_code = ? AND ip_address = ? AND created_at > ?", input.ReferrerCode, input.RefereeIP, cutoff).
			Count(&clicks).Error
		if err != nil {
			return FraudResult{}, err
		}
		if clicks > sameIPClickLimit {
			flags = append(flags, models.FraudReasonSameIP)
		}
	}

	if settings.FlagLowOrder && input.OrderTotal.IsPositive() && input.OrderTotal.LessThan(settings.MinOrderValue) {
		flags = append(flags, models.FraudReasonLowOrder)
	}

	if settings.FlagRateLimit && referrerFound {
		var recent int64
		err := database.DB.Model(&models.Referral{}).
			Where("referrer_id = ? AND created_at > ?", referrer.ID, cutoff).
			Count(&recent).Error
		if err != nil {
			return FraudResult{}, err
		}
		if recent >= int64(settings.MaxReferralsPerDay) {
			flags = append(flags, models.FraudReasonRateLimit)
		}
	}

	return FraudResult{Passed: len(flags) == 0, Flags: flags}, nil
}

// RecordFlags persists one FraudFlag row per fired reason for manual review.
func RecordFlags(referralID, customerID uint, flags []string) error {
	for _, reason := range flags {
		flag := models.FraudFlag{
			ReferralID: referralID,
			CustomerID: customerID,
			Reason:     reason,
			Details:    fmt.Sprintf("Auto-flagged: %s", reason),
		}
		if err := database.DB.Create(&flag).Error; err != nil {
			return err
		}
	}
	return nil
}
