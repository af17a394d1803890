package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/okuracookware/referral-api/database"
	"github.com/okuracookware/referral-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Customer{},
		&models.Referral{},
		&models.Reward{},
		&models.Click{},
		&models.FraudFlag{},
		&models.Settings{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.DB = db
}

func seedSettings(t *testing.T) *models.Settings {
	t.Helper()

	settings := &models.Settings{
		ID:                 1,
		RewardType:         models.RewardTypeFixedAmount,
		RewardAmount:       decimal.NewFromInt(15),
		MinOrderValue:      decimal.NewFromInt(50),
		CooldownDays:       14,
		DoubleSided:        true,
		RefereeRewardAmt:   decimal.NewFromInt(15),
		MaxReferralsPerDay: 5,
		CodeExpiryDays:     90,
		BlockSelfReferral:  true,
		FlagSameIP:         true,
		FlagLowOrder:       true,
		FlagRateLimit:      true,
	}
	if err := database.DB.Create(settings).Error; err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
	return settings
}

// setSetting writes one settings column directly, bypassing the struct so
// false/zero values stick.
func setSetting(t *testing.T, column string, value interface{}) {
	t.Helper()
	err := database.DB.Model(&models.Settings{}).Where("id = ?", 1).Update(column, value).Error
	if err != nil {
		t.Fatalf("failed to update setting %s: %v", column, err)
	}
}

func seedCustomer(t *testing.T, shopifyID int64, email, code string) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		ShopifyID:    shopifyID,
		Email:        email,
		ReferralCode: code,
	}
	if err := database.DB.Create(customer).Error; err != nil {
		t.Fatalf("failed to seed customer %s: %v", email, err)
	}
	return customer
}
