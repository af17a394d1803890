package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a referral program participant. Email is stored lowercased;
// ReferredBy is a weak back-reference to the customer whose code enrolled them.
type Customer struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ShopifyID      int64           `gorm:"not null;uniqueIndex" json:"shopify_id"`
	Email          string          `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name           string          `gorm:"size:255" json:"name"`
	ReferralCode   string          `gorm:"size:20;not null;uniqueIndex" json:"referral_code"`
	ReferredBy     *uint           `json:"referred_by"`
	TotalReferrals int             `gorm:"default:0" json:"total_referrals"`
	TotalEarned    decimal.Decimal `gorm:"type:numeric(10,2);default:0.00" json:"total_earned"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
