package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReferralStatusPending   = "pending"
	ReferralStatusConverted = "converted"
	ReferralStatusRewarded  = "rewarded"
	ReferralStatusRejected  = "rejected"
	ReferralStatusExpired   = "expired"
)

// ReferralStatuses is the full status vocabulary. Admin overrides are checked
// against this list only; any-to-any transitions are an intentional operator
// escape hatch.
var ReferralStatuses = []string{
	ReferralStatusPending,
	ReferralStatusConverted,
	ReferralStatusRewarded,
	ReferralStatusRejected,
	ReferralStatusExpired,
}

func IsValidReferralStatus(status string) bool {
	for _, s := range ReferralStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Referral is one attributed conversion. ShopifyOrderID carries a unique
// index: it is the idempotency key for the conversion pipeline.
type Referral struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ReferrerID     uint            `gorm:"not null;index" json:"referrer_id"`
	RefereeID      *uint           `gorm:"index" json:"referee_id"`
	RefereeEmail   string          `gorm:"size:255" json:"referee_email"`
	ShopifyOrderID int64           `gorm:"not null;uniqueIndex" json:"shopify_order_id"`
	OrderTotal     decimal.Decimal `gorm:"type:numeric(10,2)" json:"order_total"`
	Status         string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ConvertedAt    *time.Time      `json:"converted_at"`
	RewardedAt     *time.Time      `json:"rewarded_at"`

	Referrer Customer  `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	Referee  *Customer `gorm:"foreignKey:RefereeID" json:"referee,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
