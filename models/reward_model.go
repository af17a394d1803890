package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RewardRecipientReferrer = "referrer"
	RewardRecipientReferee  = "referee"
)

const (
	RewardStatusPending = "pending"
	RewardStatusSent    = "sent"
	RewardStatusUsed    = "used"
	RewardStatusExpired = "expired"
)

// Reward is a single discount grant for one recipient of one referral.
type Reward struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ReferralID        uint            `gorm:"not null;index" json:"referral_id"`
	RecipientType     string          `gorm:"size:10;not null" json:"recipient_type"`
	CustomerID        uint            `gorm:"not null;index" json:"customer_id"`
	RewardType        string          `gorm:"size:20;default:'discount'" json:"reward_type"`
	Amount            decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	ShopifyDiscountID int64           `json:"shopify_discount_id"`
	DiscountCode      string          `gorm:"size:50;index" json:"discount_code"`
	Status            string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	SentAt            *time.Time      `json:"sent_at"`
	UsedAt            *time.Time      `json:"used_at"`
	ExpiresAt         *time.Time      `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}
