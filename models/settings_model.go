package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RewardTypeFixedAmount = "fixed_amount"
	RewardTypePercentage  = "percentage"
)

// Settings is the singleton program configuration row (ID is always 1).
// It is loaded once per operation and passed through explicitly; components
// never reach for it ambiently.
type Settings struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	RewardType         string          `gorm:"size:20;default:'fixed_amount'" json:"reward_type"`
	RewardAmount       decimal.Decimal `gorm:"type:numeric(10,2);default:15.00" json:"reward_amount"`
	MinOrderValue      decimal.Decimal `gorm:"type:numeric(10,2);default:50.00" json:"min_order_value"`
	CooldownDays       int             `gorm:"default:14" json:"cooldown_days"`
	DoubleSided        bool            `gorm:"default:true" json:"double_sided"`
	RefereeRewardAmt   decimal.Decimal `gorm:"type:numeric(10,2);default:15.00" json:"referee_reward_amount"`
	MaxReferralsPerDay int             `gorm:"default:5" json:"max_referrals_per_day"`
	CodeExpiryDays     int             `gorm:"default:90" json:"code_expiry_days"`
	BlockSelfReferral  bool            `gorm:"default:true" json:"block_self_referral"`
	FlagSameIP         bool            `gorm:"default:true" json:"flag_same_ip"`
	FlagLowOrder       bool            `gorm:"default:true" json:"flag_low_order"`
	FlagRateLimit      bool            `gorm:"default:true" json:"flag_rate_limit"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
