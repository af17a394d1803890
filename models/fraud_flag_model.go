package models

import "time"

const (
	FraudReasonSelfReferral      = "self_referral"
	FraudReasonSameIP            = "same_ip"
	FraudReasonRateLimit         = "rate_limit"
	FraudReasonLowOrder          = "low_order"
	FraudReasonSuspiciousPattern = "suspicious_pattern"
)

// FraudFlag records a suspicion for manual review. It marks a referral for
// scrutiny; it does not by itself block anything.
type FraudFlag struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ReferralID uint       `gorm:"index" json:"referral_id"`
	CustomerID uint       `gorm:"index" json:"customer_id"`
	Reason     string     `gorm:"size:50;not null" json:"reason"`
	Details    string     `gorm:"type:text" json:"details"`
	Resolved   bool       `gorm:"default:false;index" json:"resolved"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}
