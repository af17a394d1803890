package models

import "time"

// Click is an append-only attribution event recorded when someone follows a
// referral link. The code is validated upstream, not a foreign key here.
type Click struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReferralCode string    `gorm:"size:20;not null;index" json:"referral_code"`
	IPAddress    string    `gorm:"size:64;index" json:"ip_address"`
	UserAgent    string    `gorm:"type:text" json:"user_agent"`
	ReferrerURL  string    `gorm:"type:text" json:"referrer_url"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
