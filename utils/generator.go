package utils

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/okuracookware/referral-api/models"
	"gorm.io/gorm"
)

// codeAlphabet deliberately drops I, O, 0 and 1 so codes survive being read
// aloud or retyped from a screenshot.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	ReferralCodePrefix = "OKURA"
	ReferrerCodePrefix = "OKREF"
	RefereeCodePrefix  = "OKNEW"

	referralCodeLength = 6
	discountCodeLength = 8
	maxCodeAttempts    = 5
)

// ErrCodeSpaceExhausted is returned when every generation attempt collided
// with an existing code. Callers must fail the operation, never accept a
// colliding code.
var ErrCodeSpaceExhausted = errors.New("could not generate a unique code after repeated attempts")

func randomCode(prefix string, length int) string {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return fmt.Sprintf("%s-%s", prefix, string(b))
}

// GenerateReferralCode produces an OKURA-XXXXXX candidate. Uniqueness is not
// guaranteed; use GenerateUniqueReferralCode when persisting.
func GenerateReferralCode() string {
	return randomCode(ReferralCodePrefix, referralCodeLength)
}

// GenerateDiscountCode produces a PREFIX-XXXXXXXX candidate for reward codes.
func GenerateDiscountCode(prefix string) string {
	return randomCode(prefix, discountCodeLength)
}

// Test seams for forcing collisions.
var (
	newReferralCode = GenerateReferralCode
	newDiscountCode = GenerateDiscountCode
)

func GenerateUniqueReferralCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := newReferralCode()

		var count int64
		if err := tx.Model(&models.Customer{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

func GenerateUniqueDiscountCode(tx *gorm.DB, prefix string) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := newDiscountCode(prefix)

		var count int64
		if err := tx.Model(&models.Reward{}).Where("discount_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
