package services

import (
	"testing"

	"github.com/okuracookware/referral-api/database"
	"github.com/okuracookware/referral-api/models"
)

func orderEvent(orderID int64, email, total, code string) *OrderEvent {
	return &OrderEvent{
		ID:         orderID,
		Email:      email,
		TotalPrice: total,
		NoteAttributes: []NoteAttribute{
			{Name: "referral_code", Value: code},
		},
	}
}

func loadReferrals(t *testing.T) []models.Referral {
	t.Helper()
	var refs []models.Referral
	if err := database.DB.Order("id").Find(&refs).Error; err != nil {
		t.Fatalf("failed to load referrals: %v", err)
	}
	return refs
}

func TestProcessOrderCreated_Converted(t *testing.T) {
	setupTestDB(t)
	seedSettings(t)
	referrer := seedCustomer(t, 100, "referrer@example.com", "OKURA-AAAAAA")

	err := ProcessOrderCreated(orderEvent(5001, "buyer@example.com", "80.00", "OKURA-AAAAAA"))
	if err != nil {
		t.Fatalf("ProcessOrderCreated error: %v", err)
	}

	refs := loadReferrals(t)
	if len(refs) != 1 {
		t.Fatalf("expected 1 referral, got %d", len(refs))
	}
	if refs[0].Status != models.ReferralStatusConverted {
		t.Fatalf("expected converted status, got %s", refs[0].Status)
	}
	if refs[0].ConvertedAt == nil {
		t.Fatalf("converted referral must carry a conversion timestamp")
	}
	if refs[0].RefereeEmail != "buyer@example.com" {
		t.Fatalf("unexpected referee email %q", refs[0].RefereeEmail)
	}

	var updated models.Customer
	if err := database.DB.First(&updated, referrer.ID).Error; err != nil {
		t.Fatalf("failed to reload referrer: %v", err)
	}
	if updated.TotalReferrals != 1 {
		t.Fatalf("expected total_referrals 1, got %d", updated.TotalReferrals)
	}
}

func TestProcessOrderCreated_LowOrderPending(t *testing.T) {
	setupTestDB(t)
	seedSettings(t)
	referrer := seedCustomer(t, 100, "referrer@example.com", "OKURA-AAAAAA")

	err := ProcessOrderCreated(orderEvent(5002, "buyer@example.com", "30.00", "OKURA-AAAAAA"))
	if err != nil {
		t.Fatalf("ProcessOrderCreated error: %v", err)
	}

	refs := loadReferrals(t)
	if len(refs) != 1 {
		t.Fatalf("expected 1 referral, got %d", len(refs))
	}
	if refs[0].Status != models.ReferralStatusPending {
		t.Fatalf("expected pending status for low order, got %s", refs[0].Status)
	}
	if refs[0].ConvertedAt != nil {
		t.Fatalf("pending referral must not carry a conversion timestamp")
	}

	var flags []models.FraudFlag
	if err := database.DB.Find(&flags).Error; err != nil {
		t.Fatalf("failed to load flags: %v", err)
	}
	if len(flags) != 1 || flags[0].Reason != models.FraudReasonLowOrder {
		t.Fatalf("expected a single low_order flag, got %+v", flags)
	}
	if flags[0].ReferralID != refs[0].ID || flags[0].CustomerID != referrer.ID {
		t.Fatalf("flag must reference the referral and referrer, got %+v", flags[0])
	}
}

func TestProcessOrderCreated_RateLimitFlag(t *testing.T) {
	setupTestDB(t)
	seedSettings(t)
	setSetting(t, "max_referrals_per_day", 3)
	seedCustomer(t, 100, "referrer@example.com", "OKURA-AAAAAA")

	for i := int64(0); i < 4; i++ {
		err := ProcessOrderCreated(orderEvent(6000+i, "buyer@example.com", "80.00", "OKURA-AAAAAA"))
		if err != nil {
			t.Fatalf("ProcessOrderCreated error on order %d: %v", 6000+i, err)
		}
	}

	refs := loadReferrals(t)
	if len(refs) != 4 {
		t.Fatalf("expected 4 referrals, got %d", len(refs))
	}
	if refs[3].Status != models.ReferralStatusPending {
		t.Fatalf("4th referral should be pending, got %s", refs[3].Status)
	}

	var flags []models.FraudFlag
	if err := database.DB.Where("reason = ?", models.FraudReasonRateLimit).Find(&flags).Error; err != nil {
		t.Fatalf("failed to load flags: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("expected one rate_limit flag regardless of order total, got %d", len(flags))
	}
}

func TestProcessOrderCreated_Idempotent(t *testing.T) {
	setupTestDB(t)
	seedSettings(t)
	referrer := seedCustomer(t, 100, "referrer@example.com", "OKURA-AAAAAA")

	event := orderEvent(5003, "buyer@example.com", "80.00", "OKURA-AAAAAA")
	if err := ProcessOrderCreated(event); err != nil {
		t.Fatalf("first delivery error: %v", err)
	}
	if err := ProcessOrderCreated(event); err != nil {
		t.Fatalf("second delivery error: %v", err)
	}

	refs := loadReferrals(t)
	if len(refs) != 1 {
		t.Fatalf("duplicate delivery must leave exactly 1 referral, got %d", len(refs))
	}

	var updated models.Customer
	if err := database.DB.First(&updated, referrer.ID).Error; err != nil {
		t.Fatalf("failed to reload referrer: %v", err)
	}
	if updated.TotalReferrals != 1 {
		t.Fatalf("duplicate delivery must not re-increment counters, got %d", updated.TotalReferrals)
	}
}

func TestProcessOrderCreated_SilentAborts(t *testing.T) {
	setupTestDB(t)
	seedSettings(t)
	seedCustomer(t, 100, "referrer@example.com", "OKURA-AAAAAA")

	// No email.
	if err := ProcessOrderCreated(orderEvent(5004, "", "80.00", "OKURA-AAAAAA")); err != nil {
		t.Fatalf("missing email must be a silent no-op: %v", err)
	}
	// No code anywhere on the event.
	if err := ProcessOrderCreated(&OrderEvent{ID: 5005, Email: "buyer@example.com", TotalPrice: "80.00"}); err != nil {
		t.Fatalf("missing code must be a silent no-op: %v", err)
	}
	// Unknown code.
	if err := ProcessOrderCreated(orderEvent(5006, "buyer@example.com", "80.00", "OKURA-ZZZZZZ")); err != nil {
		t.Fatalf("unknown code must be a silent no-op: %v", err)
	}

	if refs := loadReferrals(t); len(refs) != 0 {
		t.Fatalf("no referrals expected, got %d", len(refs))
	}
}

func TestProcessOrderCreated_AutoEnrollsReferee(t *testing.T) {
	setupTestDB(t)
	seedSettings(t)
	referrer := seedCustomer(t, 100, "referrer@example.com", "OKURA-AAAAAA")

	event := orderEvent(5007, "NewBuyer@Example.com", "80.00", "OKURA-AAAAAA")
	event.Customer = &OrderCustomer{ID: 200, FirstName: "Ada"}
	if err := ProcessOrderCreated(event); err != nil {
		t.Fatalf("ProcessOrderCreated error: %v", err)
	}

	var referee models.Customer
	if err := database.DB.Where("email = ?", "newbuyer@example.com").First(&referee).Error; err != nil {
		t.Fatalf("referee should have been auto-enrolled: %v", err)
	}
	if referee.ReferredBy == nil || *referee.ReferredBy != referrer.ID {
		t.Fatalf("referee must back-reference the referrer, got %+v", referee.ReferredBy)
	}
	if referee.ReferralCode == "" {
		t.Fatalf("auto-enrolled referee needs their own referral code")
	}

	refs := loadReferrals(t)
	if len(refs) != 1 || refs[0].RefereeID == nil || *refs[0].RefereeID != referee.ID {
		t.Fatalf("referral must link the auto-enrolled referee, got %+v", refs)
	}
}

func TestMarkOrderPaid_UpgradesPending(t *testing.T) {
	setupTestDB(t)
	seedSettings(t)
	referrer := seedCustomer(t, 100, "referrer@example.com", "OKURA-AAAAAA")

	pending := models.Referral{
		ReferrerID:     referrer.ID,
		RefereeEmail:   "buyer@example.com",
		ShopifyOrderID: 5008,
		Status:         models.ReferralStatusPending,
	}
	if err := database.DB.Create(&pending).Error; err != nil {
		t.Fatalf("failed to seed referral: %v", err)
	}

	if err := MarkOrderPaid(5008); err != nil {
		t.Fatalf("MarkOrderPaid error: %v", err)
	}

	var updated models.Referral
	if err := database.DB.First(&updated, pending.ID).Error; err != nil {
		t.Fatalf("failed to reload referral: %v", err)
	}
	if updated.Status != models.ReferralStatusConverted {
		t.Fatalf("expected converted, got %s", updated.Status)
	}
	if updated.ConvertedAt == nil {
		t.Fatalf("conversion timestamp missing after upgrade")
	}
}

func TestMarkOrderPaid_LeavesTerminalStatusesAlone(t *testing.T) {
	setupTestDB(t)
	seedSettings(t)
	referrer := seedCustomer(t, 100, "referrer@example.com", "OKURA-AAAAAA")

	rejected := models.Referral{
		ReferrerID:     referrer.ID,
		RefereeEmail:   "buyer@example.com",
		ShopifyOrderID: 5009,
		Status:         models.ReferralStatusRejected,
	}
	if err := database.DB.Create(&rejected).Error; err != nil {
		t.Fatalf("failed to seed referral: %v", err)
	}

	if err := MarkOrderPaid(5009); err != nil {
		t.Fatalf("MarkOrderPaid error: %v", err)
	}

	var updated models.Referral
	if err := database.DB.First(&updated, rejected.ID).Error; err != nil {
		t.Fatalf("failed to reload referral: %v", err)
	}
	if updated.Status != models.ReferralStatusRejected {
		t.Fatalf("rejected referral must stay rejected, got %s", updated.Status)
	}
}
