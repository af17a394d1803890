package services

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderEvent is the validated intake shape for order webhooks. Shopify sends
// note attributes as {name, value} pairs set by the storefront script.
type OrderEvent struct {
	ID             int64           `json:"id"`
	Email          string          `json:"email"`
	TotalPrice     string          `json:"total_price"`
	Note           string          `json:"note"`
	NoteAttributes []NoteAttribute `json:"note_attributes"`
	BrowserIP      string          `json:"browser_ip"`
	Customer       *OrderCustomer  `json:"customer"`
}

type NoteAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type OrderCustomer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Tags      string `json:"tags"`
}

// OrderTotal parses the decimal-string order total. A missing or garbled
// total parses to zero, which downstream treats as "no total supplied".
func (o *OrderEvent) OrderTotal() decimal.Decimal {
	total, err := decimal.NewFromString(o.TotalPrice)
	if err != nil {
		return decimal.Zero
	}
	return total
}

var (
	notePattern = regexp.MustCompile(`(?i)ref[:\s]*(OKURA-[A-Z0-9]+)`)
	tagPattern  = regexp.MustCompile(`(?i)ref:(OKURA-[A-Z0-9]+)`)
)

// ExtractReferralCode derives a referral code from an order event, trying in
// order: a referral_code/ref note attribute, a code pattern in the free-text
// order note, then the same pattern in the customer tag string. Returns ""
// when no strategy matches.
func ExtractReferralCode(order *OrderEvent) string {
	for _, attr := range order.NoteAttributes {
		if attr.Name == "referral_code" || attr.Name == "ref" {
			if attr.Value != "" {
				return strings.ToUpper(attr.Value)
			}
		}
	}

	if order.Note != "" {
		if m := notePattern.FindStringSubmatch(order.Note); m != nil {
			return strings.ToUpper(m[1])
		}
	}

	if order.Customer != nil && order.Customer.Tags != "" {
		if m := tagPattern.FindStringSubmatch(order.Customer.Tags); m != nil {
			return strings.ToUpper(m[1])
		}
	}

	return ""
}
