package shopify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	config "github.com/okuracookware/referral-api/configs"
	"github.com/shopspring/decimal"
)

// DiscountRequest describes a single-use discount code to create on the
// store. Type is fixed_amount or percentage.
type DiscountRequest struct {
	Code          string
	Amount        decimal.Decimal
	Type          string
	MinOrderValue decimal.Decimal
	ExpiryDays    int
}

type Discount struct {
	PriceRuleID int64
	DiscountID  int64
	Code        string
	ExpiresAt   time.Time
}

type priceRuleResponse struct {
	PriceRule struct {
		ID int64 `json:"id"`
	} `json:"price_rule"`
}

type discountCodeResponse struct {
	DiscountCode struct {
		ID   int64  `json:"id"`
		Code string `json:"code"`
	} `json:"discount_code"`
}

func apiURL(endpoint string) string {
	store := config.Config("SHOPIFY_STORE")
	version := config.Config("SHOPIFY_API_VERSION")
	if version == "" {
		version = "2024-01"
	}
	return fmt.Sprintf("https://%s/admin/api/%s%s", store, version, endpoint)
}

func shopifyPost(endpoint string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiURL(endpoint), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", config.Config("SHOPIFY_ACCESS_TOKEN"))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("shopify API error %d: %s", resp.StatusCode, string(respBody))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateDiscountCode creates a single-use discount on the store: first a
// price rule carrying the value and constraints, then a discount code under
// it. The call is blocking and single-attempt; any failure is terminal for
// this issuance.
func CreateDiscountCode(req DiscountRequest) (*Discount, error) {
	startsAt := time.Now()
	expiresAt := startsAt.AddDate(0, 0, req.ExpiryDays)

	priceRule := map[string]interface{}{
		"title":              req.Code,
		"target_type":        "line_item",
		"target_selection":   "all",
		"allocation_method":  "across",
		"value_type":         req.Type,
		"value":              fmt.Sprintf("-%s", req.Amount.StringFixed(2)),
		"customer_selection": "all",
		"once_per_customer":  true,
		"usage_limit":        1,
		"starts_at":          startsAt.Format(time.RFC3339),
		"ends_at":            expiresAt.Format(time.RFC3339),
	}
	if req.MinOrderValue.IsPositive() {
		priceRule["prerequisite_subtotal_range"] = map[string]string{
			"greater_than_or_equal_to": req.MinOrderValue.StringFixed(2),
		}
	}

	var ruleResp priceRuleResponse
	err := shopifyPost("/price_rules.json", map[string]interface{}{"price_rule": priceRule}, &ruleResp)
	if err != nil {
		return nil, fmt.Errorf("failed to create price rule: %w", err)
	}

	var codeResp discountCodeResponse
	err = shopifyPost(
		fmt.Sprintf("/price_rules/%d/discount_codes.json", ruleResp.PriceRule.ID),
		map[string]interface{}{"discount_code": map[string]string{"code": req.Code}},
		&codeResp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discount code: %w", err)
	}

	return &Discount{
		PriceRuleID: ruleResp.PriceRule.ID,
		DiscountID:  codeResp.DiscountCode.ID,
		Code:        codeResp.DiscountCode.Code,
		ExpiresAt:   expiresAt,
	}, nil
}
