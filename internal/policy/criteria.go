package policy

import "strings"

// Price types of a finder request.
const (
	PriceTypeJeonse  = "JEONSE"
	PriceTypeMonthly = "MONTHLY"
	PriceTypeMixed   = "MIXED"
)

// districtSuffix marks a 구 (district) token in a region string.
const districtSuffix = "구"

// Criteria is what the candidate query filters on.
type Criteria struct {
	MaxDepositLimit     *int64  `json:"max_deposit_limit"`
	MaxRentLimit        *int64  `json:"max_rent_limit"`
	BudgetMarginRatio   float64 `json:"budget_margin_ratio"`
	PriceType           string  `json:"price_type,omitempty"`
	PreferredRegion     string  `json:"preferred_region,omitempty"`
	HouseType           string  `json:"house_type,omitempty"`
	AdditionalCondition string  `json:"additional_condition,omitempty"`
}

// PriceKey returns the upper-cased price type.
func (c Criteria) PriceKey() string {
	return strings.ToUpper(strings.TrimSpace(c.PriceType))
}

// RegionToken returns the address fragment candidates must contain: the
// first district token of the preferred region, or its first token.
func (c Criteria) RegionToken() string {
	return RegionToken(c.PreferredRegion)
}

func RegionToken(preferred string) string {
	tokens := strings.Fields(strings.ReplaceAll(preferred, ",", " "))
	if len(tokens) == 0 {
		return ""
	}

	for _, token := range tokens {
		if strings.HasSuffix(token, districtSuffix) {
			return token
		}
	}
	return tokens[0]
}
