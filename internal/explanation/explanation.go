// Package explanation produces rule based reasons for recommending or
// rejecting a listing against a finder request.
package explanation

import "fmt"

// Reason codes.
const (
	CodeAffordableRent = "AFFORDABLE_RENT"
	CodeOverBudget     = "OVER_BUDGET"
	CodeGoodLocation   = "GOOD_LOCATION"
)

// DefaultCommuteMinutes is the commute considered convenient when the request sets none.
const DefaultCommuteMinutes = 20

// Input holds the request budget (in 만원) and the listing facts.
type Input struct {
	BudgetMonthlyMax *int64 `json:"budget_monthly_max"`
	BudgetDepositMax *int64 `json:"budget_deposit_max"`
	MaxCommuteMin    *int64 `json:"max_commute_min"`

	HouseMonthlyRent int64   `json:"house_monthly_rent"`
	HouseDeposit     int64   `json:"house_deposit"`
	HouseDistanceMin float64 `json:"house_distance_min"`
}

type Reason struct {
	Code     string         `json:"code"`
	Text     string         `json:"text"`
	Evidence map[string]any `json:"evidence"`
}

type Result struct {
	RecommendedReasons []Reason `json:"recommended_reasons"`
	RejectReasons      []Reason `json:"reject_reasons"`
}

// Explain compares the listing rent with the budget and the commute with the limit.
func Explain(in Input) Result {
	result := Result{
		RecommendedReasons: []Reason{},
		RejectReasons:      []Reason{},
	}

	if in.BudgetMonthlyMax != nil && *in.BudgetMonthlyMax != 0 {
		budget := *in.BudgetMonthlyMax
		evidence := map[string]any{"rent": in.HouseMonthlyRent}

		if in.HouseMonthlyRent <= budget {
			result.RecommendedReasons = append(result.RecommendedReasons, Reason{
				Code:     CodeAffordableRent,
				Text:     fmt.Sprintf("예산보다 %d만원 저렴하여 가격 메리트가 있습니다.", budget-in.HouseMonthlyRent),
				Evidence: evidence,
			})
		} else {
			result.RejectReasons = append(result.RejectReasons, Reason{
				Code:     CodeOverBudget,
				Text:     "월세 예산을 초과했습니다.",
				Evidence: evidence,
			})
		}
	}

	limit := float64(DefaultCommuteMinutes)
	if in.MaxCommuteMin != nil && *in.MaxCommuteMin > 0 {
		limit = float64(*in.MaxCommuteMin)
	}

	if in.HouseDistanceMin <= limit {
		result.RecommendedReasons = append(result.RecommendedReasons, Reason{
			Code:     CodeGoodLocation,
			Text:     fmt.Sprintf("학교까지 약 %d분 거리로 통학이 편리합니다.", int(in.HouseDistanceMin)),
			Evidence: map[string]any{"distance": in.HouseDistanceMin},
		})
	}

	return result
}
