package explanation

import "testing"

func ptr(v int64) *int64 { return &v }

func TestExplain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       Input
		recommended []string
		rejected    []string
		firstText   string
	}{
		{
			name:        "affordable and close",
			input:       Input{BudgetMonthlyMax: ptr(50), HouseMonthlyRent: 45, HouseDistanceMin: 12.7},
			recommended: []string{CodeAffordableRent, CodeGoodLocation},
			firstText:   "예산보다 5만원 저렴하여 가격 메리트가 있습니다.",
		},
		{
			name:     "over budget and far",
			input:    Input{BudgetMonthlyMax: ptr(40), HouseMonthlyRent: 45, HouseDistanceMin: 35},
			rejected: []string{CodeOverBudget},
		},
		{
			name:        "no budget",
			input:       Input{HouseMonthlyRent: 45, HouseDistanceMin: 20},
			recommended: []string{CodeGoodLocation},
			firstText:   "학교까지 약 20분 거리로 통학이 편리합니다.",
		},
		{
			name:        "zero budget is ignored",
			input:       Input{BudgetMonthlyMax: ptr(0), HouseMonthlyRent: 45, HouseDistanceMin: 25, MaxCommuteMin: ptr(30)},
			recommended: []string{CodeGoodLocation},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Explain(tt.input)
			assertCodes(t, got.RecommendedReasons, tt.recommended)
			assertCodes(t, got.RejectReasons, tt.rejected)

			if tt.firstText != "" && got.RecommendedReasons[0].Text != tt.firstText {
				t.Fatalf("expected %q, got %q", tt.firstText, got.RecommendedReasons[0].Text)
			}
		})
	}
}

func assertCodes(t *testing.T, reasons []Reason, want []string) {
	t.Helper()

	if len(reasons) != len(want) {
		t.Fatalf("expected %v, got %+v", want, reasons)
	}
	for i, code := range want {
		if reasons[i].Code != code {
			t.Fatalf("expected %v, got %+v", want, reasons)
		}
	}
}
