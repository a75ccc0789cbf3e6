// Package policy selects stored listings that fit a student's housing request.
package policy

import (
	"fmt"
	"math"
)

// DefaultBudgetMarginRatio lets candidates exceed the requested budget by 10%.
const DefaultBudgetMarginRatio = 0.1

// BudgetFilterPolicy widens requested budgets by a margin ratio.
type BudgetFilterPolicy struct {
	MarginRatio float64
}

func NewBudgetFilterPolicy(marginRatio float64) (*BudgetFilterPolicy, error) {
	if marginRatio < 0 || math.IsNaN(marginRatio) || math.IsInf(marginRatio, 0) {
		return nil, fmt.Errorf("budget margin ratio must be a non-negative number, got %v", marginRatio)
	}
	return &BudgetFilterPolicy{MarginRatio: marginRatio}, nil
}

// ClampBudget returns the upper limit used for filtering. Unknown and negative
// budgets yield no limit.
func (p *BudgetFilterPolicy) ClampBudget(value *int64) *int64 {
	if value == nil || *value < 0 {
		return nil
	}

	limit := int64(math.Floor(float64(*value) * (1 + p.MarginRatio)))
	return &limit
}
