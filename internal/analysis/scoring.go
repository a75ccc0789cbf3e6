package analysis

import (
	"fmt"
	"math"
)

const (
	// pyeongFactor converts a per-square-metre price to a per-3.3㎡ (pyeong) price.
	pyeongFactor = 3.3

	violationPenalty = 30
	noSeismicPenalty = 25

	neutralPriceScore = 50
)

const (
	RiskSummaryLow      = "위험도 낮음"
	RiskSummaryMedium   = "위험도 보통"
	RiskSummaryHigh     = "위험도 높음"
	RiskSummaryVeryHigh = "위험도 매우 높음"

	PriceCommentAverage = "동 평균과 비슷한 가격"
)

// CalculateRiskScore adds up penalties for a building. The result is not capped.
func CalculateRiskScore(b BuildingInfo) int {
	score := 0

	if b.IsViolation {
		score += violationPenalty
	}

	if !b.HasSeismicDesign {
		score += noSeismicPenalty
	}

	switch {
	case b.BuildingAge >= 30:
		score += 40
	case b.BuildingAge >= 20:
		score += 30
	case b.BuildingAge >= 10:
		score += 20
	default:
		score += 10
	}

	return score
}

// GenerateRiskSummary maps a score to its band. Upper bounds are inclusive.
func GenerateRiskSummary(score int) string {
	switch {
	case score <= 30:
		return RiskSummaryLow
	case score <= 60:
		return RiskSummaryMedium
	case score <= 80:
		return RiskSummaryHigh
	default:
		return RiskSummaryVeryHigh
	}
}

// CalculatePricePerArea returns the price per 3.3㎡.
func CalculatePricePerArea(price, area float64) float64 {
	return (price / area) * pyeongFactor
}

// CalculatePriceScore scores a price against the area average: 50 at the
// average, half a point per percent of deviation. Cheaper scores higher.
// Extreme deviations leave the 0..100 range.
func CalculatePriceScore(pricePerArea, areaAverage float64) int {
	return neutralPriceScore - int(diffPercent(pricePerArea, areaAverage)*0.5)
}

// GeneratePriceComment describes the deviation from the area average.
func GeneratePriceComment(pricePerArea, areaAverage float64) string {
	diff := diffPercent(pricePerArea, areaAverage)
	percent := int(diff)
	if percent < 0 {
		percent = -percent
	}

	switch {
	case math.Abs(diff) < 1:
		return PriceCommentAverage
	case diff > 0:
		return fmt.Sprintf("동 평균 대비 약 %d%% 높은 가격", percent)
	default:
		return fmt.Sprintf("동 평균 대비 약 %d%% 낮은 가격", percent)
	}
}

func diffPercent(pricePerArea, areaAverage float64) float64 {
	return (pricePerArea - areaAverage) / areaAverage * 100
}
