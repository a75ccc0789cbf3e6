// Package ai defines the language model ports used by the chatbot.
package ai

import "context"

// FallbackReason is returned when the model produced nothing usable.
const FallbackReason = "추천 이유를 생성하지 못했습니다."

// Listing identifies the recommended listing a model should explain.
type Listing struct {
	ItemID string
	Title  string
}

// ReasonGenerator writes short reasons why a listing fits the user's request.
type ReasonGenerator interface {
	GenerateReasons(ctx context.Context, listing Listing, querySummary string) ([]string, error)
}
