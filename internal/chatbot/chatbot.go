// Package chatbot explains recommended listings in the tone the user asked for.
package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/ai"
	"github.com/spigell/abang/internal/logger"
)

// Tone is the answer style requested by the user.
type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneFormal   Tone = "formal"
	ToneCasual   Tone = "casual"
)

var (
	ErrInvalidTone  = errors.New("invalid tone")
	ErrEmptyMessage = errors.New("message is required")
)

// ParseTone validates a tone name.
func ParseTone(s string) (Tone, error) {
	switch t := Tone(strings.ToLower(strings.TrimSpace(s))); t {
	case ToneFriendly, ToneFormal, ToneCasual:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTone, s)
	}
}

// ItemID accepts both numeric and string identifiers.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item_id must be a number or a string: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

type Recommendation struct {
	ItemID  ItemID   `json:"item_id"`
	Title   string   `json:"title"`
	Reasons []string `json:"reasons"`
}

type Request struct {
	Tone            string           `json:"tone"`
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations"`
}

type Response struct {
	Tone            Tone             `json:"tone"`
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations"`
}

type Service struct {
	generator ai.ReasonGenerator
	logger    *zap.Logger
}

func NewService(generator ai.ReasonGenerator, log *zap.Logger) *Service {
	return &Service{
		generator: generator,
		logger:    logger.Component(log, "chatbot"),
	}
}

// Execute fills in reasons for every recommendation that has none.
// Recommendations that already carry reasons are returned untouched.
func (s *Service) Execute(ctx context.Context, req Request) (*Response, error) {
	tone, err := ParseTone(req.Tone)
	if err != nil {
		return nil, err
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	summary := QuerySummary(tone, message)
	resp := &Response{
		Tone:            tone,
		Message:         message,
		Recommendations: make([]Recommendation, 0, len(req.Recommendations)),
	}

	for _, rec := range req.Recommendations {
		if len(rec.Reasons) == 0 {
			reasons, err := s.generator.GenerateReasons(ctx, ai.Listing{ItemID: string(rec.ItemID), Title: rec.Title}, summary)
			if err != nil {
				return nil, err
			}
			rec.Reasons = reasons
			s.logger.Debug("reasons generated", zap.String("item_id", string(rec.ItemID)), zap.Int("count", len(reasons)))
		}
		resp.Recommendations = append(resp.Recommendations, rec)
	}

	return resp, nil
}

// QuerySummary condenses the request for the model prompt.
func QuerySummary(tone Tone, message string) string {
	return fmt.Sprintf("tone: %s, message: %s", tone, message)
}
