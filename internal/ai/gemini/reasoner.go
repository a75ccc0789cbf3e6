package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/ai"
	"github.com/spigell/abang/internal/logger"
	"github.com/spigell/abang/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

// Reasoner asks Gemini for recommendation reasons.
type Reasoner struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const systemInstruction = "You are a real estate assistant. Provide concise reasons " +
	"why a house listing is recommended based on the user's request. " +
	"Respond with a JSON array of short strings only."

const defaultMaxLogLength = 200

func NewReasoner(generator contentGenerator, log *zap.Logger, maxLogLength int) *Reasoner {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Reasoner{
		generator: generator,
		logger:    logger.OrNop(log),
		maxLogLen: maxLogLength,
	}
}

var _ ai.ReasonGenerator = (*Reasoner)(nil)

func (r *Reasoner) GenerateReasons(ctx context.Context, listing ai.Listing, querySummary string) ([]string, error) {
	prompt := buildPrompt(listing, querySummary)

	r.logger.Debug("gemini generate content request",
		zap.String("item_id", listing.ItemID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate reasons for %s: %w", listing.ItemID, err)
	}

	r.logger.Debug("gemini generate content response",
		zap.String("item_id", listing.ItemID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	reasons := parseReasons(raw)
	if len(reasons) == 0 {
		return []string{ai.FallbackReason}, nil
	}
	return reasons, nil
}

func buildPrompt(listing ai.Listing, querySummary string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "User request summary: {{QUERY_SUMMARY}}\nListing title: {{TITLE}}\nListing id: {{ITEM_ID}}\n"
	}
	return strings.NewReplacer(
		"{{QUERY_SUMMARY}}", querySummary,
		"{{TITLE}}", listing.Title,
		"{{ITEM_ID}}", listing.ItemID,
	).Replace(template)
}

// parseReasons reads a JSON array of strings, falling back to one reason per
// line with list bullets stripped.
func parseReasons(raw string) []string {
	cleaned := extractJSON(raw)

	var parsed []any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		reasons := make([]string, 0, len(parsed))
		for _, item := range parsed {
			if s := coerceString(item); s != "" {
				reasons = append(reasons, s)
			}
		}
		return reasons
	}

	var reasons []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(line, " -•\t\r")
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		reasons = append(reasons, line)
	}
	return reasons
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return strings.TrimSpace(fmt.Sprintf("%v", v))
		}
		return string(bytes)
	}
}
