package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/abang/internal/logger"
)

const (
	defaultModel       = "gemini-2.5-flash"
	defaultTemperature = 0.3
	provider           = "gemini"
)

type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	models      models
	modelName   string
	temperature float32
	logger      *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
// The key and model are read once here; a missing key is an error.
func NewGenerator(ctx context.Context, apiKey, model string, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model, log), nil
}

func newGenerator(m models, model string, log *zap.Logger) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{
		models:      m,
		modelName:   model,
		temperature: defaultTemperature,
		logger:      logger.WithFields(log, logger.CommonFields(provider, model)...),
	}
}

// GenerateContent sends the prompt with the system instruction and returns
// the textual parts of the response joined by newlines.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{Temperature: &temperature}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
