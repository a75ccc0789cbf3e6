package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeneratorGenerateContent(t *testing.T) {
	models := &fakeModels{resp: textResponse(" first ", "", "second")}
	gen := newGenerator(models, "", zap.NewNop())

	out, err := gen.GenerateContent(context.Background(), "be brief", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "first\nsecond" {
		t.Fatalf("unexpected output %q", out)
	}

	if models.model != defaultModel || gen.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", models.model)
	}
	if models.config.Temperature == nil || *models.config.Temperature != float32(defaultTemperature) {
		t.Fatalf("unexpected temperature: %v", models.config.Temperature)
	}
	if models.config.SystemInstruction == nil || models.config.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatalf("system instruction not set: %+v", models.config.SystemInstruction)
	}
	if len(models.contents) != 1 || models.contents[0].Parts[0].Text != "hello" {
		t.Fatalf("unexpected contents: %+v", models.contents)
	}
}

func TestGeneratorErrors(t *testing.T) {
	boom := errors.New("quota exceeded")

	gen := newGenerator(&fakeModels{err: boom}, "gemini-custom", nil)
	if _, err := gen.GenerateContent(context.Background(), "", "hello"); !errors.Is(err, boom) {
		t.Fatalf("expected api error, got %v", err)
	}

	gen = newGenerator(&fakeModels{resp: textResponse("  ")}, "gemini-custom", nil)
	if _, err := gen.GenerateContent(context.Background(), "", "hello"); err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("expected empty response error, got %v", err)
	}

	if _, err := gen.GenerateContent(context.Background(), "", "  "); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	var nilGen *Generator
	if _, err := nilGen.GenerateContent(context.Background(), "", "hello"); err == nil {
		t.Fatal("expected error for nil generator")
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), " ", "", nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
