package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/abang/internal/ai"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestReasonerGenerateReasons(t *testing.T) {
	stub := &stubGenerator{response: "```json\n[\"역세권\", \" \", \"저렴한 월세\"]\n```"}
	core, logs := observer.New(zap.DebugLevel)

	reasoner := NewReasoner(stub, zap.New(core), 0)
	reasons, err := reasoner.GenerateReasons(context.Background(), ai.Listing{ItemID: "123", Title: "역삼역 원룸"}, "tone: friendly, message: 학교 근처")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reasons) != 2 || reasons[0] != "역세권" || reasons[1] != "저렴한 월세" {
		t.Fatalf("unexpected reasons: %v", reasons)
	}

	for _, want := range []string{"tone: friendly, message: 학교 근처", "역삼역 원룸", "Listing id: 123"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt %q does not contain %q", stub.lastPrompt, want)
		}
	}
	if !strings.Contains(stub.lastSystem, "JSON array") {
		t.Fatalf("unexpected system instruction %q", stub.lastSystem)
	}

	if logs.FilterMessage("gemini generate content request").Len() != 1 {
		t.Fatal("expected request to be logged")
	}
}

func TestReasonerFallsBack(t *testing.T) {
	reasoner := NewReasoner(&stubGenerator{response: "[]"}, nil, 0)

	reasons, err := reasoner.GenerateReasons(context.Background(), ai.Listing{ItemID: "1"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reasons) != 1 || reasons[0] != ai.FallbackReason {
		t.Fatalf("expected fallback reason, got %v", reasons)
	}
}

func TestReasonerPropagatesErrors(t *testing.T) {
	boom := errors.New("unavailable")
	reasoner := NewReasoner(&stubGenerator{err: boom}, nil, 0)

	if _, err := reasoner.GenerateReasons(context.Background(), ai.Listing{ItemID: "1"}, ""); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestParseReasons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "json array", raw: `["a", "b"]`, want: []string{"a", "b"}},
		{name: "non string items", raw: `["a", 5, null]`, want: []string{"a", "5"}},
		{name: "bullets", raw: "- 첫째 이유\n• 둘째 이유\n\n\t- 셋째", want: []string{"첫째 이유", "둘째 이유", "셋째"}},
		{name: "object falls back to lines", raw: `{"reasons": 1}`, want: []string{`{"reasons": 1}`}},
		{name: "empty", raw: "  ", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseReasons(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}
