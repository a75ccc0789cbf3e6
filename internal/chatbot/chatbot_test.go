package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spigell/abang/internal/ai"
)

type fakeGenerator struct {
	calls    []ai.Listing
	summary  string
	response []string
	err      error
}

func (f *fakeGenerator) GenerateReasons(_ context.Context, listing ai.Listing, summary string) ([]string, error) {
	f.calls = append(f.calls, listing)
	f.summary = summary
	return f.response, f.err
}

func TestParseTone(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"friendly", " Formal ", "CASUAL"} {
		_, err := ParseTone(in)
		require.NoError(t, err, in)
	}

	_, err := ParseTone("angry")
	require.ErrorIs(t, err, ErrInvalidTone)
}

func TestItemIDAcceptsNumbersAndStrings(t *testing.T) {
	t.Parallel()

	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"recommendations":[{"item_id":123,"title":"a"},{"item_id":"x-9","title":"b"}]}`), &req))
	require.Equal(t, ItemID("123"), req.Recommendations[0].ItemID)
	require.Equal(t, ItemID("x-9"), req.Recommendations[1].ItemID)

	require.Error(t, json.Unmarshal([]byte(`{"recommendations":[{"item_id":{}}]}`), &req))
}

func TestExecuteGeneratesMissingReasons(t *testing.T) {
	gen := &fakeGenerator{response: []string{"역세권", "저렴함"}}

	resp, err := NewService(gen, nil).Execute(context.Background(), Request{
		Tone:    "friendly",
		Message: " 학교 근처 원룸 ",
		Recommendations: []Recommendation{
			{ItemID: "1", Title: "원룸", Reasons: []string{"이미 있음"}},
			{ItemID: "2", Title: "투룸"},
		},
	})
	require.NoError(t, err)

	require.Len(t, gen.calls, 1)
	require.Equal(t, ai.Listing{ItemID: "2", Title: "투룸"}, gen.calls[0])
	require.Equal(t, "tone: friendly, message: 학교 근처 원룸", gen.summary)

	require.Equal(t, ToneFriendly, resp.Tone)
	require.Equal(t, []string{"이미 있음"}, resp.Recommendations[0].Reasons)
	require.Equal(t, []string{"역세권", "저렴함"}, resp.Recommendations[1].Reasons)
}

func TestExecuteValidation(t *testing.T) {
	svc := NewService(&fakeGenerator{}, nil)

	_, err := svc.Execute(context.Background(), Request{Tone: "rude", Message: "hi"})
	require.ErrorIs(t, err, ErrInvalidTone)

	_, err = svc.Execute(context.Background(), Request{Tone: "formal", Message: "  "})
	require.ErrorIs(t, err, ErrEmptyMessage)

	resp, err := svc.Execute(context.Background(), Request{Tone: "formal", Message: "hi"})
	require.NoError(t, err)
	require.Empty(t, resp.Recommendations)
}

func TestExecutePropagatesGeneratorErrors(t *testing.T) {
	boom := errors.New("model unavailable")
	svc := NewService(&fakeGenerator{err: boom}, nil)

	_, err := svc.Execute(context.Background(), Request{Tone: "casual", Message: "hi", Recommendations: []Recommendation{{ItemID: "1"}}})
	require.ErrorIs(t, err, boom)
}
