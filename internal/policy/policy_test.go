package policy

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func int64Ptr(v int64) *int64 { return &v }

func TestClampBudget(t *testing.T) {
	t.Parallel()

	p, err := NewBudgetFilterPolicy(DefaultBudgetMarginRatio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		input *int64
		want  *int64
	}{
		{name: "nil", input: nil, want: nil},
		{name: "negative", input: int64Ptr(-1), want: nil},
		{name: "zero", input: int64Ptr(0), want: int64Ptr(0)},
		{name: "deposit", input: int64Ptr(1000), want: int64Ptr(1100)},
		{name: "rent", input: int64Ptr(55), want: int64Ptr(60)},
		{name: "floored", input: int64Ptr(7), want: int64Ptr(7)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := p.ClampBudget(tt.input)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Fatalf("expected %v, got %v", tt.want, got)
			case *got != *tt.want:
				t.Fatalf("expected %d, got %d", *tt.want, *got)
			}
		})
	}
}

func TestNewBudgetFilterPolicyRejectsNegativeMargin(t *testing.T) {
	t.Parallel()

	if _, err := NewBudgetFilterPolicy(-0.1); err == nil {
		t.Fatal("expected error for negative margin")
	}

	p, err := NewBudgetFilterPolicy(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.ClampBudget(int64Ptr(999)); *got != 999 {
		t.Fatalf("zero margin must keep the budget, got %d", *got)
	}
}

func TestRegionToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "서울 강남구 역삼동", want: "강남구"},
		{input: "마포구,서대문구", want: "마포구"},
		{input: "역삼동, 강남구", want: "강남구"},
		{input: "신촌", want: "신촌"},
		{input: " , ", want: ""},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := RegionToken(tt.input); got != tt.want {
			t.Fatalf("RegionToken(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

type fakeRequests struct {
	request *FinderRequest
	err     error
}

func (f *fakeRequests) FindByID(context.Context, int64) (*FinderRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.request == nil {
		return nil, ErrFinderRequestNotFound
	}
	return f.request, nil
}

type fakeCandidates struct {
	criteria *Criteria
	limit    int
	result   []Candidate
	err      error
}

func (f *fakeCandidates) FetchCandidates(_ context.Context, criteria Criteria, limit int) ([]Candidate, error) {
	f.criteria = &criteria
	f.limit = limit
	return f.result, f.err
}

func TestServiceExecute(t *testing.T) {
	requests := &fakeRequests{request: &FinderRequest{
		ID:              7,
		PriceType:       "monthly",
		MaxDeposit:      int64Ptr(1000),
		MaxRent:         int64Ptr(50),
		PreferredRegion: "서울 강남구",
	}}
	candidates := &fakeCandidates{result: []Candidate{{ListingID: 1, Deposit: 1000, MonthlyRent: int64Ptr(50)}}}

	result, err := NewService(requests, candidates, nil, zap.NewNop()).Execute(context.Background(), Command{FinderRequestID: 7, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Candidates) != 1 || result.Message != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if candidates.limit != 20 {
		t.Fatalf("expected limit to be forwarded, got %d", candidates.limit)
	}

	criteria := candidates.criteria
	if *criteria.MaxDepositLimit != 1100 || *criteria.MaxRentLimit != 55 {
		t.Fatalf("unexpected limits: %d %d", *criteria.MaxDepositLimit, *criteria.MaxRentLimit)
	}
	if criteria.PriceKey() != PriceTypeMonthly || criteria.RegionToken() != "강남구" {
		t.Fatalf("unexpected criteria: %+v", criteria)
	}
}

func TestServiceExecuteNotFound(t *testing.T) {
	candidates := &fakeCandidates{}

	result, err := NewService(&fakeRequests{}, candidates, nil, nil).Execute(context.Background(), Command{FinderRequestID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != MessageNotFound || len(result.Candidates) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Criteria.BudgetMarginRatio != DefaultBudgetMarginRatio {
		t.Fatalf("margin must be reported, got %v", result.Criteria.BudgetMarginRatio)
	}
	if candidates.criteria != nil {
		t.Fatal("candidates must not be queried")
	}
}

func TestServiceExecuteWithoutBudget(t *testing.T) {
	requests := &fakeRequests{request: &FinderRequest{ID: 1, MaxDeposit: int64Ptr(-5)}}
	candidates := &fakeCandidates{}

	result, err := NewService(requests, candidates, nil, nil).Execute(context.Background(), Command{FinderRequestID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != MessageNoBudget {
		t.Fatalf("unexpected message %q", result.Message)
	}
	if candidates.criteria != nil {
		t.Fatal("candidates must not be queried")
	}
}

func TestServiceExecuteErrors(t *testing.T) {
	boom := errors.New("connection refused")

	if _, err := NewService(&fakeRequests{err: boom}, &fakeCandidates{}, nil, nil).Execute(context.Background(), Command{FinderRequestID: 1}); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}

	requests := &fakeRequests{request: &FinderRequest{ID: 1, MaxRent: int64Ptr(40)}}
	if _, err := NewService(requests, &fakeCandidates{err: boom}, nil, nil).Execute(context.Background(), Command{FinderRequestID: 1}); !errors.Is(err, boom) {
		t.Fatalf("expected candidate error, got %v", err)
	}
}
