package policy

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/logger"
)

var ErrFinderRequestNotFound = errors.New("finder request not found")

const (
	MessageNotFound = "finder request not found"
	MessageNoBudget = "no budget conditions"
)

// FinderRequest is a student's housing request.
type FinderRequest struct {
	ID                  int64
	UserID              int64
	PriceType           string
	MaxDeposit          *int64
	MaxRent             *int64
	PreferredRegion     string
	HouseType           string
	AdditionalCondition string
}

// Candidate is a stored listing that fits the criteria.
type Candidate struct {
	ListingID   int64  `json:"house_platform_id"`
	Deposit     int64  `json:"deposit"`
	MonthlyRent *int64 `json:"monthly_rent"`
	ManageCost  *int64 `json:"manage_cost"`
}

type FinderRequestRepository interface {
	// FindByID returns ErrFinderRequestNotFound for unknown ids.
	FindByID(ctx context.Context, id int64) (*FinderRequest, error)
}

type CandidateRepository interface {
	// FetchCandidates returns listings matching the criteria; limit <= 0 means no limit.
	FetchCandidates(ctx context.Context, criteria Criteria, limit int) ([]Candidate, error)
}

type Command struct {
	FinderRequestID int64
	Limit           int
}

type Result struct {
	FinderRequestID int64       `json:"finder_request_id"`
	Criteria        Criteria    `json:"criteria"`
	Candidates      []Candidate `json:"candidates"`
	Message         string      `json:"message,omitempty"`
}

// Service selects candidates for finder requests.
type Service struct {
	requests   FinderRequestRepository
	candidates CandidateRepository
	policy     *BudgetFilterPolicy
	logger     *zap.Logger
}

func NewService(requests FinderRequestRepository, candidates CandidateRepository, policy *BudgetFilterPolicy, log *zap.Logger) *Service {
	if policy == nil {
		policy = &BudgetFilterPolicy{MarginRatio: DefaultBudgetMarginRatio}
	}

	return &Service{
		requests:   requests,
		candidates: candidates,
		policy:     policy,
		logger:     logger.Component(log, "policy"),
	}
}

func (s *Service) Execute(ctx context.Context, cmd Command) (*Result, error) {
	result := &Result{
		FinderRequestID: cmd.FinderRequestID,
		Criteria:        Criteria{BudgetMarginRatio: s.policy.MarginRatio},
		Candidates:      []Candidate{},
	}

	request, err := s.requests.FindByID(ctx, cmd.FinderRequestID)
	if errors.Is(err, ErrFinderRequestNotFound) {
		result.Message = MessageNotFound
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load finder request %d: %w", cmd.FinderRequestID, err)
	}

	result.Criteria = Criteria{
		MaxDepositLimit:     s.policy.ClampBudget(request.MaxDeposit),
		MaxRentLimit:        s.policy.ClampBudget(request.MaxRent),
		BudgetMarginRatio:   s.policy.MarginRatio,
		PriceType:           request.PriceType,
		PreferredRegion:     request.PreferredRegion,
		HouseType:           request.HouseType,
		AdditionalCondition: request.AdditionalCondition,
	}

	if result.Criteria.MaxDepositLimit == nil && result.Criteria.MaxRentLimit == nil {
		result.Message = MessageNoBudget
		return result, nil
	}

	candidates, err := s.candidates.FetchCandidates(ctx, result.Criteria, cmd.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	if candidates != nil {
		result.Candidates = candidates
	}

	s.logger.Info("candidates selected",
		zap.Int64("finder_request_id", cmd.FinderRequestID),
		zap.String("price_type", result.Criteria.PriceKey()),
		zap.String("region", result.Criteria.RegionToken()),
		zap.Int("count", len(result.Candidates)),
	)

	return result, nil
}
