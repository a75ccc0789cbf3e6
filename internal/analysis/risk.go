package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/logger"
)

// RiskAnalyzer resolves an address to its building and scores it.
type RiskAnalyzer struct {
	codec   AddressCodec
	ledger  BuildingLedger
	history RiskHistory
	logger  *zap.Logger
	now     func() time.Time
}

func NewRiskAnalyzer(codec AddressCodec, ledger BuildingLedger, history RiskHistory, log *zap.Logger) *RiskAnalyzer {
	return &RiskAnalyzer{
		codec:   codec,
		ledger:  ledger,
		history: history,
		logger:  logger.Component(log, "risk_analyzer"),
		now:     time.Now,
	}
}

// Execute runs lookup, scoring and persistence for one address.
// Port errors are returned as is, wrapped with the failing step.
func (a *RiskAnalyzer) Execute(ctx context.Context, address string) (*RiskScore, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	legal, err := a.codec.ConvertToLegalCode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("convert address to legal code: %w", err)
	}

	building, err := a.ledger.FetchBuildingInfo(ctx, legal.Code)
	if err != nil {
		return nil, fmt.Errorf("fetch building info for %s: %w", legal.Code, err)
	}

	score := CalculateRiskScore(*building)

	risk := &RiskScore{
		Address:   address,
		Score:     score,
		Factors:   building.Factors(),
		Summary:   GenerateRiskSummary(score),
		CreatedAt: a.now().UTC(),
	}

	if err := a.history.SaveRisk(ctx, risk); err != nil {
		return nil, fmt.Errorf("save risk history: %w", err)
	}

	a.logger.Info("risk analyzed",
		zap.String("address", address),
		zap.String("legal_code", legal.Code),
		zap.Int("score", risk.Score),
	)

	return risk, nil
}
