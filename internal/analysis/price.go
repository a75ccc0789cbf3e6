package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/logger"
)

const noComparablesMessage = "비교 가능한 실거래가가 없습니다."

// PriceAnalyzer scores a listing price against transactions in the same legal dong.
type PriceAnalyzer struct {
	codec        AddressCodec
	transactions TransactionPrices
	history      PriceHistory
	logger       *zap.Logger
	now          func() time.Time
}

func NewPriceAnalyzer(codec AddressCodec, transactions TransactionPrices, history PriceHistory, log *zap.Logger) *PriceAnalyzer {
	return &PriceAnalyzer{
		codec:        codec,
		transactions: transactions,
		history:      history,
		logger:       logger.Component(log, "price_analyzer"),
		now:          time.Now,
	}
}

func (a *PriceAnalyzer) Execute(ctx context.Context, q PriceQuery) (*PriceScore, error) {
	q.Address = strings.TrimSpace(q.Address)
	q.DealType = strings.TrimSpace(q.DealType)
	if q.Address == "" {
		return nil, ErrEmptyAddress
	}
	if q.Area <= 0 {
		return nil, ErrInvalidArea
	}

	legal, err := a.codec.ConvertToLegalCode(ctx, q.Address)
	if err != nil {
		return nil, fmt.Errorf("convert address to legal code: %w", err)
	}

	records, err := a.transactions.FetchTransactionPrices(ctx, legal.Code, q.DealType)
	if err != nil {
		return nil, fmt.Errorf("fetch transaction prices for %s: %w", legal.Code, err)
	}

	result := &PriceScore{
		Address:   q.Address,
		DealType:  q.DealType,
		CreatedAt: a.now().UTC(),
	}

	average, comparables := areaAverage(records, q.DealType)
	if comparables == 0 || average <= 0 {
		result.Message = noComparablesMessage
		a.logger.Info("no comparable transactions",
			zap.String("address", q.Address),
			zap.String("legal_code", legal.Code),
		)
		return result, nil
	}

	result.PricePerArea = CalculatePricePerArea(q.Price, q.Area)
	result.AreaAverage = average
	result.Comparables = comparables
	result.Score = CalculatePriceScore(result.PricePerArea, average)
	result.Comment = GeneratePriceComment(result.PricePerArea, average)

	if err := a.history.SavePrice(ctx, result); err != nil {
		return nil, fmt.Errorf("save price history: %w", err)
	}

	a.logger.Info("price analyzed",
		zap.String("address", q.Address),
		zap.String("deal_type", q.DealType),
		zap.Int("score", result.Score),
		zap.Int("comparables", comparables),
	)

	return result, nil
}

// areaAverage is the mean price per area over records of the given deal type.
// Records without a positive area are ignored.
func areaAverage(records []Transaction, dealType string) (float64, int) {
	var sum float64
	var n int
	for _, r := range records {
		if r.Area <= 0 {
			continue
		}
		if dealType != "" && r.DealType != "" && r.DealType != dealType {
			continue
		}
		sum += CalculatePricePerArea(r.Price, r.Area)
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}
