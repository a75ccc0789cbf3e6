package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spigell/abang/internal/analysis"
)

const (
	insertRiskQuery = `INSERT INTO risk_score_history (address, risk_score, summary, factors)
VALUES ($1, $2, $3, $4) RETURNING created_at`

	insertPriceQuery = `INSERT INTO price_score_history (address, deal_type, price_score, comment, metrics)
VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
)

// HistoryRepository appends analysis results to the score history tables.
type HistoryRepository struct {
	db queryExecutor
}

var (
	_ analysis.RiskHistory  = (*HistoryRepository)(nil)
	_ analysis.PriceHistory = (*HistoryRepository)(nil)
)

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// SaveRisk stores the score and sets its CreatedAt from the database.
func (r *HistoryRepository) SaveRisk(ctx context.Context, score *analysis.RiskScore) error {
	factors, err := jsonArg(score.Factors)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, insertRiskQuery,
		score.Address, score.Score, score.Summary, factors,
	).Scan(&score.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert risk score: %w", err)
	}

	return nil
}

// SavePrice stores the score and sets its CreatedAt from the database.
func (r *HistoryRepository) SavePrice(ctx context.Context, score *analysis.PriceScore) error {
	metrics, err := jsonArg(score.Metrics())
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, insertPriceQuery,
		score.Address, score.DealType, score.Score, score.Comment, metrics,
	).Scan(&score.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert price score: %w", err)
	}

	return nil
}
