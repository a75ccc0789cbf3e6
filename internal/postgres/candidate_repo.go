package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/logger"
	"github.com/spigell/abang/internal/policy"
)

const (
	candidateColumns = `SELECT house_platform_id, deposit, monthly_rent, manage_cost FROM house_platform`

	notBanned    = `(is_banned IS FALSE OR is_banned IS NULL)`
	isJeonse     = `sales_type ILIKE '%전세%'`
	isMonthly    = `sales_type ILIKE '%월세%'`
	rentNotNull  = `monthly_rent IS NOT NULL`
	depositKnown = `deposit IS NOT NULL`
)

// CandidateRepository selects listings for budget criteria.
type CandidateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ policy.CandidateRepository = (*CandidateRepository)(nil)

func NewCandidateRepository(db *sql.DB, log *zap.Logger) *CandidateRepository {
	return &CandidateRepository{db: db, logger: logger.Component(log, "candidate_repo")}
}

func (r *CandidateRepository) FetchCandidates(ctx context.Context, criteria policy.Criteria, limit int) ([]policy.Candidate, error) {
	query, args := buildCandidateQuery(criteria, limit)
	r.logger.Debug("candidate query", zap.String("query", query), zap.Int("args", len(args)))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]policy.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}

func scanCandidate(row scanner) (policy.Candidate, error) {
	var (
		c          policy.Candidate
		rent, cost sql.NullInt64
	)
	if err := row.Scan(&c.ListingID, &c.Deposit, &rent, &cost); err != nil {
		return c, fmt.Errorf("scan candidate: %w", err)
	}
	c.MonthlyRent = nullInt64(rent)
	c.ManageCost = nullInt64(cost)
	return c, nil
}

// buildCandidateQuery renders the candidate selection. Rows are returned in
// storage order; a LIMIT is added only for a positive limit.
func buildCandidateQuery(criteria policy.Criteria, limit int) (string, []any) {
	var (
		conds = []string{notBanned, depositKnown}
		args  []any
	)

	param := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if criteria.MaxDepositLimit != nil {
		conds = append(conds, "deposit <= "+param(*criteria.MaxDepositLimit))
	}

	priceType := criteria.PriceKey()
	switch priceType {
	case policy.PriceTypeJeonse:
		conds = append(conds, isJeonse)
	case policy.PriceTypeMonthly:
		conds = append(conds, isMonthly, rentNotNull)
	case policy.PriceTypeMixed:
		conds = append(conds,
			"("+isJeonse+" OR "+isMonthly+")",
			"("+isJeonse+" OR "+rentNotNull+")",
		)
	case "":
		conds = append(conds, "("+isJeonse+" OR "+rentNotNull+")")
	}

	if criteria.MaxRentLimit != nil && priceType != policy.PriceTypeJeonse {
		ceiling := "monthly_rent <= " + param(*criteria.MaxRentLimit)
		if priceType == policy.PriceTypeMonthly {
			conds = append(conds, ceiling)
		} else {
			conds = append(conds, "("+isJeonse+" OR "+ceiling+")")
		}
	}

	if token := criteria.RegionToken(); token != "" {
		conds = append(conds, "address ILIKE "+param("%"+token+"%"))
	}

	query := candidateColumns + " WHERE " + strings.Join(conds, " AND ")
	if limit > 0 {
		query += " LIMIT " + param(limit)
	}

	return query, args
}
