package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spigell/abang/internal/policy"
)

const findFinderRequestQuery = `SELECT finder_request_id, abang_user_id, price_type, max_deposit, max_rent,
	preferred_region, house_type, additional_condition
FROM finder_request WHERE finder_request_id = $1`

type FinderRequestRepository struct {
	db queryExecutor
}

var _ policy.FinderRequestRepository = (*FinderRequestRepository)(nil)

func NewFinderRequestRepository(db *sql.DB) *FinderRequestRepository {
	return &FinderRequestRepository{db: db}
}

func (r *FinderRequestRepository) FindByID(ctx context.Context, id int64) (*policy.FinderRequest, error) {
	var (
		req                                     policy.FinderRequest
		userID, maxDeposit, maxRent             sql.NullInt64
		priceType, region, houseType, condition sql.NullString
	)

	err := r.db.QueryRowContext(ctx, findFinderRequestQuery, id).Scan(
		&req.ID, &userID, &priceType, &maxDeposit, &maxRent, &region, &houseType, &condition,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, policy.ErrFinderRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query finder request: %w", err)
	}

	req.UserID = userID.Int64
	req.PriceType = priceType.String
	req.MaxDeposit = nullInt64(maxDeposit)
	req.MaxRent = nullInt64(maxRent)
	req.PreferredRegion = region.String
	req.HouseType = houseType.String
	req.AdditionalCondition = condition.String

	return &req, nil
}
