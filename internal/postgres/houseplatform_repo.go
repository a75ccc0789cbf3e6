package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/houseplatform"
	"github.com/spigell/abang/internal/logger"
)

const (
	existsRgstNosQuery = `SELECT rgst_no FROM house_platform WHERE domain_id = $1 AND rgst_no = ANY($2)`

	upsertListingQuery = `INSERT INTO house_platform (
	domain_id, rgst_no, title, address, deposit, monthly_rent, manage_cost,
	sales_type, room_type, pnu_cd, contract_area, exclusive_area, floor_no,
	all_floors, lat_lng, can_park, has_elevator, image_urls
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
ON CONFLICT (domain_id, rgst_no) DO UPDATE SET
	title = COALESCE(EXCLUDED.title, house_platform.title),
	address = COALESCE(EXCLUDED.address, house_platform.address),
	deposit = COALESCE(EXCLUDED.deposit, house_platform.deposit),
	monthly_rent = COALESCE(EXCLUDED.monthly_rent, house_platform.monthly_rent),
	manage_cost = COALESCE(EXCLUDED.manage_cost, house_platform.manage_cost),
	sales_type = COALESCE(EXCLUDED.sales_type, house_platform.sales_type),
	room_type = COALESCE(EXCLUDED.room_type, house_platform.room_type),
	pnu_cd = COALESCE(EXCLUDED.pnu_cd, house_platform.pnu_cd),
	contract_area = COALESCE(EXCLUDED.contract_area, house_platform.contract_area),
	exclusive_area = COALESCE(EXCLUDED.exclusive_area, house_platform.exclusive_area),
	floor_no = COALESCE(EXCLUDED.floor_no, house_platform.floor_no),
	all_floors = COALESCE(EXCLUDED.all_floors, house_platform.all_floors),
	lat_lng = COALESCE(EXCLUDED.lat_lng, house_platform.lat_lng),
	can_park = COALESCE(EXCLUDED.can_park, house_platform.can_park),
	has_elevator = COALESCE(EXCLUDED.has_elevator, house_platform.has_elevator),
	image_urls = COALESCE(EXCLUDED.image_urls, house_platform.image_urls),
	updated_at = NOW()
RETURNING house_platform_id`

	upsertManagementQuery = `INSERT INTO house_platform_management (
	house_platform_id, management_included, management_excluded
) VALUES ($1, $2, $3)
ON CONFLICT (house_platform_id) DO UPDATE SET
	management_included = COALESCE(EXCLUDED.management_included, house_platform_management.management_included),
	management_excluded = COALESCE(EXCLUDED.management_excluded, house_platform_management.management_excluded),
	updated_at = NOW()`

	deleteOptionsQuery = `DELETE FROM house_platform_options WHERE house_platform_id = $1`

	insertOptionsQuery = `INSERT INTO house_platform_options (house_platform_id, options)
SELECT $1, UNNEST($2::text[])`
)

// HousePlatformRepository stores listings.
type HousePlatformRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ houseplatform.Repository = (*HousePlatformRepository)(nil)

func NewHousePlatformRepository(db *sql.DB, log *zap.Logger) *HousePlatformRepository {
	return &HousePlatformRepository{db: db, logger: logger.Component(log, "house_platform_repo")}
}

// ExistsRgstNos returns the registration numbers already stored for the domain.
func (r *HousePlatformRepository) ExistsRgstNos(ctx context.Context, domainID int, rgstNos []string) (map[string]struct{}, error) {
	found := make(map[string]struct{})
	if len(rgstNos) == 0 {
		return found, nil
	}

	rows, err := r.db.QueryContext(ctx, existsRgstNosQuery, domainID, pq.Array(rgstNos))
	if err != nil {
		return nil, fmt.Errorf("query stored listings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rgstNo string
		if err := rows.Scan(&rgstNo); err != nil {
			return nil, fmt.Errorf("scan stored listing: %w", err)
		}
		found[rgstNo] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stored listings: %w", err)
	}

	return found, nil
}

// UpsertBatch writes every bundle in one transaction. Bundles without a
// registration number are skipped and not counted.
func (r *HousePlatformRepository) UpsertBatch(ctx context.Context, bundles []*houseplatform.Bundle) (int, error) {
	if len(bundles) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored := 0
	for _, bundle := range bundles {
		rgstNo := bundle.RgstNo()
		if rgstNo == "" {
			continue
		}

		id, err := upsertListing(ctx, tx, bundle.HousePlatform)
		if err != nil {
			return 0, fmt.Errorf("upsert listing %s: %w", rgstNo, err)
		}
		bundle.HousePlatform.ID = id

		if bundle.Management != nil {
			if err := upsertManagement(ctx, tx, id, bundle.Management); err != nil {
				return 0, fmt.Errorf("upsert management %s: %w", rgstNo, err)
			}
		}

		if bundle.Options != nil {
			if err := replaceOptions(ctx, tx, id, bundle.Options); err != nil {
				return 0, fmt.Errorf("replace options %s: %w", rgstNo, err)
			}
		}

		r.logger.Debug("listing stored",
			append(logger.ListingFields("zigbang", rgstNo), zap.Int64("house_platform_id", id))...,
		)
		stored++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return stored, nil
}

func upsertListing(ctx context.Context, q queryExecutor, hp *houseplatform.HousePlatform) (int64, error) {
	var latLng any
	if hp.LatLng != nil {
		v, err := jsonArg(hp.LatLng)
		if err != nil {
			return 0, err
		}
		latLng = v
	}

	images, err := jsonArg(hp.ImageURLs)
	if err != nil {
		return 0, err
	}

	var id int64
	err = q.QueryRowContext(ctx, upsertListingQuery,
		hp.DomainID, hp.RgstNo, hp.Title, hp.Address, hp.Deposit, hp.MonthlyRent, hp.ManageCost,
		hp.SalesType, hp.RoomType, hp.PnuCd, hp.ContractArea, hp.ExclusiveArea, hp.FloorNo,
		hp.AllFloors, latLng, hp.CanPark, hp.HasElevator, images,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func upsertManagement(ctx context.Context, q queryExecutor, listingID int64, m *houseplatform.Management) error {
	included, err := m.IncludedJSON()
	if err != nil {
		return err
	}
	excluded, err := m.ExcludedJSON()
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, upsertManagementQuery, listingID, included, excluded)
	return err
}

func replaceOptions(ctx context.Context, q queryExecutor, listingID int64, options []string) error {
	if _, err := q.ExecContext(ctx, deleteOptionsQuery, listingID); err != nil {
		return err
	}

	values := make([]string, 0, len(options))
	for _, opt := range options {
		if opt != "" {
			values = append(values, opt)
		}
	}
	if len(values) == 0 {
		return nil
	}

	_, err := q.ExecContext(ctx, insertOptionsQuery, listingID, pq.Array(values))
	return err
}
