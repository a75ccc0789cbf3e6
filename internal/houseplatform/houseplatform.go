// Package houseplatform holds the normalized listing model shared by the
// ingestion pipeline and the persistence layer.
package houseplatform

import (
	"context"
	"encoding/json"
	"fmt"
)

// DomainZigbang is the platform identifier stored in house_platform.domain_id.
const DomainZigbang = 1

// LatLng is a listing coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HousePlatform is a single listing. Nil fields are unknown and never
// overwrite stored values.
type HousePlatform struct {
	ID            int64    `json:"id,omitempty"`
	DomainID      int      `json:"domain_id"`
	RgstNo        string   `json:"rgst_no"`
	Title         *string  `json:"title,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Deposit       *int64   `json:"deposit,omitempty"`
	MonthlyRent   *int64   `json:"monthly_rent,omitempty"`
	ManageCost    *int64   `json:"manage_cost,omitempty"`
	SalesType     *string  `json:"sales_type,omitempty"`
	RoomType      *string  `json:"room_type,omitempty"`
	PnuCd         *int64   `json:"pnu_cd,omitempty"`
	ContractArea  *float64 `json:"contract_area,omitempty"`
	ExclusiveArea *float64 `json:"exclusive_area,omitempty"`
	FloorNo       *int64   `json:"floor_no,omitempty"`
	AllFloors     *int64   `json:"all_floors,omitempty"`
	LatLng        *LatLng  `json:"lat_lng,omitempty"`
	CanPark       *bool    `json:"can_park,omitempty"`
	HasElevator   *bool    `json:"has_elevator,omitempty"`
	ImageURLs     []string `json:"image_urls,omitempty"`
}

// Management describes which costs the management fee covers. Both lists are
// stored as JSON arrays; an empty list is stored as NULL.
type Management struct {
	Included []string `json:"included,omitempty"`
	Excluded []string `json:"excluded,omitempty"`
}

// IncludedJSON returns the included list as a JSON array, or nil when empty.
func (m *Management) IncludedJSON() (*string, error) {
	return marshalList(m.Included)
}

// ExcludedJSON returns the excluded list as a JSON array, or nil when empty.
func (m *Management) ExcludedJSON() (*string, error) {
	return marshalList(m.Excluded)
}

func marshalList(items []string) (*string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal list: %w", err)
	}

	s := string(raw)
	return &s, nil
}

// Bundle is a listing plus its optional sub-records. A nil Options slice
// leaves stored options untouched; a non-nil one replaces them.
type Bundle struct {
	HousePlatform *HousePlatform `json:"house_platform"`
	Management    *Management    `json:"management,omitempty"`
	Options       []string       `json:"options,omitempty"`
}

// RgstNo returns the registration number of the bundled listing.
func (b *Bundle) RgstNo() string {
	if b == nil || b.HousePlatform == nil {
		return ""
	}
	return b.HousePlatform.RgstNo
}

// RgstNos collects the non-empty registration numbers of the bundles.
func RgstNos(bundles []*Bundle) []string {
	ids := make([]string, 0, len(bundles))
	for _, b := range bundles {
		if id := b.RgstNo(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Repository persists listings.
type Repository interface {
	// ExistsRgstNos returns the subset of rgstNos already stored for the domain.
	ExistsRgstNos(ctx context.Context, domainID int, rgstNos []string) (map[string]struct{}, error)
	// UpsertBatch stores the bundles in one transaction and returns how many were written.
	UpsertBatch(ctx context.Context, bundles []*Bundle) (int, error)
}
