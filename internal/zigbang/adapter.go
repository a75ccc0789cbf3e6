package zigbang

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/houseplatform"
	"github.com/spigell/abang/internal/logger"
)

var (
	ErrNoItemIDs     = errors.New("no valid item ids")
	ErrMissingItemID = errors.New("item_id is missing")
	ErrMissingRgstNo = errors.New("rgst_no (itemId) is missing")
)

// Fetcher is the transport used by the adapter.
type Fetcher interface {
	FetchByItemIDs(ctx context.Context, ids []int64) ([]Item, error)
	FetchDetail(ctx context.Context, id int64) (Item, error)
}

// Adapter converts Zigbang payloads into house platform bundles.
type Adapter struct {
	fetcher Fetcher
	logger  *zap.Logger
}

func NewAdapter(fetcher Fetcher, log *zap.Logger) *Adapter {
	return &Adapter{
		fetcher: fetcher,
		logger:  logger.Component(log, "zigbang"),
	}
}

// Convert fetches the requested items, keeps the ones located in one of the
// regions and maps their details into bundles. Per item failures are
// collected as messages and never abort the batch.
func (a *Adapter) Convert(ctx context.Context, itemIDs []any, regionFilters []string) ([]*houseplatform.Bundle, []string) {
	ids := normalizeItemIDs(itemIDs)
	if len(ids) == 0 {
		return nil, []string{ErrNoItemIDs.Error()}
	}

	summaries, err := a.fetcher.FetchByItemIDs(ctx, ids)
	if err != nil {
		return nil, []string{fmt.Sprintf("batch fetch failed: %v", err)}
	}

	summaries = filterByRegion(summaries, regionFilters)
	a.logger.Debug("items left after region filter",
		zap.Int("requested", len(ids)),
		zap.Int("left", len(summaries)),
		zap.Strings("regions", regionFilters),
	)

	var (
		bundles []*houseplatform.Bundle
		errs    []string
	)
	for _, summary := range summaries {
		id, ok := itemID(summary)
		if !ok {
			errs = append(errs, ErrMissingItemID.Error())
			continue
		}

		bundle, err := a.convertDetail(ctx, id)
		if err != nil {
			fields := logger.ListingFields(domain, strconv.FormatInt(id, 10))
			a.logger.Warn("failed to convert item", append(fields, zap.Error(err))...)
			errs = append(errs, fmt.Sprintf("detail fetch/mapping failed %d: %v", id, err))
			continue
		}
		bundles = append(bundles, bundle)
	}

	return bundles, errs
}

func (a *Adapter) convertDetail(ctx context.Context, id int64) (*houseplatform.Bundle, error) {
	detail, err := a.fetcher.FetchDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return MapDetail(detail)
}

func filterByRegion(items []Item, regions []string) []Item {
	if len(regions) == 0 {
		return items
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		address := summaryAddress(item)
		for _, region := range regions {
			if strings.Contains(address, region) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}

func summaryAddress(item Item) string {
	if origin, ok := item["addressOrigin"].(map[string]any); ok {
		if s, ok := text(origin["fullText"]); ok {
			return s
		}
	}
	s, _ := text(item["address"])
	return s
}

type detailPayload struct {
	ItemID               any            `mapstructure:"itemId"`
	Title                any            `mapstructure:"title"`
	SalesType            any            `mapstructure:"salesType"`
	RoomType             any            `mapstructure:"roomType"`
	JibunAddress         any            `mapstructure:"jibunAddress"`
	Pnu                  any            `mapstructure:"pnu"`
	Elevator             any            `mapstructure:"elevator"`
	Images               any            `mapstructure:"images"`
	Options              any            `mapstructure:"options"`
	AddressOrigin        map[string]any `mapstructure:"addressOrigin"`
	Price                map[string]any `mapstructure:"price"`
	Area                 map[string]any `mapstructure:"area"`
	Floor                map[string]any `mapstructure:"floor"`
	ManageCost           map[string]any `mapstructure:"manageCost"`
	ManageCostDetail     map[string]any `mapstructure:"manageCostDetail"`
	Location             map[string]any `mapstructure:"location"`
	RandomLocation       map[string]any `mapstructure:"randomLocation"`
	ParkingAvailableText any            `mapstructure:"parkingAvailableText"`
	ParkingCountText     any            `mapstructure:"parkingCountText"`
}

// MapDetail maps a detail payload into a bundle.
func MapDetail(item Item) (*houseplatform.Bundle, error) {
	var p detailPayload
	if err := mapstructure.Decode(map[string]any(item), &p); err != nil {
		return nil, fmt.Errorf("decode detail: %w", err)
	}

	rgstNo, ok := text(p.ItemID)
	if !ok || !truthy(p.ItemID) {
		return nil, ErrMissingRgstNo
	}

	fullText, _ := text(p.AddressOrigin["fullText"])
	jibun, _ := text(p.JibunAddress)

	listing := &houseplatform.HousePlatform{
		DomainID:      houseplatform.DomainZigbang,
		RgstNo:        rgstNo,
		Title:         textPtr(p.Title),
		Address:       textPtr(mergeAddress(fullText, jibun)),
		Deposit:       intPtr(p.Price["deposit"]),
		MonthlyRent:   intPtr(p.Price["rent"]),
		ManageCost:    manageCost(p.ManageCost, p.ManageCostDetail),
		SalesType:     textPtr(p.SalesType),
		RoomType:      textPtr(p.RoomType),
		PnuCd:         parsePnu(p.Pnu),
		ContractArea:  floatPtr(p.Area["계약면적M2"]),
		ExclusiveArea: floatPtr(p.Area["전용면적M2"]),
		FloorNo:       intPtr(p.Floor["floor"]),
		AllFloors:     intPtr(p.Floor["allFloors"]),
		LatLng:        latLng(p.Location, p.RandomLocation),
		CanPark:       parseParking(Item{"parkingAvailableText": p.ParkingAvailableText, "parkingCountText": p.ParkingCountText}),
		HasElevator:   boolPtr(p.Elevator),
		ImageURLs:     stringList(p.Images),
	}

	bundle := &houseplatform.Bundle{HousePlatform: listing}

	included := manageList(p.ManageCost, "includes", "include")
	excluded := manageList(p.ManageCost, "notIncludes", "exclude")
	if len(included) > 0 || len(excluded) > 0 {
		bundle.Management = &houseplatform.Management{Included: included, Excluded: excluded}
	}

	if _, isList := p.Options.([]any); isList {
		bundle.Options = stringList(p.Options)
	}

	return bundle, nil
}

func manageCost(manageCost, detail map[string]any) *int64 {
	if avg, ok := detail["avgManageCost"]; ok && avg != nil {
		return normalizeAmount(avg)
	}
	return normalizeAmount(manageCost["amount"])
}

func latLng(location, random map[string]any) *houseplatform.LatLng {
	raw := location
	if len(raw) == 0 {
		raw = random
	}

	lat, okLat := toFloat64(raw["lat"])
	lng, okLng := toFloat64(raw["lng"])
	if !okLat || !okLng {
		return nil
	}
	return &houseplatform.LatLng{Lat: lat, Lng: lng}
}
