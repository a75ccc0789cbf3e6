package zigbang

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type fakeFetcher struct {
	summaries []Item
	details   map[int64]Item
	listErr   error
	asked     []int64
	detailed  []int64
}

func (f *fakeFetcher) FetchByItemIDs(_ context.Context, ids []int64) ([]Item, error) {
	f.asked = ids
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.summaries, nil
}

func (f *fakeFetcher) FetchDetail(_ context.Context, id int64) (Item, error) {
	f.detailed = append(f.detailed, id)
	detail, ok := f.details[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return detail, nil
}

func TestConvertKeepsListingsInRegion(t *testing.T) {
	fetcher := &fakeFetcher{
		summaries: []Item{
			{"item_id": 123, "addressOrigin": map[string]any{"fullText": "서울시 강남구 역삼동"}},
		},
		details: map[int64]Item{
			123: {"itemId": 123, "price": map[string]any{"deposit": 50000}},
		},
	}

	bundles, errs := NewAdapter(fetcher, zap.NewNop()).Convert(context.Background(), []any{123}, []string{"강남구"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(bundles) != 1 {
		t.Fatalf("expected one bundle, got %d", len(bundles))
	}

	listing := bundles[0].HousePlatform
	if listing.Deposit == nil || *listing.Deposit != 50000 {
		t.Fatalf("expected deposit 50000, got %v", listing.Deposit)
	}
	if listing.RgstNo != "123" {
		t.Fatalf("expected rgst_no 123, got %q", listing.RgstNo)
	}
}

func TestConvertFiltersRegionsAndCollectsErrors(t *testing.T) {
	fetcher := &fakeFetcher{
		summaries: []Item{
			{"itemId": 1, "addressOrigin": map[string]any{"fullText": "서울시 마포구 서교동"}},
			{"itemId": 2, "address": "서울시 강남구 논현동"},
			{"itemId": 3, "address": "서울시 강남구 역삼동"},
			{"address": "서울시 강남구 삼성동"},
			{"itemId": 4, "address": "서울시 강남구 대치동"},
		},
		details: map[int64]Item{
			2: {"itemId": 2},
			4: {"title": "no id"},
		},
	}

	bundles, errs := NewAdapter(fetcher, nil).Convert(context.Background(), []any{1, 2, "3", map[string]any{"itemId": 4}}, []string{"강남구"})
	if len(bundles) != 1 || bundles[0].RgstNo() != "2" {
		t.Fatalf("unexpected bundles: %v", bundles)
	}

	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	if !strings.Contains(errs[0], "3") || !strings.Contains(errs[0], "not found") {
		t.Fatalf("unexpected detail error: %q", errs[0])
	}
	if errs[1] != ErrMissingItemID.Error() {
		t.Fatalf("unexpected missing id error: %q", errs[1])
	}
	if !strings.Contains(errs[2], ErrMissingRgstNo.Error()) {
		t.Fatalf("unexpected mapping error: %q", errs[2])
	}

	for _, id := range fetcher.detailed {
		if id == 1 {
			t.Fatal("listing outside of region must not be fetched")
		}
	}
}

func TestConvertWithoutValidIDs(t *testing.T) {
	fetcher := &fakeFetcher{}

	bundles, errs := NewAdapter(fetcher, nil).Convert(context.Background(), []any{"abc", nil}, nil)
	if len(bundles) != 0 || len(errs) != 1 || errs[0] != ErrNoItemIDs.Error() {
		t.Fatalf("unexpected result: %v %v", bundles, errs)
	}
	if fetcher.asked != nil {
		t.Fatal("fetcher must not be called without ids")
	}
}

func TestConvertBatchFailure(t *testing.T) {
	fetcher := &fakeFetcher{listErr: errors.New("timeout")}

	bundles, errs := NewAdapter(fetcher, nil).Convert(context.Background(), []any{1}, nil)
	if len(bundles) != 0 {
		t.Fatalf("expected no bundles, got %d", len(bundles))
	}
	if len(errs) != 1 || !strings.HasPrefix(errs[0], "batch fetch failed") {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestMapDetail(t *testing.T) {
	t.Parallel()

	var detail Item
	raw := `{
		"itemId": 987654,
		"title": "역삼역 도보 5분 원룸",
		"salesType": "월세",
		"roomType": "01",
		"jibunAddress": "강남구 역삼동 777",
		"addressOrigin": {"fullText": "서울시 강남구 역삼동"},
		"pnu": "1168010100107770000",
		"price": {"deposit": 1000, "rent": "50"},
		"area": {"계약면적M2": 33.05, "전용면적M2": "19.8"},
		"floor": {"floor": "3", "allFloors": 5},
		"randomLocation": {"lat": 37.5, "lng": 127.03},
		"manageCost": {"amount": "7", "includes": ["수도", "인터넷"], "exclude": [{"name": "전기"}]},
		"manageCostDetail": {"avgManageCost": 8},
		"parkingAvailableText": "불가",
		"elevator": true,
		"images": ["https://img/1.jpg", "", "https://img/2.jpg"],
		"options": ["에어컨", "", "냉장고"]
	}`
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&detail); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	bundle, err := MapDetail(detail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hp := bundle.HousePlatform
	if hp.RgstNo != "987654" || hp.DomainID != 1 {
		t.Fatalf("unexpected identity: %q %d", hp.RgstNo, hp.DomainID)
	}
	if hp.Address == nil || *hp.Address != "서울시 강남구 역삼동 777" {
		t.Fatalf("unexpected address: %v", hp.Address)
	}
	assertInt64Ptr(t, hp.Deposit, ptr(int64(1000)))
	assertInt64Ptr(t, hp.MonthlyRent, ptr(int64(50)))
	assertInt64Ptr(t, hp.ManageCost, ptr(int64(80_000)))
	assertInt64Ptr(t, hp.PnuCd, ptr(int64(1168010100107770000)))
	assertInt64Ptr(t, hp.FloorNo, ptr(int64(3)))
	assertInt64Ptr(t, hp.AllFloors, ptr(int64(5)))

	if hp.ContractArea == nil || *hp.ContractArea != 33.05 {
		t.Fatalf("unexpected contract area: %v", hp.ContractArea)
	}
	if hp.ExclusiveArea == nil || *hp.ExclusiveArea != 19.8 {
		t.Fatalf("unexpected exclusive area: %v", hp.ExclusiveArea)
	}
	if hp.LatLng == nil || hp.LatLng.Lat != 37.5 || hp.LatLng.Lng != 127.03 {
		t.Fatalf("unexpected coordinates: %v", hp.LatLng)
	}
	if hp.CanPark == nil || *hp.CanPark {
		t.Fatalf("expected parking to be unavailable, got %v", hp.CanPark)
	}
	if hp.HasElevator == nil || !*hp.HasElevator {
		t.Fatalf("expected elevator, got %v", hp.HasElevator)
	}
	if len(hp.ImageURLs) != 2 {
		t.Fatalf("unexpected images: %v", hp.ImageURLs)
	}

	if bundle.Management == nil {
		t.Fatal("expected management record")
	}
	if len(bundle.Management.Included) != 2 || len(bundle.Management.Excluded) != 1 || bundle.Management.Excluded[0] != "전기" {
		t.Fatalf("unexpected management: %+v", bundle.Management)
	}
	if len(bundle.Options) != 2 || bundle.Options[0] != "에어컨" || bundle.Options[1] != "냉장고" {
		t.Fatalf("unexpected options: %v", bundle.Options)
	}
}

func TestMapDetailLeavesUnknownsNil(t *testing.T) {
	t.Parallel()

	bundle, err := MapDetail(Item{"itemId": "55", "price": map[string]any{"deposit": "n/a"}, "options": "에어컨"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hp := bundle.HousePlatform
	if hp.Deposit != nil || hp.Address != nil || hp.CanPark != nil || hp.LatLng != nil || hp.ManageCost != nil {
		t.Fatalf("expected unknown fields to stay nil: %+v", hp)
	}
	if bundle.Management != nil {
		t.Fatal("management must be absent without lists")
	}
	if bundle.Options != nil {
		t.Fatal("options must be nil when payload is not a list")
	}
}
