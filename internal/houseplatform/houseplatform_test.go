package houseplatform

import "testing"

func TestRgstNos(t *testing.T) {
	t.Parallel()

	bundles := []*Bundle{
		{HousePlatform: &HousePlatform{RgstNo: "1"}},
		nil,
		{HousePlatform: &HousePlatform{}},
		{},
		{HousePlatform: &HousePlatform{RgstNo: "2"}},
	}

	got := RgstNos(bundles)
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("unexpected rgst numbers: %v", got)
	}
}

func TestManagementJSON(t *testing.T) {
	t.Parallel()

	m := &Management{Included: []string{"수도", "인터넷"}}

	included, err := m.IncludedJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if included == nil || *included != `["수도","인터넷"]` {
		t.Fatalf("unexpected included json: %v", included)
	}

	excluded, err := m.ExcludedJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if excluded != nil {
		t.Fatalf("expected nil for unknown list, got %q", *excluded)
	}

	empty := &Management{Excluded: []string{}}
	if excluded, _ = empty.ExcludedJSON(); excluded != nil {
		t.Fatalf("expected nil for empty list, got %q", *excluded)
	}
}
