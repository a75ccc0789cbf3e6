package filtering

import (
	"context"

	"github.com/spigell/abang/internal/houseplatform"
)

type duplicatesFilter struct{}

// NewDuplicates creates a filter that keeps only the first bundle per
// registration number and drops bundles without one.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Disable(string) {}

func (f *duplicatesFilter) IsEnabled() bool { return true }

func (f *duplicatesFilter) Validate() error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, bundles []*houseplatform.Bundle) ([]*houseplatform.Bundle, Step, error) {
	initial := len(bundles)
	seen := make(map[string]struct{}, initial)

	kept, removed := exclude(bundles, func(b *houseplatform.Bundle) bool {
		id := b.RgstNo()
		if id == "" {
			return true
		}
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
		return false
	})

	return kept, Step{Initial: initial, Dropped: len(removed), Left: len(kept)}, nil
}
