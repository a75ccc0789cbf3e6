package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/houseplatform"
)

// StoredName is the name of the step that skips already stored listings.
const StoredName = "stored"

type storedFilter struct {
	enabled bool
	reason  string
	deps    *StoredDeps
}

type StoredDeps struct {
	Repo     houseplatform.Repository
	DomainID int
	Logger   *zap.Logger
}

// NewStored creates a filter that removes listings whose registration number is already stored.
func NewStored(deps *StoredDeps) Filter {
	return &storedFilter{
		enabled: true,
		deps:    deps,
	}
}

func (f *storedFilter) Name() string { return StoredName }

func (f *storedFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *storedFilter) IsEnabled() bool { return f.enabled }

func (f *storedFilter) Validate() error {
	if f.deps == nil || f.deps.Repo == nil {
		return fmt.Errorf("house platform repository is required")
	}

	if f.deps.Logger == nil {
		f.deps.Logger = zap.NewNop()
	}

	return nil
}

func (f *storedFilter) Apply(ctx context.Context, bundles []*houseplatform.Bundle) ([]*houseplatform.Bundle, Step, error) {
	initial := len(bundles)
	ids := houseplatform.RgstNos(bundles)
	if len(ids) == 0 {
		return bundles, Step{Initial: initial, Left: initial}, nil
	}

	existing, err := f.deps.Repo.ExistsRgstNos(ctx, f.deps.DomainID, ids)
	if err != nil {
		return bundles, Step{}, fmt.Errorf("look up stored listings: %w", err)
	}

	kept, removed := exclude(bundles, func(b *houseplatform.Bundle) bool {
		_, ok := existing[b.RgstNo()]
		return ok
	})
	if len(removed) > 0 {
		f.deps.Logger.Info("excluding listings that are already stored",
			zap.Strings("excluded_listings", removed),
			zap.Int("listings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(removed), Left: len(kept)}, nil
}

func (f *storedFilter) Status() Status {
	details := map[string]string{}
	if f.deps != nil {
		details["domain_id"] = fmt.Sprint(f.deps.DomainID)
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
