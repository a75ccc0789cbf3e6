package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/houseplatform"
)

// Filter represents a single filtering step applied to fetched listings
// before they are stored.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, bundles []*houseplatform.Bundle) ([]*houseplatform.Bundle, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the bundles that survived.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, bundles []*houseplatform.Bundle) ([]*houseplatform.Bundle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, bundles)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		bundles = next
	}

	return bundles, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// exclude splits bundles into kept ones and the registration numbers of the dropped ones.
func exclude(bundles []*houseplatform.Bundle, drop func(*houseplatform.Bundle) bool) ([]*houseplatform.Bundle, []string) {
	kept := make([]*houseplatform.Bundle, 0, len(bundles))
	var removed []string

	for _, b := range bundles {
		if drop(b) {
			removed = append(removed, b.RgstNo())
			continue
		}
		kept = append(kept, b)
	}

	return kept, removed
}
