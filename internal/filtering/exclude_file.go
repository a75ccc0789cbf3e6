package filtering

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/abang/internal/houseplatform"
)

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes listings whose registration
// numbers are listed in a file, one per line. Lines starting with # are ignored.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{
		path: strings.TrimSpace(path),
	}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, bundles []*houseplatform.Bundle) ([]*houseplatform.Bundle, Step, error) {
	initial := len(bundles)
	if f.path == "" {
		return bundles, Step{Initial: initial, Left: initial}, nil
	}

	ids, err := readExcluded(f.path)
	if err != nil {
		return bundles, Step{}, fmt.Errorf("getting excluded listings from file: %w", err)
	}

	kept, removed := exclude(bundles, func(b *houseplatform.Bundle) bool {
		_, ok := ids[b.RgstNo()]
		return ok
	})

	return kept, Step{Initial: initial, Dropped: len(removed), Left: len(kept)}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

func readExcluded(path string) (map[string]struct{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ids := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids[line] = struct{}{}
	}

	return ids, scanner.Err()
}
