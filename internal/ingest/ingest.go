// Package ingest fetches listings from a platform, drops the ones that do not
// need storing and upserts the rest.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/filtering"
	"github.com/spigell/abang/internal/houseplatform"
	"github.com/spigell/abang/internal/logger"
)

// ErrNoConditions is reported when a command carries no item ids.
var ErrNoConditions = errors.New("no crawl conditions")

// ErrDeclined is returned when the confirmation hook rejects the batch.
var ErrDeclined = errors.New("storing declined")

// Converter fetches and normalizes platform listings.
type Converter interface {
	Convert(ctx context.Context, itemIDs []any, regionFilters []string) ([]*houseplatform.Bundle, []string)
}

// Recorder receives the outcome of every execution.
type Recorder interface {
	RecordIngest(result *Result)
}

// Command describes one ingestion run.
type Command struct {
	ItemIDs []any
	// Confirm, when set, is asked before anything is written.
	Confirm func(ctx context.Context, bundles []*houseplatform.Bundle) (bool, error)
}

// Result summarizes an ingestion run.
type Result struct {
	Fetched int      `json:"fetched"`
	Stored  int      `json:"stored"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type Service struct {
	converter Converter
	repo      houseplatform.Repository
	filters   []filtering.Filter
	regions   []string
	recorder  Recorder
	logger    *zap.Logger
}

type Deps struct {
	Converter Converter
	Repo      houseplatform.Repository
	Filters   []filtering.Filter
	Recorder  Recorder
	Logger    *zap.Logger
}

func NewService(deps Deps, regionFilters []string) (*Service, error) {
	if deps.Converter == nil {
		return nil, fmt.Errorf("converter is required")
	}
	if deps.Repo == nil {
		return nil, fmt.Errorf("house platform repository is required")
	}

	return &Service{
		converter: deps.Converter,
		repo:      deps.Repo,
		filters:   deps.Filters,
		regions:   regionFilters,
		recorder:  deps.Recorder,
		logger:    logger.Component(deps.Logger, "ingest"),
	}, nil
}

// Filters exposes the configured steps so callers can disable or describe them.
func (s *Service) Filters() []filtering.Filter {
	return s.filters
}

// Execute runs one ingestion. Per item failures end up in Result.Errors;
// only filter and repository failures are returned as errors.
func (s *Service) Execute(ctx context.Context, cmd Command) (*Result, error) {
	result, err := s.execute(ctx, cmd)
	if result != nil && s.recorder != nil {
		s.recorder.RecordIngest(result)
	}
	return result, err
}

func (s *Service) execute(ctx context.Context, cmd Command) (*Result, error) {
	if len(cmd.ItemIDs) == 0 {
		return &Result{Errors: []string{ErrNoConditions.Error()}}, nil
	}

	bundles, errs := s.converter.Convert(ctx, cmd.ItemIDs, s.regions)
	if len(bundles) == 0 {
		s.logger.Info("nothing fetched", zap.Strings("errors", errs))
		return &Result{Errors: errs}, nil
	}

	s.logger.Info("listings fetched", zap.Int("count", len(bundles)), zap.Int("errors", len(errs)))

	toStore, err := filtering.Run(ctx, s.logger, s.filters, bundles)
	if err != nil {
		return nil, fmt.Errorf("filtering: %w", err)
	}

	result := &Result{
		Fetched: len(bundles),
		Skipped: len(bundles) - len(toStore),
		Errors:  errs,
	}

	if len(toStore) == 0 {
		return result, nil
	}

	if cmd.Confirm != nil {
		ok, err := cmd.Confirm(ctx, toStore)
		if err != nil {
			return nil, fmt.Errorf("confirm: %w", err)
		}
		if !ok {
			return result, ErrDeclined
		}
	}

	stored, err := s.repo.UpsertBatch(ctx, toStore)
	if err != nil {
		return nil, fmt.Errorf("upsert listings: %w", err)
	}
	result.Stored = stored

	s.logger.Info("listings stored",
		zap.Int("fetched", result.Fetched),
		zap.Int("stored", result.Stored),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}
