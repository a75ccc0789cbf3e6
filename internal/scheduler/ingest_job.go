package scheduler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/ingest"
	"github.com/spigell/abang/internal/logger"
)

// IngestJobName labels the ingestion job in logs and metrics.
const IngestJobName = "zigbang_ingest"

type ingestExecutor interface {
	Execute(ctx context.Context, cmd ingest.Command) (*ingest.Result, error)
}

// IngestJob re-fetches a fixed set of Zigbang items.
type IngestJob struct {
	service ingestExecutor
	itemIDs []any
	logger  *zap.Logger
}

func NewIngestJob(service ingestExecutor, itemIDs []any, log *zap.Logger) *IngestJob {
	return &IngestJob{service: service, itemIDs: itemIDs, logger: logger.Component(log, "ingest_job")}
}

func (j *IngestJob) Name() string { return IngestJobName }

func (j *IngestJob) Run(ctx context.Context) error {
	if len(j.itemIDs) == 0 {
		return ingest.ErrNoConditions
	}

	result, err := j.service.Execute(ctx, ingest.Command{ItemIDs: j.itemIDs})
	if err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		j.logger.Warn("ingest finished with errors",
			zap.Int("stored", result.Stored),
			zap.Strings("errors", result.Errors),
		)
	}
	if result.Fetched == 0 && len(result.Errors) > 0 {
		return errors.New(result.Errors[0])
	}

	return nil
}
