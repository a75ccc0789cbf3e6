// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/logger"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Recorder counts job outcomes.
type Recorder interface {
	RecordJob(name string, err error)
}

// Scheduler wraps cron. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	recorder Recorder
	logger   *zap.Logger
}

func New(log *zap.Logger, recorder Recorder) *Scheduler {
	log = logger.Component(log, "scheduler")
	cronLog := cronLogger{log: log.Sugar()}

	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog))),
		ctx:      context.Background(),
		cancel:   func() {},
		recorder: recorder,
		logger:   log,
	}
}

// AddJob registers the job. Schedules use the standard five field syntax
// or descriptors such as "@every 1h".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.RunNow(s.ctx, job); err != nil {
			s.logger.Error("job failed", zap.String("job", job.Name()), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q for job %s: %w", schedule, job.Name(), err)
	}

	s.logger.Info("job registered", zap.String("job", job.Name()), zap.String("schedule", schedule))
	return nil
}

// RunNow executes the job outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	start := time.Now()
	s.logger.Debug("running job", zap.String("job", job.Name()))

	err := job.Run(ctx)
	if s.recorder != nil {
		s.recorder.RecordJob(job.Name(), err)
	}
	if err != nil {
		return err
	}

	s.logger.Debug("job completed", zap.String("job", job.Name()), zap.Duration("took", time.Since(start)))
	return nil
}

// Start runs the cron loop. Jobs receive a context derived from ctx that is
// cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
