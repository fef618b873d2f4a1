package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/usecase"
	"github.com/robfig/cron/v3"
)

type SyncRunner interface {
	Sync(ctx context.Context) (usecase.SyncResult, error)
}

// Scheduler runs the result sync on a cron schedule. Overlapping ticks are
// skipped while a run is still in progress.
type Scheduler struct {
	cron    *cron.Cron
	runner  SyncRunner
	timeout time.Duration
	logger  *logging.Logger
}

func New(spec string, runner SyncRunner, timeout time.Duration, logger *logging.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("sync runner is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	cronLogger := cronLogAdapter{logger: logger.Named("cron")}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		runner:  runner,
		timeout: timeout,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("register sync schedule %q: %w", spec, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("sync scheduler started", "entries", len(s.cron.Entries()))
}

// Stop halts new ticks and waits for a running sync, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop sync scheduler: %w", ctx.Err())
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, _ = s.RunOnce(ctx)
}

func (s *Scheduler) RunOnce(ctx context.Context) (usecase.SyncResult, error) {
	result, err := s.runner.Sync(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "scheduled sync failed", "error", err)
		return result, err
	}

	s.logger.InfoContext(ctx, "scheduled sync completed",
		"teams", result.Teams,
		"gameweeks", result.Gameweeks,
		"fixtures", result.Fixtures,
		"failed", result.Failed,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

type cronLogAdapter struct {
	logger *logging.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
