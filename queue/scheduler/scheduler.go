package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/credenzahq/credenza/config"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/queue/executor"
	"golang.org/x/sync/errgroup"
)

// jobTimeout bounds a single job execution.
const jobTimeout = 2 * time.Minute

// Scheduler claims pending jobs on a fixed interval and runs them through
// the executor.
type Scheduler struct {
	cfg          config.Scheduler
	db           db.DbQueue
	executor     executor.JobExecutor
	logger       *slog.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownDone chan struct{}
}

// NewScheduler creates a new scheduler with executor
func NewScheduler(cfg config.Scheduler, dbq db.DbQueue, exec executor.JobExecutor, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:          cfg,
		db:           dbq,
		executor:     exec,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		shutdownDone: make(chan struct{}),
	}
}

// Start begins the job scheduler loop in its own goroutine.
func (s *Scheduler) Start() {
	go func() {
		s.logger.Info("starting job scheduler", "interval", s.cfg.Interval.Duration)
		ticker := time.NewTicker(s.cfg.Interval.Duration)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info("job scheduler received shutdown signal")
				close(s.shutdownDone)
				return
			case <-ticker.C:
				s.processJobs()
			}
		}
	}()
}

// Stop signals the scheduler to stop and waits for the loop to exit or the
// context to be canceled, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("stopping job scheduler")
	s.cancel()

	select {
	case <-s.shutdownDone:
		s.logger.Info("job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("job scheduler shutdown timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) processJobs() {
	jobs, err := s.db.Claim(s.cfg.MaxJobsPerTick)
	if err != nil {
		s.logger.Error("failed to claim jobs", "err", err)
		return
	}
	if len(jobs) == 0 {
		return
	}
	s.logger.Debug("claimed jobs", "count", len(jobs))

	// The scheduler's context is the parent so in-flight jobs see shutdown.
	g, ctx := errgroup.WithContext(s.ctx)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()

			err := s.executor.Execute(jobCtx, *job)
			if err == nil {
				if updateErr := s.db.MarkCompleted(job.ID); updateErr != nil {
					s.logger.Error("failed to mark job completed", "jobID", job.ID, "err", updateErr)
				}
				return nil
			}
			if markErr := s.db.MarkFailed(job.ID, err.Error()); markErr != nil {
				s.logger.Error("failed to mark job failed", "jobID", job.ID, "err", markErr)
			}
			if errors.Is(err, context.Canceled) {
				s.logger.Info("job interrupted", "jobID", job.ID)
				return nil
			}
			s.logger.Error("job failed", "jobID", job.ID, "type", job.JobType, "err", err)
			return nil
		})
	}

	// Individual job errors are recorded on the job row, not propagated.
	_ = g.Wait()
}
