package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m3rciful/skeddybot/core/logger"
)

// Job is a named background task run on a cron schedule.
type Job struct {
	Name string
	// Spec uses the standard five-field cron syntax or a descriptor such as "@hourly".
	// An empty Spec disables the job.
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler runs Jobs in a fixed location. A run still in progress when the
// next tick arrives makes that tick skip.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	names   []string
	started bool
}

// NewScheduler returns an idle scheduler evaluating specs in loc.
func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job. Jobs with an empty spec are skipped with a log line.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("job: name and run function are required")
	}
	if job.Spec == "" {
		logger.Info(context.Background(), "jobs", "job.disabled", slog.String("job", job.Name), slog.String("status", "skip"))
		return nil
	}
	if _, err := s.cron.AddFunc(job.Spec, func() { s.runJob(job) }); err != nil {
		return fmt.Errorf("job %s: invalid schedule %q: %w", job.Name, job.Spec, err)
	}
	s.mu.Lock()
	s.names = append(s.names, job.Name)
	s.mu.Unlock()
	return nil
}

// Jobs returns the names of the scheduled jobs.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// Start begins running jobs in the background. Calling it twice is harmless.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	logger.Info(context.Background(), "jobs", "scheduler.start",
		slog.String("status", "ok"),
		slog.Int("jobs", len(s.names)),
	)
}

// Stop cancels running jobs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("jobs: stop: %w", ctx.Err())
	}
}

// RunNow executes the named job synchronously, outside of its schedule.
func (s *Scheduler) RunNow(job Job) {
	s.runJob(job)
}

func (s *Scheduler) runJob(job Job) {
	start := time.Now()
	ctx := logger.WithLogger(s.ctx, logger.Jobs)
	err := job.Run(ctx)
	lvl := slog.LevelInfo
	if err != nil {
		lvl = slog.LevelError
	}
	logger.LogEvent(ctx, logger.Jobs, lvl, "job.run",
		slog.String("job", job.Name),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
		logger.Err(err),
	)
}

// cronLogger forwards cron's own diagnostics to the jobs logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Jobs.Debug("cron."+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Jobs.Error("cron."+msg, append(keysAndValues, "err", err)...)
}
