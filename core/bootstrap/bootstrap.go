package bootstrap

import (
	"fmt"

	coreconfig "github.com/m3rciful/skeddybot/core/config"
	"github.com/m3rciful/skeddybot/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	// Jobs are registered on the scheduler but not started.
	Jobs []Job
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Scheduler *Scheduler
}

// Run initializes the logger and prepares the background job scheduler.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	sched := NewScheduler(opts.Config.Reminders.Location())
	for _, job := range opts.Jobs {
		if err := sched.Add(job); err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
	}
	return &Result{Scheduler: sched}, nil
}
