package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work, typically re-planning and registering a
// set of feed files.
type Job func(ctx context.Context) error

// Scheduler runs registration jobs on cron schedules. A run that is still in
// progress when its next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	mu      sync.Mutex
	entries map[string]cron.EntryID // job name → cron entry
	ctx     context.Context
}

// NewScheduler creates a stopped Scheduler. Jobs receive ctx.
func NewScheduler(ctx context.Context, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
		entries: make(map[string]cron.EntryID),
		ctx:     ctx,
	}
}

// Schedule adds job under name, replacing any job already scheduled under
// that name. spec accepts standard five-field cron expressions and
// descriptors such as "@hourly" or "@every 10m".
func (s *Scheduler) Schedule(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.cron.AddFunc(spec, func() {
		if err := job(s.ctx); err != nil {
			s.logger.Warn("scheduled registration failed", "job", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	if prev, ok := s.entries[name]; ok {
		s.cron.Remove(prev)
	}
	s.entries[name] = entryID
	s.logger.Info("registration scheduled", "job", name, "schedule", spec)
	return nil
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("registration scheduler started")
}

// Stop stops scheduling new runs and waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("registration scheduler stopped")
}
