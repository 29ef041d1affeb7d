// Package scheduler runs a periodic full resync of the search index so that
// edits the file watcher missed (network mounts, editors that swap inodes)
// are eventually picked up.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/starford/folio/internal/index"
)

// Syncer is the resync target.
type Syncer interface {
	Sync(ctx context.Context) (index.Stats, error)
}

// Scheduler wraps a gocron scheduler with a single resync job.
type Scheduler struct {
	scheduler gocron.Scheduler
	syncer    Syncer
	logger    *slog.Logger

	mu  sync.Mutex
	ctx context.Context
}

// New creates a scheduler that resyncs every interval. Runs never overlap:
// a tick that arrives while a sync is in flight is skipped.
func New(syncer Syncer, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("scheduler: create: %w", err)
	}

	s := &Scheduler{scheduler: gs, syncer: syncer, logger: logger, ctx: context.Background()}
	_, err = gs.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.resync),
		gocron.WithName("index-resync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = gs.Shutdown()
		return nil, fmt.Errorf("scheduler: add resync job: %w", err)
	}
	return s, nil
}

// Run starts the scheduler and blocks until ctx is cancelled, then shuts it
// down and waits for a running sync to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.logger.Info("scheduler: started")
	s.scheduler.Start()
	<-ctx.Done()

	s.logger.Info("scheduler: stopping")
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("scheduler: shutdown: %w", err)
	}
	return nil
}

func (s *Scheduler) resync() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	stats, err := s.syncer.Sync(ctx)
	if err != nil {
		s.logger.Error("scheduler: resync failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("scheduler: resync done",
		slog.Int("indexed", stats.Indexed),
		slog.Int("removed", stats.Removed),
		slog.Duration("took", time.Since(start)),
	)
}
