package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driving"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

// DefaultSyncInterval is how often the background sync runs when no
// interval is configured.
const DefaultSyncInterval = 30 * time.Minute

// Scheduler runs periodic sync passes in the background. It is a pure
// core service with no external control API: Start blocks until the
// context is cancelled or Stop is called.
type Scheduler struct {
	ingestor driving.Ingestor
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler driving the given ingestor. A
// non-positive interval falls back to the default.
func NewScheduler(ingestor driving.Ingestor, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Scheduler{ingestor: ingestor, interval: interval}
}

// Start begins the scheduler loop. This method blocks until Stop is
// called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	logger.Info("Scheduler started: sync every %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler and waits for an in-flight
// sync pass to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// runSync executes one sync pass. A pass already in flight is left
// alone; overlapping ticks are dropped rather than queued.
func (s *Scheduler) runSync(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		run, err := s.ingestor.Sync(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrSyncInProgress) {
				logger.Debug("Scheduler: sync already in progress, skipping tick")
				return
			}
			logger.Warn("Scheduler: sync failed: %v", err)
			return
		}
		logger.Info("Scheduler: sync pass %s processed %d files", run.ID, run.FilesProcessed)
	}()
}
