package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// jobTimeout bounds a single cache refresh
const jobTimeout = 30 * time.Second

// CacheWarmer reloads the listing grid cache
type CacheWarmer interface {
	WarmCache(ctx context.Context) (int, error)
}

// Scheduler refreshes the listing cache on a cron schedule
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	warmer    CacheWarmer
	log       *zap.Logger
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler for the given cron spec
func NewScheduler(spec string, warmer CacheWarmer, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		spec:   spec,
		warmer: warmer,
		log:    log,
	}
}

// Start registers the refresh job and starts the scheduler. An empty spec
// leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.log.Info("Scheduler: cache warming is disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.runWarmCache); err != nil {
		return err
	}

	// warm once up front so the first grid read is a hit
	s.runWarmCache()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cron.Start()
	s.isRunning = true
	s.log.Info("Scheduler: started", zap.String("cron", s.spec))
	return nil
}

// Stop stops the scheduler and waits for a running job
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		<-s.cron.Stop().Done()
		s.isRunning = false
		s.log.Info("Scheduler: stopped")
	}
}

func (s *Scheduler) runWarmCache() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.warmer.WarmCache(ctx)
	if err != nil {
		s.log.Warn("Scheduler: cache warming failed", zap.Error(err))
		return
	}
	s.log.Debug("Scheduler: cache warmed",
		zap.Int("listings", n),
		zap.Duration("duration", time.Since(start)))
}
