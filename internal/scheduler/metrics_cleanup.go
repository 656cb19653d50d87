// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lari-ember/biblioteca-web/internal/config"
	"github.com/lari-ember/biblioteca-web/internal/tasks"
)

// MetricsCleanupScheduler periodically queues a metrics cleanup task so old
// API usage rows are pruned on schedule.
type MetricsCleanupScheduler struct {
	taskClient *tasks.Client
	cfg        config.Metrics

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMetricsCleanupScheduler creates a new scheduler instance.
func NewMetricsCleanupScheduler(taskClient *tasks.Client, cfg config.Metrics) *MetricsCleanupScheduler {
	return &MetricsCleanupScheduler{
		taskClient: taskClient,
		cfg:        cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if cleanup is enabled.
func (s *MetricsCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.CleanupEnabled {
		log.Printf("Metrics cleanup scheduler: disabled")
		return nil
	}
	if s.taskClient == nil {
		log.Printf("Metrics cleanup scheduler: task queue unavailable, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.CleanupSchedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.CleanupSchedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Metrics cleanup scheduler: started with schedule '%s' (retention %d days)",
		s.cfg.CleanupSchedule, s.cfg.RetentionDays)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *MetricsCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Metrics cleanup scheduler: stopped")
}

// RunNow queues an immediate cleanup.
func (s *MetricsCleanupScheduler) RunNow() {
	go s.runCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *MetricsCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will be queued.
func (s *MetricsCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *MetricsCleanupScheduler) runCleanup() {
	task := tasks.CleanupMetricsTask{RetentionDays: s.cfg.RetentionDays}
	if _, err := s.taskClient.Add(task).Save(); err != nil {
		log.Printf("Metrics cleanup scheduler: failed to queue cleanup: %v", err)
		return
	}
	log.Printf("Metrics cleanup scheduler: cleanup task queued")
}
