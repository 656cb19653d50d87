package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// MetricsCleaner provides the ability to delete old API metric rows.
type MetricsCleaner interface {
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// CleanupMetricsTask removes API metric rows older than the configured
// retention period.
type CleanupMetricsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for metrics cleanup tasks.
func (t CleanupMetricsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_metrics",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupMetricsProcessor creates a processor function for CleanupMetricsTask.
func CleanupMetricsProcessor(cleaner MetricsCleaner) backlite.QueueProcessor[CleanupMetricsTask] {
	return func(ctx context.Context, task CleanupMetricsTask) error {
		if cleaner == nil {
			return fmt.Errorf("metrics cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		deleted, err := cleaner.DeleteOlderThan(cutoff)
		if err != nil {
			return fmt.Errorf("cleanup metrics: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d API metric rows older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupMetricsQueue creates a backlite queue for metrics cleanup tasks.
func NewCleanupMetricsQueue(cleaner MetricsCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupMetricsProcessor(cleaner))
}
