package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lari-ember/biblioteca-web/internal/metadata"
	"github.com/mikestefanello/backlite"
)

// EnrichAllBooksTask sweeps the catalog and backfills every record with
// missing metadata. Heavier than EnrichBookTask, so it gets a longer
// timeout and fewer attempts.
type EnrichAllBooksTask struct {
	RequestedAt time.Time `json:"requested_at"`
}

// Config returns the queue configuration for catalog-wide enrichment.
func (t EnrichAllBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_all_books",
		MaxAttempts: 2,
		Backoff:     5 * time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   48 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichAllBooksProcessor creates a processor function for EnrichAllBooksTask.
func EnrichAllBooksProcessor(enricher *metadata.Enricher) backlite.QueueProcessor[EnrichAllBooksTask] {
	return func(ctx context.Context, task EnrichAllBooksTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.EnrichAllMissing(ctx)
		if err != nil {
			return fmt.Errorf("enrich all books: %w", err)
		}

		log.Printf("[TASK] Catalog enrichment complete: %d total, %d enriched, %d skipped, %d failed",
			result.TotalBooks, result.Enriched, result.Skipped, result.Failed)
		return nil
	}
}

// NewEnrichAllBooksQueue creates a backlite queue for catalog-wide enrichment.
func NewEnrichAllBooksQueue(enricher *metadata.Enricher) backlite.Queue {
	return backlite.NewQueue(EnrichAllBooksProcessor(enricher))
}
