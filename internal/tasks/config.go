package tasks

import "time"

// Config tunes the shared queue machinery. Retry counts, backoff and
// timeouts are per-queue concerns, declared in each task's Config().
type Config struct {
	// Workers is the number of concurrent task workers. Enrichment tasks
	// are rate-limited upstream, so a small pool suffices. Default: 2
	Workers int

	// ReleaseAfter is when stuck tasks are released back to the queue.
	// Must exceed the longest queue timeout (bulk enrichment). Default: 45m
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are swept. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    45 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}
