package tasks

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCleaner struct {
	deleted    int64
	err        error
	lastCutoff time.Time
}

func (f *fakeCleaner) DeleteOlderThan(cutoff time.Time) (int64, error) {
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deleted, nil
}

func TestCleanupMetricsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 42}
	processor := CleanupMetricsProcessor(cleaner)

	err := processor(context.Background(), CleanupMetricsTask{RetentionDays: 7})
	if err != nil {
		t.Fatalf("processor returned error: %v", err)
	}

	expected := time.Now().Add(-7 * 24 * time.Hour)
	if diff := cleaner.lastCutoff.Sub(expected); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v, expected about %v", cleaner.lastCutoff, expected)
	}
}

func TestCleanupMetricsProcessorDefaultsRetention(t *testing.T) {
	cleaner := &fakeCleaner{}
	processor := CleanupMetricsProcessor(cleaner)

	if err := processor(context.Background(), CleanupMetricsTask{}); err != nil {
		t.Fatalf("processor returned error: %v", err)
	}

	expected := time.Now().Add(-30 * 24 * time.Hour)
	if diff := cleaner.lastCutoff.Sub(expected); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v, expected the 30-day default", cleaner.lastCutoff)
	}
}

func TestCleanupMetricsProcessorPropagatesErrors(t *testing.T) {
	cleaner := &fakeCleaner{err: errors.New("locked")}
	processor := CleanupMetricsProcessor(cleaner)

	if err := processor(context.Background(), CleanupMetricsTask{}); err == nil {
		t.Error("expected error from failing cleaner")
	}

	if err := CleanupMetricsProcessor(nil)(context.Background(), CleanupMetricsTask{}); err == nil {
		t.Error("expected error when cleaner is not configured")
	}
}
