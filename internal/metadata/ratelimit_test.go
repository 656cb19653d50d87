package metadata

import (
	"sync"
	"testing"
	"time"
)

func TestLimiterCeiling(t *testing.T) {
	limiter := newWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow() {
			t.Fatalf("call %d rejected below the ceiling", i+1)
		}
	}
	if limiter.Allow() {
		t.Error("call above the ceiling was allowed")
	}
	if limiter.Allow() {
		t.Error("rejections must persist until the window rolls over")
	}
}

func TestLimiterWindowRollover(t *testing.T) {
	limiter := newWindowLimiter(2, time.Minute)
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	limiter.Allow()
	limiter.Allow()
	if limiter.Allow() {
		t.Fatal("ceiling not enforced")
	}

	current = current.Add(59 * time.Second)
	if limiter.Allow() {
		t.Error("window rolled over early")
	}

	current = current.Add(2 * time.Second)
	if !limiter.Allow() {
		t.Error("new window should reset the count")
	}
}

func TestLimiterConcurrentAccess(t *testing.T) {
	const ceiling = 50
	limiter := newWindowLimiter(ceiling, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != ceiling {
		t.Errorf("allowed %d calls, expected exactly %d", allowed, ceiling)
	}
}
