package metadata

import (
	"sync"
	"time"
)

// windowLimiter caps calls per fixed window (e.g. 100/minute). The check
// and increment happen as one step under the mutex so two concurrent
// callers can never both consume the last slot.
type windowLimiter struct {
	mu          sync.Mutex
	ceiling     int
	window      time.Duration
	windowStart time.Time
	count       int
	now         func() time.Time
}

func newWindowLimiter(ceiling int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		ceiling: ceiling,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether a call may proceed in the current window and, if
// so, counts it. Once the ceiling is reached every caller is rejected
// until the window rolls over.
func (l *windowLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.count = 0
	}

	if l.count >= l.ceiling {
		return false
	}
	l.count++
	return true
}
