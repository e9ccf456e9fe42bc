package identity

import (
	"sync"
	"time"
)

const (
	maxFailedAttempts = 5
	attemptWindow     = 15 * time.Minute
)

// attemptLimiter throttles repeated failed sign-ins per email with a
// fixed window. The managed providers this replaces throttle upstream;
// here nothing else would.
type attemptLimiter struct {
	max    int
	window time.Duration

	mu       sync.Mutex
	failures map[string]*windowCount
	now      func() time.Time
}

type windowCount struct {
	count int
	start time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	return &attemptLimiter{
		max:      max,
		window:   window,
		failures: make(map[string]*windowCount),
		now:      time.Now,
	}
}

func (l *attemptLimiter) blocked(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.failures[email]
	if !ok {
		return false
	}
	if l.now().Sub(wc.start) > l.window {
		delete(l.failures, email)
		return false
	}
	return wc.count >= l.max
}

func (l *attemptLimiter) fail(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.failures[email]
	if !ok || l.now().Sub(wc.start) > l.window {
		l.failures[email] = &windowCount{count: 1, start: l.now()}
		return
	}
	wc.count++
}

func (l *attemptLimiter) reset(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, email)
}
