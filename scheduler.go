package gobrainz

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock abstracts time for the scheduler so tests can substitute a fake.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Scheduler enforces a minimum delay between consecutive outbound requests.
// One Scheduler is normally shared by every client in the process (see
// DefaultScheduler); admission is serialized by a lock that only protects
// the timestamp check-and-set, never the request itself.
type Scheduler struct {
	mu    sync.Mutex
	last  time.Time
	delay atomic.Int64 // nanoseconds; <= 0 disables throttling
	clock Clock
}

// NewScheduler creates a scheduler with the given minimum inter-request
// delay. A delay <= 0 disables throttling.
func NewScheduler(delay time.Duration) *Scheduler {
	return NewSchedulerWithClock(delay, realClock{})
}

// NewSchedulerWithClock creates a scheduler driven by a custom clock.
func NewSchedulerWithClock(delay time.Duration, clock Clock) *Scheduler {
	s := &Scheduler{clock: clock}
	s.delay.Store(int64(delay))
	return s
}

// DefaultScheduler is shared by all clients that do not override it with
// WithScheduler, making the delay window process-wide.
var DefaultScheduler = NewScheduler(time.Second)

// SetDelay changes the minimum inter-request delay at runtime. Goroutines
// blocked in Admit pick up the new value on their next loop iteration.
func (s *Scheduler) SetDelay(d time.Duration) {
	s.delay.Store(int64(d))
}

// Delay returns the configured minimum inter-request delay.
func (s *Scheduler) Delay() time.Duration {
	return time.Duration(s.delay.Load())
}

// Admit blocks the calling goroutine until the delay window since the last
// admission has elapsed, then claims the window. The window is measured
// from the start of the previous request's admission, not its completion.
func (s *Scheduler) Admit() {
	for {
		d := s.Delay() // read fresh each iteration; mutable at runtime
		if d <= 0 {
			return
		}
		s.mu.Lock()
		now := s.clock.Now()
		if now.Sub(s.last) >= d {
			s.last = now
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		// Sleep half the delay to bound the worst-case overshoot.
		s.clock.Sleep(d / 2)
	}
}
