package tui

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRedrawInterval is used when the configured interval is not positive.
const DefaultRedrawInterval = 200 * time.Millisecond

// RedrawTimer posts redraw requests on a fixed interval. At most one request
// waits at a time, and ticks are dropped while any suppression guard is held.
type RedrawTimer struct {
	interval time.Duration
	requests chan struct{}

	held    atomic.Int32
	dropped atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRedrawTimer creates a stopped timer.
func NewRedrawTimer(interval time.Duration) *RedrawTimer {
	if interval <= 0 {
		interval = DefaultRedrawInterval
	}
	return &RedrawTimer{
		interval: interval,
		requests: make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// C delivers redraw requests.
func (t *RedrawTimer) C() <-chan struct{} {
	return t.requests
}

// Interval returns the tick period.
func (t *RedrawTimer) Interval() time.Duration {
	return t.interval
}

// Start runs the ticker until ctx is done or Stop is called.
func (t *RedrawTimer) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.stop:
				return
			case <-ticker.C:
				t.tick()
			}
		}
	}()
}

// Stop ends the ticker goroutine. It is safe to call more than once.
func (t *RedrawTimer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *RedrawTimer) tick() {
	if t.held.Load() > 0 {
		t.dropped.Add(1)
		return
	}
	select {
	case t.requests <- struct{}{}:
	default:
		// one already pending
	}
}

// Suppress holds redraws back until the returned release func runs. Guards
// nest, and any request already pending is discarded. Calling release more
// than once has no further effect, so callers defer it.
func (t *RedrawTimer) Suppress() (release func()) {
	t.held.Add(1)
	select {
	case <-t.requests:
	default:
	}

	var once sync.Once
	return func() {
		once.Do(func() { t.held.Add(-1) })
	}
}

// Suppressed reports whether any guard is held.
func (t *RedrawTimer) Suppressed() bool {
	return t.held.Load() > 0
}

// Dropped returns how many ticks were discarded under a guard.
func (t *RedrawTimer) Dropped() int64 {
	return t.dropped.Load()
}
