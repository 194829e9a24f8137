package resilience

import (
	"context"
	"sync"
	"time"
)

// Throttle serializes calls and keeps at least Interval between the end of one
// call and the start of the next. Waiting callers block; they only fail when
// their context is done.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	if interval < 0 {
		interval = 0
	}
	return &Throttle{interval: interval, now: time.Now}
}

func (t *Throttle) Interval() time.Duration {
	return t.interval
}

func (t *Throttle) Do(ctx context.Context, fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		if wait := t.interval - t.now().Sub(t.last); wait > 0 {
			if err := Sleep(ctx, wait); err != nil {
				return err
			}
		}
	}

	err := fn()
	t.last = t.now()
	return err
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
