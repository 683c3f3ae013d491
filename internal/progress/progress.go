// Package progress provides throttled progress reporting for long-running
// batch operations.
package progress

import (
	"time"
)

// Func receives the number of items processed so far. Returning an error
// aborts the remaining batch (e.g. on user cancellation).
type Func func(done int) error

// throttleInterval bounds how often the callback fires.
const throttleInterval = 100 * time.Millisecond

// Incrementor counts processed items and forwards the count to a callback,
// throttled to at most one call per interval. A nil callback disables
// reporting entirely.
type Incrementor struct {
	fn       Func
	count    int
	lastSent time.Time
}

// NewIncrementor creates an incrementor wrapping fn.
func NewIncrementor(fn Func) *Incrementor {
	return &Incrementor{fn: fn}
}

// Increment records one processed item. The first call and any call after
// the throttle interval has elapsed are delivered to the callback; its error
// is returned unchanged.
func (inc *Incrementor) Increment() error {
	inc.count++
	if inc.fn == nil {
		return nil
	}

	now := time.Now()
	if !inc.lastSent.IsZero() && now.Sub(inc.lastSent) < throttleInterval {
		return nil
	}
	inc.lastSent = now
	return inc.fn(inc.count)
}

// Count returns the number of items recorded so far.
func (inc *Incrementor) Count() int {
	return inc.count
}

// Flush delivers the final count to the callback regardless of throttling.
func (inc *Incrementor) Flush() error {
	if inc.fn == nil {
		return nil
	}
	return inc.fn(inc.count)
}
