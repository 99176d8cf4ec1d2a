package ingest

import "time"

// DefaultWindow is the flush window used when none is configured.
const DefaultWindow = 500 * time.Millisecond

// Throttle accumulates submitted messages and releases them at most once per
// window.
type Throttle struct {
	window  time.Duration
	pending []string
	armed   bool
	gen     uint64
	stopped bool
}

// NewThrottle returns a throttle with the given window. A non-positive window
// uses DefaultWindow.
func NewThrottle(window time.Duration) *Throttle {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Throttle{window: window}
}

// Window returns the flush window.
func (t *Throttle) Window() time.Duration {
	return t.window
}

// Submit queues text for the next flush. When the call opens a new window it
// returns arm=true with the generation the caller must pass to Fire once
// Window has elapsed. After Stop, Submit drops text and never arms.
func (t *Throttle) Submit(text string) (gen uint64, arm bool) {
	if t.stopped {
		return 0, false
	}
	t.pending = append(t.pending, text)
	if t.armed {
		return t.gen, false
	}
	t.gen++
	t.armed = true
	return t.gen, true
}

// Fire releases everything accumulated for the window identified by gen.
// A stale generation returns nil.
func (t *Throttle) Fire(gen uint64) []string {
	if !t.armed || gen != t.gen {
		return nil
	}
	return t.take()
}

// Flush releases everything pending right away and invalidates the armed
// timer, if any.
func (t *Throttle) Flush() []string {
	if !t.armed {
		return nil
	}
	return t.take()
}

// Stop discards pending messages and invalidates the armed timer. It is
// idempotent.
func (t *Throttle) Stop() {
	t.stopped = true
	t.pending = nil
	t.armed = false
	t.gen++
}

// Stopped reports whether Stop has been called.
func (t *Throttle) Stopped() bool {
	return t.stopped
}

// Pending returns the number of messages waiting for the next flush.
func (t *Throttle) Pending() int {
	return len(t.pending)
}

// Armed reports whether a window is open and its timer outstanding.
func (t *Throttle) Armed() bool {
	return t.armed
}

func (t *Throttle) take() []string {
	out := t.pending
	t.pending = nil
	t.armed = false
	// Bump the generation so the timer of the window just drained, if it is
	// still outstanding, is recognised as stale.
	t.gen++
	return out
}
