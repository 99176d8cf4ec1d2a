package ingest

import (
	"time"

	"github.com/five82/viewlog/internal/state"
)

// Pipeline feeds throttled batches into a bounded buffer.
type Pipeline struct {
	throttle *Throttle
	buffer   *state.Buffer
}

// NewPipeline builds a pipeline with the given window and buffer capacity.
// Non-positive values use the package defaults.
func NewPipeline(window time.Duration, capacity int) *Pipeline {
	return &Pipeline{
		throttle: NewThrottle(window),
		buffer:   state.NewBuffer(capacity),
	}
}

// Window returns the throttle window.
func (p *Pipeline) Window() time.Duration {
	return p.throttle.window
}

// Submit hands one received message to the throttle. See Throttle.Submit for
// the meaning of the results.
func (p *Pipeline) Submit(text string) (gen uint64, arm bool) {
	return p.throttle.Submit(text)
}

// Tick applies the batch of window gen to the buffer. changed is false for a
// stale generation.
func (p *Pipeline) Tick(gen uint64) (snap state.Snapshot, changed bool) {
	return p.apply(p.throttle.Fire(gen))
}

// Drain applies whatever is pending immediately.
func (p *Pipeline) Drain() (snap state.Snapshot, changed bool) {
	return p.apply(p.throttle.Flush())
}

// Stop cancels the pending window. Later ticks and submits are no-ops.
func (p *Pipeline) Stop() {
	p.throttle.Stop()
}

// Pending returns the number of messages waiting for the next flush.
func (p *Pipeline) Pending() int {
	return p.throttle.Pending()
}

// Snapshot returns the current buffer snapshot.
func (p *Pipeline) Snapshot() state.Snapshot {
	return p.buffer.Snapshot()
}

func (p *Pipeline) apply(batch []string) (state.Snapshot, bool) {
	if len(batch) == 0 {
		return p.buffer.Snapshot(), false
	}
	return p.buffer.Append(batch), true
}
