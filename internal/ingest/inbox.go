package ingest

import (
	"context"
	"sync"
)

// Inbox is an unbounded FIFO mailbox safe for one or more producers and a
// single consumer. Push never blocks and never drops.
type Inbox[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
}

// NewInbox returns an empty, open inbox.
func NewInbox[T any]() *Inbox[T] {
	return &Inbox[T]{ready: make(chan struct{}, 1)}
}

// Push appends item. It reports false when the inbox is already closed.
func (in *Inbox[T]) Push(item T) bool {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return false
	}
	in.items = append(in.items, item)
	in.mu.Unlock()
	in.signal()
	return true
}

// Ready returns a channel that receives a value whenever items may be
// waiting. Consumers that select on it must call Drain afterwards.
func (in *Inbox[T]) Ready() <-chan struct{} {
	return in.ready
}

// Drain removes and returns everything queued, oldest first.
func (in *Inbox[T]) Drain() []T {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := in.items
	in.items = nil
	return out
}

// Wait blocks until at least one item is queued, the inbox is closed, or ctx
// is done, then drains. ok is false once the inbox is closed and empty or the
// context ends.
func (in *Inbox[T]) Wait(ctx context.Context) (items []T, ok bool) {
	for {
		in.mu.Lock()
		if len(in.items) > 0 {
			items = in.items
			in.items = nil
			in.mu.Unlock()
			return items, true
		}
		closed := in.closed
		in.mu.Unlock()
		if closed {
			return nil, false
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-in.ready:
		}
	}
}

// Close stops accepting new items and wakes any waiter. Items already queued
// can still be drained.
func (in *Inbox[T]) Close() {
	in.mu.Lock()
	in.closed = true
	in.mu.Unlock()
	in.signal()
}

// Len returns the number of queued items.
func (in *Inbox[T]) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.items)
}

func (in *Inbox[T]) signal() {
	select {
	case in.ready <- struct{}{}:
	default:
	}
}
