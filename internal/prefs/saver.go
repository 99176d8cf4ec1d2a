package prefs

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DefaultSaveDelay coalesces bursts of preference changes (theme cycling).
const DefaultSaveDelay = 750 * time.Millisecond

// Saver persists preferences in the background, writing only the latest
// value after changes settle.
type Saver struct {
	path     string
	debounce func(f func())
	onError  func(error)

	mu      sync.Mutex
	pending *Prefs
}

// NewSaver returns a Saver writing to path. onError may be nil.
func NewSaver(path string, delay time.Duration, onError func(error)) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Saver{
		path:     path,
		debounce: debounce.New(delay),
		onError:  onError,
	}
}

// Schedule records p and arranges for it to be written once changes settle.
func (s *Saver) Schedule(p Prefs) {
	s.mu.Lock()
	s.pending = &p
	s.mu.Unlock()
	s.debounce(s.write)
}

// Flush cancels the pending timer and writes any unsaved value now.
func (s *Saver) Flush() error {
	s.debounce(func() {})
	return s.save()
}

func (s *Saver) write() {
	if err := s.save(); err != nil && s.onError != nil {
		s.onError(err)
	}
}

func (s *Saver) save() error {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p == nil {
		return nil
	}
	return Save(s.path, *p)
}
