package viewport

// Scroller is a Surface that tracks a top index for a window of a fixed
// number of entries. It is the scroll state a terminal pane needs.
type Scroller struct {
	top        int
	visible    int
	total      int
	start, end int
}

// NewScroller returns a scroller showing visible entries at a time.
func NewScroller(visible int) *Scroller {
	return &Scroller{visible: max(visible, 1)}
}

// ScrollToIndex implements Surface. The target is bottom-aligned when it lies
// below the window and top-aligned when it lies above.
func (s *Scroller) ScrollToIndex(i int) {
	if i < 0 {
		return
	}
	switch {
	case i >= s.top+s.visible:
		s.top = i - s.visible + 1
	case i < s.top:
		s.top = i
	}
	s.total = max(s.total, i+1)
}

// SetVisibleRange implements Surface.
func (s *Scroller) SetVisibleRange(start, end int) {
	s.start, s.end = start, end
	s.top = start
}

// TopIndex implements Surface.
func (s *Scroller) TopIndex() int {
	return s.top
}

// Range returns the last range reported through SetVisibleRange.
func (s *Scroller) Range() (start, end int) {
	return s.start, s.end
}

// SetVisible changes the window size.
func (s *Scroller) SetVisible(n int) {
	s.visible = max(n, 1)
}

// SetTotal records the current number of entries so manual scrolling can be
// clamped.
func (s *Scroller) SetTotal(n int) {
	s.total = max(n, 0)
}

// ScrollBy moves the window by delta entries.
func (s *Scroller) ScrollBy(delta int) {
	s.top = s.clamp(s.top + delta)
}

// PageBy moves the window by pages (negative pages scroll up).
func (s *Scroller) PageBy(pages float64) {
	s.ScrollBy(int(float64(s.visible) * pages))
}

// GotoTop scrolls to the oldest entry.
func (s *Scroller) GotoTop() {
	s.top = 0
}

// GotoBottom scrolls to the newest entry.
func (s *Scroller) GotoBottom() {
	s.top = s.clamp(s.total)
}

// AtBottom reports whether the newest entry is in view.
func (s *Scroller) AtBottom() bool {
	return s.top+s.visible >= s.total
}

func (s *Scroller) clamp(top int) int {
	return min(max(top, 0), max(s.total-s.visible, 0))
}
