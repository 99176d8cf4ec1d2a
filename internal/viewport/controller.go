// Package viewport decides which slice of the log buffer is visible and
// whether the view follows the newest entry.
//
// The Controller never draws anything itself. It talks to the rendering
// layer through Surface, which owns the scroll position, and it only reads
// buffer snapshots.
package viewport

import "github.com/five82/viewlog/internal/state"

// Fixed layout defaults, in terminal rows.
const (
	DefaultItemHeight     = 1
	DefaultViewportHeight = 20
)

// Toggle labels, named after the action a press performs.
const (
	LabelTurnOff = "Off autoscroll"
	LabelTurnOn  = "On autoscroll"
)

// Surface is the rendering side of the viewport.
type Surface interface {
	// ScrollToIndex brings entry i into view.
	ScrollToIndex(i int)
	// SetVisibleRange reports the entries [start, end) about to be drawn.
	SetVisibleRange(start, end int)
	// TopIndex returns the index of the first entry in view.
	TopIndex() int
}

// Controller renders a windowed slice of the buffer and pins the view to the
// newest entry while autoscroll is on.
type Controller struct {
	surface        Surface
	itemHeight     int
	viewportHeight int

	autoscroll  bool
	pinPending  bool
	seenVersion uint64
	seenEvicted uint64
	start, end  int
}

// New returns a controller with autoscroll on. Non-positive sizes fall back
// to the defaults.
func New(surface Surface, itemHeight, viewportHeight int) *Controller {
	if itemHeight <= 0 {
		itemHeight = DefaultItemHeight
	}
	if viewportHeight <= 0 {
		viewportHeight = DefaultViewportHeight
	}
	return &Controller{
		surface:        surface,
		itemHeight:     itemHeight,
		viewportHeight: viewportHeight,
		autoscroll:     true,
	}
}

// Render returns the entries that fit in the viewport. When the snapshot has
// changed since the previous call and autoscroll is on, the surface is first
// scrolled to the newest entry. With autoscroll off the window moves up by
// the number of entries evicted since the previous call, so the entries in
// view stay in view until they are evicted themselves.
func (c *Controller) Render(snap state.Snapshot) []state.Entry {
	changed := snap.Version() != c.seenVersion
	c.seenVersion = snap.Version()

	var evicted int
	if snap.Evicted() > c.seenEvicted {
		evicted = int(snap.Evicted() - c.seenEvicted)
	}
	c.seenEvicted = snap.Evicted()

	n := snap.Len()
	if c.autoscroll && (changed || c.pinPending) && n > 0 {
		c.surface.ScrollToIndex(n - 1)
	}
	if n > 0 {
		c.pinPending = false
	}

	top := c.surface.TopIndex()
	if !c.autoscroll {
		top -= evicted
	}
	c.start, c.end = VisibleRange(top, n, c.VisibleCount())
	c.surface.SetVisibleRange(c.start, c.end)
	return snap.Slice(c.start, c.end)
}

// ToggleAutoscroll flips autoscroll and returns the new state. Turning it on
// pins the view to the newest entry at the next Render.
func (c *Controller) ToggleAutoscroll() bool {
	c.autoscroll = !c.autoscroll
	c.pinPending = c.autoscroll
	return c.autoscroll
}

// Autoscroll reports whether the view follows new entries.
func (c *Controller) Autoscroll() bool {
	return c.autoscroll
}

// ToggleLabel returns the label of the autoscroll control.
func (c *Controller) ToggleLabel() string {
	if c.autoscroll {
		return LabelTurnOff
	}
	return LabelTurnOn
}

// VisibleCount returns how many entries fit in the viewport at once.
func (c *Controller) VisibleCount() int {
	return max(c.viewportHeight/c.itemHeight, 1)
}

// SetViewportHeight changes the viewport height in rows.
func (c *Controller) SetViewportHeight(rows int) {
	if rows <= 0 {
		rows = DefaultViewportHeight
	}
	c.viewportHeight = rows
}

// Range returns the range produced by the latest Render.
func (c *Controller) Range() (start, end int) {
	return c.start, c.end
}

// VisibleRange clamps a window of count entries starting at top to a buffer
// of length total.
func VisibleRange(top, total, count int) (start, end int) {
	if total <= 0 || count <= 0 {
		return 0, 0
	}
	start = min(max(top, 0), max(total-count, 0))
	end = min(start+count, total)
	return start, end
}
