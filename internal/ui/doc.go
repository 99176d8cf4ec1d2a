// Package ui provides the terminal log viewer built on Bubble Tea.
//
// # Architecture Overview
//
// One Model owns everything the screen shows. Session events arrive through
// an ingest.Inbox that a tea.Cmd waits on; every batch of events becomes an
// eventsMsg handled in Update. Received lines go to an ingest.Pipeline, whose
// throttle arms a tea.Tick when a new window opens. The tick comes back as a
// flushMsg carrying the window's generation, and only a current generation
// reaches the buffer. Because all of this runs inside Update, the buffer,
// the throttle and the scroll position never need locks.
//
//	session goroutine ──Push──> Inbox ──waitEventsCmd──> Update
//	                                                       │
//	                       flushMsg{gen} <──tea.Tick── Submit (arm)
//	                             │
//	                  Pipeline.Tick ──> Snapshot ──> Controller.Render
//	                                                       │
//	                                           visible entries ──> pane
//
// # Package Structure
//
//   - app.go: Model, Update loop, messages, commands and Run
//   - logs.go: Log pane rendering, one sanitized row per entry
//   - header.go: Connection header and status bar
//   - help.go: Help overlay
//   - keys.go: Key bindings
//   - theme.go: Color themes and Lipgloss styles
//   - style_helpers.go: Background-safe rendering helpers
//   - layout.go: Layout constants
//
// # Rendering
//
// Only the entries in the controller's visible range are rendered, one
// terminal row each (long lines are truncated), so drawing cost depends on
// the pane height rather than the buffer size. The bubbles viewport is used
// as the pane frame; scrolling is done by the viewport controller.
//
// # Key Bindings
//
//   - Space or a: Toggle autoscroll (label shows the action: "Off autoscroll"
//     or "On autoscroll")
//   - j/k, up/down: Scroll one line
//   - pgup/pgdown, ctrl+u/ctrl+d: Page and half page
//   - g/G: Oldest/newest line
//   - T: Cycle theme (saved to prefs)
//   - h or ?: Help
//   - q or Ctrl+C: Quit
//
// Manual scrolling never changes autoscroll. With autoscroll on, the next
// flush brings the newest line back into view.
package ui
