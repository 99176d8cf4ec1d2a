// Package app wires configuration, the websocket session and a front end
// into the viewer.
//
// # Components
//
//   - app.go: Run, the TUI composition root
//   - plain.go: RunPlain, the line-printing runner used with --plain
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> session.EndpointURL()  ws:// or wss:// + /view-log-ws
//	       ├─────> prefs.Load()           Theme
//	       ├─────> session.New()          Forward events to an Inbox
//	       ├─────> Session.Open()         Dial in the background
//	       └─────> ui.Run()               Event loop (blocks)
//
// On exit the UI has already stopped its throttle, so pending lines are
// dropped before the session is closed. Run then closes the inbox and
// flushes any unsaved preferences.
//
// RunPlain replaces the TUI with a select loop over the inbox, a flush timer
// and the context. It ends when the server closes the connection for good
// (after a final flush) or when the context is cancelled. Its loop and the
// teardown goroutine run under an errgroup.
package app
