// Package session maintains the viewer's websocket connection to a log
// server.
//
// # Overview
//
// A Session owns exactly one connection at a time. Callers register
// handlers, call Open with a ws:// or wss:// URL, and receive every inbound
// payload through OnMessage in the order the server sent it. Close tears the
// connection down and guarantees no handler runs afterwards.
//
// # Endpoint
//
// EndpointURL derives the URL from a host and a secure flag. The scheme is
// wss when secure is set or the host already carries https:// or wss://,
// otherwise ws. The path is always /view-log-ws.
//
//	u, err := session.EndpointURL("localhost:4000", false)
//	// ws://localhost:4000/view-log-ws
//
// # Lifecycle
//
//	idle -> connecting -> open -> closed
//	                 \       \
//	                  +-> reconnecting (Options.Reconnect only)
//
// After each successful handshake the session fires OnOpen and then sends
// the text frame "Hello Server!". A close frame from the server, or a
// transport failure, fires OnClose with the close code and reason. Transport
// failures also fire OnError first. With Options.Reconnect the session
// instead backs off (1s doubling to 30s) and dials again.
//
// # Handler Contract
//
// Handlers run on the session goroutine, sequentially. They must return
// quickly and must not call Close; hand events to another goroutine (see
// ingest.Inbox) instead. Close waits for the session goroutine to exit, so a
// handler that blocks on the caller of Close deadlocks.
//
// Close is idempotent and does not fire OnClose: the caller initiated it and
// already knows.
package session
