// Package logserve is a small companion server that streams a log file over
// a websocket at /view-log-ws, the endpoint the viewer connects to.
//
// Each connection first receives the last Options.Tail lines (all lines when
// Tail is negative), then every line appended afterwards. Every line is one
// text frame. Frames from the viewer (its greeting) are logged at debug level
// and otherwise ignored. A reader and a writer goroutine run per connection
// under an errgroup; when either ends, the connection is closed.
//
// GET /healthz reports liveness and the number of connected viewers.
package logserve
