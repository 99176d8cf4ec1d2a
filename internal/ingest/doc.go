// Package ingest turns a stream of received messages into bounded-rate
// buffer updates.
//
// Three pieces live here:
//
//   - Throttle: a pending list plus a single timer. The first message of a
//     window arms the timer; every message submitted before it fires is
//     flushed together, in submit order, when it does.
//   - Inbox: an unbounded ordered mailbox that carries events from the
//     session goroutine to the event loop without ever blocking the sender.
//   - Pipeline: a Throttle feeding a state.Buffer.
//
// Throttle and Pipeline are not safe for concurrent use. They belong to the
// event loop, which also owns the timer: when Submit reports arm, the loop
// schedules one timer for Window() and calls Fire (or Pipeline.Tick) with the
// returned generation when it expires.
//
//	loop                       throttle
//	 │ Submit("x") ─────────────→ pending=[x], arm gen=1
//	 │ schedule(500ms, gen=1)
//	 │ Submit("y") ─────────────→ pending=[x y]
//	 │ ... 500ms ...
//	 │ Fire(1) ─────────────────→ [x y], disarmed
package ingest
