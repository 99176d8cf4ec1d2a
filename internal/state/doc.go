// Package state holds the bounded, ordered log buffer for the viewer.
//
// # Overview
//
// The buffer is the only owner of received log lines. The ingestion path
// appends to it and the rendering path reads immutable snapshots of it:
//
//	Ingestion (event loop):         Rendering (same loop):
//	┌────────────────────┐         ┌─────────────────────┐
//	│ throttle flush     │         │                     │
//	│      ↓             │         │                     │
//	│ buffer.Append()    │────────→│ snapshot.Slice()    │
//	│      ↓             │ (value) │      ↓              │
//	│ evict oldest       │         │ draw visible rows   │
//	└────────────────────┘         └─────────────────────┘
//
// # Capacity
//
// A Buffer never holds more than its capacity. When an append would overflow,
// the oldest entries are dropped from the head; survivors keep their relative
// order. A single append larger than the capacity keeps only the newest
// entries of that batch.
//
// # Snapshots
//
// Every Append builds a fresh backing slice (copy-on-write), so a Snapshot
// handed out earlier is never modified afterwards. Readers therefore never
// observe a buffer above capacity or a half-applied batch.
//
// There is no locking: both the appender and the readers run on the same
// event loop, and snapshots are immutable once produced.
//
// # Sequence Numbers
//
// Each entry carries the arrival position it was assigned when appended
// (Seq). Identical texts received twice are two distinct entries with two
// distinct sequence numbers.
package state
