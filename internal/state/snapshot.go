package state

// Snapshot is an immutable view of a Buffer at a point in time.
// The zero value is an empty snapshot.
type Snapshot struct {
	entries  []Entry
	capacity int
	version  uint64
	evicted  uint64
	received uint64
}

// Len returns the number of entries in the snapshot.
func (s Snapshot) Len() int {
	return len(s.entries)
}

// At returns the entry at index i, oldest first. It panics when i is out of
// range, like a slice index.
func (s Snapshot) At(i int) Entry {
	return s.entries[i]
}

// Last returns the newest entry and false when the snapshot is empty.
func (s Snapshot) Last() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Slice returns a copy of the entries in [start, end), clamped to the
// snapshot bounds.
func (s Snapshot) Slice(start, end int) []Entry {
	start = max(start, 0)
	end = min(end, len(s.entries))
	if start >= end {
		return nil
	}
	out := make([]Entry, end-start)
	copy(out, s.entries[start:end])
	return out
}

// Texts returns a copy of all entry texts, oldest first.
func (s Snapshot) Texts() []string {
	if len(s.entries) == 0 {
		return nil
	}
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Text
	}
	return out
}

// Capacity returns the capacity of the buffer that produced the snapshot.
func (s Snapshot) Capacity() int {
	return s.capacity
}

// Version counts the non-empty appends applied so far. Two snapshots from the
// same buffer hold the same contents exactly when their versions match.
func (s Snapshot) Version() uint64 {
	return s.version
}

// Evicted returns the total number of entries dropped to stay within capacity.
func (s Snapshot) Evicted() uint64 {
	return s.evicted
}

// Received returns the total number of entries ever appended.
func (s Snapshot) Received() uint64 {
	return s.received
}
