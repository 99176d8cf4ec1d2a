package state

// DefaultCapacity is the number of entries a Buffer keeps when no capacity is given.
const DefaultCapacity = 1000

// Entry is one received log line and its arrival position.
type Entry struct {
	Seq  uint64
	Text string
}

// Buffer is an ordered, capacity-limited store of log entries.
type Buffer struct {
	capacity int
	nextSeq  uint64
	snapshot Snapshot
}

// NewBuffer returns an empty buffer holding at most capacity entries.
// A non-positive capacity uses DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		capacity: capacity,
		snapshot: Snapshot{capacity: capacity},
	}
}

// Capacity returns the maximum number of entries kept.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Append adds texts to the tail in order, evicts from the head beyond
// capacity, and returns the resulting snapshot. An empty batch leaves the
// buffer untouched.
func (b *Buffer) Append(texts []string) Snapshot {
	if len(texts) == 0 {
		return b.snapshot
	}

	prev := b.snapshot.entries
	total := len(prev) + len(texts)
	keep := min(total, b.capacity)
	evicted := total - keep

	next := make([]Entry, 0, keep)

	// Survivors from the previous snapshot, if the batch leaves room.
	if fromPrev := keep - len(texts); fromPrev > 0 {
		next = append(next, prev[len(prev)-fromPrev:]...)
	}

	// Sequence numbers are assigned to the whole batch so that entries
	// dropped from an oversized batch still consume their positions.
	skip := max(len(texts)-keep, 0)
	base := b.nextSeq
	for i := skip; i < len(texts); i++ {
		next = append(next, Entry{Seq: base + uint64(i), Text: texts[i]})
	}
	b.nextSeq += uint64(len(texts))

	b.snapshot = Snapshot{
		entries:  next,
		capacity: b.capacity,
		version:  b.snapshot.version + 1,
		evicted:  b.snapshot.evicted + uint64(evicted),
		received: b.snapshot.received + uint64(len(texts)),
	}
	return b.snapshot
}

// Snapshot returns the current immutable view of the buffer.
func (b *Buffer) Snapshot() Snapshot {
	return b.snapshot
}
