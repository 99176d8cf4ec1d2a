package state

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewBuffer(0).Capacity())
	assert.Equal(t, DefaultCapacity, NewBuffer(-5).Capacity())
	assert.Equal(t, 3, NewBuffer(3).Capacity())
}

func TestBuffer_EvictsOldest(t *testing.T) {
	b := NewBuffer(3)

	b.Append([]string{"a"})
	snap := b.Append([]string{"b", "c", "d"})

	assert.Equal(t, []string{"b", "c", "d"}, snap.Texts())
	assert.Equal(t, uint64(1), snap.Evicted())
	assert.Equal(t, uint64(4), snap.Received())
}

func TestBuffer_OversizedBatchKeepsNewest(t *testing.T) {
	b := NewBuffer(3)
	b.Append([]string{"old"})

	snap := b.Append([]string{"1", "2", "3", "4", "5"})

	require.Equal(t, 3, snap.Len())
	assert.Equal(t, []string{"3", "4", "5"}, snap.Texts())
	assert.Equal(t, uint64(3), snap.At(0).Seq, "dropped batch entries still consume positions")
	assert.Equal(t, uint64(5), snap.At(2).Seq)
	assert.Equal(t, uint64(3), snap.Evicted())
}

func TestBuffer_CapacityInvariantAcrossAppends(t *testing.T) {
	const capacity = 7
	b := NewBuffer(capacity)

	var all []string
	for round := 0; round < 40; round++ {
		batch := make([]string, round%11)
		for i := range batch {
			batch[i] = fmt.Sprintf("r%d-%d", round, i)
		}
		all = append(all, batch...)

		snap := b.Append(batch)
		require.LessOrEqual(t, snap.Len(), capacity)

		want := all
		if len(want) > capacity {
			want = want[len(want)-capacity:]
		}
		if len(want) == 0 {
			assert.Nil(t, snap.Texts())
			continue
		}
		assert.Equal(t, want, snap.Texts(), "round %d", round)
	}
}

func TestBuffer_DuplicatesAreDistinct(t *testing.T) {
	b := NewBuffer(10)
	snap := b.Append([]string{"same", "same", "same"})

	require.Equal(t, 3, snap.Len())
	assert.Equal(t, uint64(0), snap.At(0).Seq)
	assert.Equal(t, uint64(1), snap.At(1).Seq)
	assert.Equal(t, uint64(2), snap.At(2).Seq)
}

func TestBuffer_SnapshotsAreImmutable(t *testing.T) {
	b := NewBuffer(2)
	first := b.Append([]string{"a", "b"})

	b.Append([]string{"c"})
	b.Append([]string{"d", "e"})

	assert.Equal(t, []string{"a", "b"}, first.Texts())
	assert.Equal(t, []string{"d", "e"}, b.Snapshot().Texts())

	visible := first.Slice(0, 2)
	visible[0].Text = "mutated"
	assert.Equal(t, "a", first.At(0).Text, "Slice must return a copy")
}

func TestBuffer_EmptyAppendIsNoop(t *testing.T) {
	b := NewBuffer(2)
	before := b.Append([]string{"a"})

	after := b.Append(nil)

	assert.Equal(t, before.Version(), after.Version())
	assert.Equal(t, before.Texts(), after.Texts())
}

func TestBuffer_VersionCountsAppends(t *testing.T) {
	b := NewBuffer(2)
	assert.Equal(t, uint64(0), b.Snapshot().Version())

	b.Append([]string{"a"})
	b.Append([]string{"b", "c"})

	assert.Equal(t, uint64(2), b.Snapshot().Version())
}

func TestSnapshot_SliceClamps(t *testing.T) {
	b := NewBuffer(5)
	snap := b.Append([]string{"a", "b", "c"})

	tests := []struct {
		name       string
		start, end int
		want       []string
	}{
		{"full", 0, 3, []string{"a", "b", "c"}},
		{"negative start", -2, 2, []string{"a", "b"}},
		{"end past len", 1, 99, []string{"b", "c"}},
		{"empty range", 2, 2, nil},
		{"inverted", 3, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snap.Slice(tt.start, tt.end)
			var texts []string
			for _, e := range got {
				texts = append(texts, e.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestSnapshot_ZeroValue(t *testing.T) {
	var snap Snapshot

	assert.Equal(t, 0, snap.Len())
	_, ok := snap.Last()
	assert.False(t, ok)
	assert.Nil(t, snap.Slice(0, 10))
}
