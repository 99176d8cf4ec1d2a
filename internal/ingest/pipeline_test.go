package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_TickAppendsBatch(t *testing.T) {
	p := NewPipeline(500*time.Millisecond, 3)

	gen, arm := p.Submit("a")
	require.True(t, arm)
	snap, changed := p.Tick(gen)
	require.True(t, changed)
	assert.Equal(t, []string{"a"}, snap.Texts())

	gen, _ = p.Submit("b")
	p.Submit("c")
	p.Submit("d")
	snap, changed = p.Tick(gen)
	require.True(t, changed)
	assert.Equal(t, []string{"b", "c", "d"}, snap.Texts())
	assert.Equal(t, snap.Texts(), p.Snapshot().Texts())
}

func TestPipeline_StaleTickLeavesBufferAlone(t *testing.T) {
	p := NewPipeline(time.Second, 10)

	gen, _ := p.Submit("a")
	_, changed := p.Drain()
	require.True(t, changed)

	before := p.Snapshot().Version()
	_, changed = p.Tick(gen)
	assert.False(t, changed)
	assert.Equal(t, before, p.Snapshot().Version())
}

func TestPipeline_StopPreventsMutation(t *testing.T) {
	p := NewPipeline(time.Second, 10)

	gen, _ := p.Submit("a")
	p.Stop()

	_, changed := p.Tick(gen)
	assert.False(t, changed)
	assert.Equal(t, 0, p.Snapshot().Len())

	_, arm := p.Submit("b")
	assert.False(t, arm)
	assert.Equal(t, 0, p.Pending())
}

func TestPipeline_Defaults(t *testing.T) {
	p := NewPipeline(0, 0)
	assert.Equal(t, DefaultWindow, p.Window())
	assert.Equal(t, 1000, p.Snapshot().Capacity())
}
