package ingest

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// virtualLoop drives a Throttle the way an event loop would, on a simulated
// clock, recording each flush and when it happened.
type virtualLoop struct {
	throttle *Throttle
	now      time.Duration
	timers   []virtualTimer
	flushes  []flushRecord
}

type virtualTimer struct {
	at  time.Duration
	gen uint64
}

type flushRecord struct {
	at    time.Duration
	batch []string
}

func newVirtualLoop(window time.Duration) *virtualLoop {
	return &virtualLoop{throttle: NewThrottle(window)}
}

func (l *virtualLoop) submitAt(at time.Duration, text string) {
	l.advance(at)
	if gen, arm := l.throttle.Submit(text); arm {
		l.timers = append(l.timers, virtualTimer{at: l.now + l.throttle.Window(), gen: gen})
	}
}

// advance fires every timer due at or before to, in order.
func (l *virtualLoop) advance(to time.Duration) {
	for {
		sort.Slice(l.timers, func(i, j int) bool { return l.timers[i].at < l.timers[j].at })
		if len(l.timers) == 0 || l.timers[0].at > to {
			break
		}
		tm := l.timers[0]
		l.timers = l.timers[1:]
		l.now = tm.at
		if batch := l.throttle.Fire(tm.gen); len(batch) > 0 {
			l.flushes = append(l.flushes, flushRecord{at: l.now, batch: batch})
		}
	}
	if to > l.now {
		l.now = to
	}
}

func (l *virtualLoop) delivered() []string {
	var out []string
	for _, f := range l.flushes {
		out = append(out, f.batch...)
	}
	return out
}

func TestThrottle_DefaultWindow(t *testing.T) {
	assert.Equal(t, DefaultWindow, NewThrottle(0).Window())
	assert.Equal(t, 250*time.Millisecond, NewThrottle(250*time.Millisecond).Window())
}

func TestThrottle_CoalescesWithinWindow(t *testing.T) {
	loop := newVirtualLoop(500 * time.Millisecond)

	loop.submitAt(0, "x")
	loop.submitAt(100*time.Millisecond, "y")
	loop.advance(time.Second)

	require.Len(t, loop.flushes, 1)
	assert.Equal(t, 500*time.Millisecond, loop.flushes[0].at)
	assert.Equal(t, []string{"x", "y"}, loop.flushes[0].batch)
}

func TestThrottle_ArmsOncePerWindow(t *testing.T) {
	th := NewThrottle(time.Second)

	gen, arm := th.Submit("a")
	require.True(t, arm)

	gen2, arm2 := th.Submit("b")
	assert.False(t, arm2)
	assert.Equal(t, gen, gen2)
	assert.Equal(t, 2, th.Pending())

	assert.Equal(t, []string{"a", "b"}, th.Fire(gen))
	assert.False(t, th.Armed())

	_, arm3 := th.Submit("c")
	assert.True(t, arm3, "a submit after a flush opens a new window")
}

func TestThrottle_StaleGenerationIgnored(t *testing.T) {
	th := NewThrottle(time.Second)

	gen, _ := th.Submit("a")
	assert.Equal(t, []string{"a"}, th.Flush())
	assert.Nil(t, th.Fire(gen), "timer of a flushed window is stale")

	next, arm := th.Submit("b")
	require.True(t, arm)
	assert.Nil(t, th.Fire(gen))
	assert.Equal(t, []string{"b"}, th.Fire(next))
}

func TestThrottle_StopCancelsPendingTimer(t *testing.T) {
	th := NewThrottle(time.Second)

	gen, _ := th.Submit("a")
	th.Stop()

	assert.Nil(t, th.Fire(gen))
	assert.Equal(t, 0, th.Pending())
	assert.True(t, th.Stopped())

	_, arm := th.Submit("late")
	assert.False(t, arm)
	assert.Equal(t, 0, th.Pending())

	th.Stop()
}

func TestThrottle_FlushWithoutWindow(t *testing.T) {
	assert.Nil(t, NewThrottle(time.Second).Flush())
}

func TestThrottle_NoLossUnderContinuousInput(t *testing.T) {
	const window = 500 * time.Millisecond
	loop := newVirtualLoop(window)

	var sent []string
	for i := 0; i < 500; i++ {
		msg := fmt.Sprintf("m%d", i)
		sent = append(sent, msg)
		loop.submitAt(time.Duration(i)*7*time.Millisecond, msg)
	}
	loop.advance(time.Hour)

	assert.Equal(t, sent, loop.delivered())
	assert.Equal(t, 0, loop.throttle.Pending())

	for i := 1; i < len(loop.flushes); i++ {
		gap := loop.flushes[i].at - loop.flushes[i-1].at
		assert.GreaterOrEqual(t, gap, window, "at most one flush per window")
	}
}

func TestThrottle_OrderPreservedAcrossRandomBoundaries(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		window := time.Duration(50+rng.Intn(500)) * time.Millisecond
		loop := newVirtualLoop(window)

		var sent []string
		var at time.Duration
		for i := 0; i < 200; i++ {
			at += time.Duration(rng.Intn(400)) * time.Millisecond
			msg := fmt.Sprintf("t%d-%d", trial, i%13)
			sent = append(sent, msg)
			loop.submitAt(at, msg)
		}
		loop.advance(at + window)

		require.Equal(t, sent, loop.delivered(), "trial %d", trial)
	}
}
