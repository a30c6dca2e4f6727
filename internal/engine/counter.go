package engine

import (
	"sync"
	"time"

	"github.com/ericogr/tickduel/internal/constants"
)

// Snapshot is one observation of a running counter.
type Snapshot struct {
	Value int
	// Miss counts full wrap-arounds (CounterMax -> 0) since the attempt
	// began.
	Miss int
}

// Counter is a single-use ticking counter. Start it, let the value climb on
// its own goroutine, then Stop it exactly once to freeze the result. A
// stopped counter never restarts; every attempt gets a fresh instance.
type Counter struct {
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	ticks    chan Snapshot

	// frozen is written once by the counting goroutine, strictly before
	// done is closed, and read only after done is closed.
	frozen Snapshot
}

// StartCounter launches the counting goroutine. The value begins at zero,
// increments once per interval and wraps to zero past constants.CounterMax,
// recording a miss on each wrap.
func StartCounter(interval time.Duration) *Counter {
	c := &Counter{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		ticks:    make(chan Snapshot, 1),
	}
	go c.run()
	return c
}

func (c *Counter) run() {
	defer close(c.done)
	defer close(c.ticks)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var cur Snapshot
	for {
		select {
		case <-c.stop:
			c.frozen = cur
			return
		case <-ticker.C:
			cur.Value++
			if cur.Value > constants.CounterMax {
				cur.Value = 0
				cur.Miss++
			}
			c.publish(cur)
		}
	}
}

// publish offers the latest snapshot to the display stream without ever
// blocking the tick loop. A stale undelivered frame is replaced, so a slow
// reader only loses intermediate frames, never the freshest one.
func (c *Counter) publish(s Snapshot) {
	select {
	case c.ticks <- s:
		return
	default:
	}
	select {
	case <-c.ticks:
	default:
	}
	select {
	case c.ticks <- s:
	default:
	}
}

// Stop delivers the one-shot stop signal, waits for the counting goroutine
// to exit and returns the frozen state. Extra calls are no-ops returning the
// same snapshot. Stopping before the first tick freezes at zero.
func (c *Counter) Stop() Snapshot {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return c.frozen
}

// Ticks exposes the display stream. Frames may be coalesced under pressure;
// the channel is closed once the counting goroutine exits.
func (c *Counter) Ticks() <-chan Snapshot {
	return c.ticks
}

// Running reports whether the counting goroutine is still live.
func (c *Counter) Running() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}
