package typewriter

import (
	"sync"
	"time"
)

// manualClock fires callbacks only when the test advances it.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
	// leakyStop makes Stop report success without preventing the callback,
	// which imitates a timer that fired while the engine held its lock.
	leakyStop bool
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	if !t.clock.leakyStop {
		t.stopped = true
	}
	return true
}

// Now returns the virtual time.
func (c *manualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Live counts timers that have neither fired nor been stopped.
func (c *manualClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward by d, firing due timers in order.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		t := c.next(target)
		if t == nil {
			return
		}
		t.f()
	}
}

// RunUntilIdle fires timers in order until none are live, up to limit firings.
func (c *manualClock) RunUntilIdle(limit int) int {
	fired := 0
	for fired < limit {
		t := c.next(-1)
		if t == nil {
			break
		}
		t.f()
		fired++
	}
	return fired
}

// next pops the earliest live timer due at or before target; a negative
// target accepts any deadline.
func (c *manualClock) next(target time.Duration) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var best *manualTimer
	for _, t := range c.timers {
		if t.fired || t.stopped {
			continue
		}
		if target >= 0 && t.at > target {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	if best == nil {
		if target >= 0 && target > c.now {
			c.now = target
		}
		return nil
	}
	if best.at > c.now {
		c.now = best.at
	}
	best.fired = true
	return best
}
