package watch

import (
	"sync"
	"time"
)

// DebounceGate coalesces bursts of signals for one group into a single
// trigger, fired after a quiet interval with no further signals. The gate
// has two states: Quiet (no timer) and Pending (timer armed). Every signal
// in Pending replaces the countdown with a fresh full interval, so the
// trigger fires the interval after the *last* signal of a burst.
//
// A single owned timer handle is replaced on each signal rather than
// spawning a timer per signal, so rapid bursts cannot leak resources. The
// generation counter suppresses an expiry that raced with a later signal.
type DebounceGate struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	gen      uint64
	fire     func()
	stopped  bool
}

// NewDebounceGate creates a gate that invokes fire on trigger. A zero
// interval disables coalescing: every signal fires immediately.
func NewDebounceGate(interval time.Duration, fire func()) *DebounceGate {
	return &DebounceGate{
		interval: interval,
		fire:     fire,
	}
}

// Signal records a change for the group. Never blocks.
func (g *DebounceGate) Signal() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}

	if g.interval == 0 {
		g.mu.Unlock()
		g.fire()
		return
	}

	g.gen++
	gen := g.gen
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.interval, func() {
		g.expire(gen)
	})
	g.mu.Unlock()
}

// Pending reports whether a trigger is currently scheduled.
func (g *DebounceGate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer != nil
}

// Stop cancels any pending trigger and prevents future ones. After Stop
// returns, fire will never be invoked again (an expiry racing Stop is
// suppressed).
func (g *DebounceGate) Stop() {
	g.mu.Lock()
	g.stopped = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.mu.Unlock()
}

func (g *DebounceGate) expire(gen uint64) {
	g.mu.Lock()
	if g.stopped || gen != g.gen {
		// A later signal superseded this countdown.
		g.mu.Unlock()
		return
	}
	g.timer = nil
	g.mu.Unlock()

	g.fire()
}
