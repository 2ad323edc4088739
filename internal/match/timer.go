package match

import (
	"sync"
	"time"
)

// RoundTimer fires a callback once a turn deadline passes unless stopped.
// It is safe for concurrent use.
type RoundTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	// gen invalidates callbacks armed before the latest Reset or Stop.
	gen   uint64
	fired bool
}

// NewRoundTimer creates and starts a timer that calls onFire after duration.
// onFire is called in a separate goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: Returns a running RoundTimer; onFire will be called unless Stop is called first.
func NewRoundTimer(duration time.Duration, onFire func()) *RoundTimer {
	rt := &RoundTimer{}
	rt.arm(duration, onFire)
	return rt
}

func (rt *RoundTimer) arm(duration time.Duration, onFire func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.gen++
	gen := rt.gen
	rt.fired = false
	rt.timer = time.AfterFunc(duration, func() {
		rt.mu.Lock()
		live := rt.gen == gen
		if live {
			rt.fired = true
		}
		rt.mu.Unlock()
		if live {
			onFire()
		}
	})
}

// Reset cancels the current deadline and arms a new one.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: only the new onFire can be called, after duration from now,
// unless Stop is called first.
func (rt *RoundTimer) Reset(duration time.Duration, onFire func()) {
	rt.Stop()
	rt.arm(duration, onFire)
}

// Stop prevents the pending callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns unless it had
// already started.
func (rt *RoundTimer) Stop() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.gen++
	rt.timer.Stop()
}

// Fired reports whether the current deadline has passed.
func (rt *RoundTimer) Fired() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.fired
}
