// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"sync/atomic"
	"time"
)

// guardState is the lifecycle state of a [*timeoutGuard].
type guardState int32

const (
	// guardIdle means the guard has no deadline and never fires.
	guardIdle = guardState(iota)

	// guardArmed means a timer is running and the guard may still fire.
	guardArmed

	// guardFired means the deadline elapsed before the bridge resolved.
	guardFired

	// guardDisarmed means the bridge resolved before the deadline.
	guardDisarmed
)

// String returns the state name for logging and debugging.
func (s guardState) String() string {
	switch s {
	case guardIdle:
		return "idle"
	case guardArmed:
		return "armed"
	case guardFired:
		return "fired"
	case guardDisarmed:
		return "disarmed"
	default:
		return "unknown"
	}
}

// timeoutGuard bounds how long a caller waits for a result cell to be
// written, independently of whether the underlying operation ever completes.
//
// The guard moves Idle → Armed → {Fired | Disarmed}. Fired and Disarmed are
// terminal and mutually exclusive: the transition is a compare-and-swap on
// the state word, so whichever of {deadline expiry, bridge resolution}
// happens first suppresses the other.
//
// Firing releases the caller only. The in-flight operation is not cancelled
// and keeps running until the OS completes or fails it.
type timeoutGuard struct {
	state atomic.Int32
	timer *time.Timer
}

// newTimeoutGuard returns an idle [*timeoutGuard].
func newTimeoutGuard() *timeoutGuard {
	return &timeoutGuard{}
}

// arm starts the deadline. With [NoTimeout] the guard stays Idle and the
// bridge is the sole resolver. The expire callback runs at most once, and
// only if the guard reaches Fired before disarm is called.
//
// arm must happen before the bridge goroutine may call disarm; [Socket]
// operations arm the guard before launching the bridge.
func (g *timeoutGuard) arm(timeout Timeout, expire func()) {
	duration, finite := timeout.Duration()
	if !finite {
		return
	}
	if !g.state.CompareAndSwap(int32(guardIdle), int32(guardArmed)) {
		return
	}
	g.timer = time.AfterFunc(duration, func() {
		if g.state.CompareAndSwap(int32(guardArmed), int32(guardFired)) {
			expire()
		}
	})
}

// disarm suppresses the deadline after the bridge resolved the cell first.
// Disarming an Idle or already-Fired guard is a no-op.
func (g *timeoutGuard) disarm() {
	if g.state.CompareAndSwap(int32(guardArmed), int32(guardDisarmed)) {
		g.timer.Stop()
	}
}

// current returns the guard's current state.
func (g *timeoutGuard) current() guardState {
	return guardState(g.state.Load())
}
