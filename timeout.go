// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import "time"

// Timeout bounds how long a caller waits for a [Future] to resolve.
//
// The zero value means "no deadline": the caller waits until the underlying
// operation completes, and the completion bridge is the sole resolver. Use
// [TimeoutAfter] for a finite bound. We use an explicit optional value instead
// of a negative-duration sentinel so that "wait forever" is visible in the code
// that requests it.
//
// A Timeout bounds only the caller's wait. When it expires, the future resolves
// with the socket's observable state at that moment, and the in-flight operation
// keeps running with no one observing its eventual outcome. See the package
// documentation for the implications of this design.
type Timeout struct {
	duration time.Duration
	finite   bool
}

// NoTimeout is the [Timeout] meaning "wait until the operation completes".
var NoTimeout = Timeout{}

// TimeoutAfter returns a finite [Timeout] expiring after d.
//
// The duration must be non-negative. A zero d produces a timeout that
// expires immediately after the operation starts.
func TimeoutAfter(d time.Duration) Timeout {
	return Timeout{duration: d, finite: true}
}

// Finite reports whether the timeout carries a deadline.
func (t Timeout) Finite() bool {
	return t.finite
}

// Duration returns the deadline duration and whether it is finite.
func (t Timeout) Duration() (time.Duration, bool) {
	return t.duration, t.finite
}
