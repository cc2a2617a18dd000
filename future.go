// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import "sync"

// Future is the caller-observable side of one in-flight socket operation.
//
// A Future wraps a single-assignment result cell. Two producers may attempt
// to write it: the completion bridge, when the underlying primitive finishes,
// and the timeout guard, when the per-call deadline expires. Whichever writes
// first determines the value the caller observes; the loser's write is a no-op.
//
// Futures are created by [Socket] operations and are never reused across calls.
//
// Operations never report errors through a Future: failures of the underlying
// primitive are absorbed into the operation's neutral negative result (false,
// zero bytes, or a nil peer). See the package documentation for why.
type Future[T any] struct {
	// done is closed exactly once, after value is written.
	done chan struct{}

	// once serializes the first write against all later ones.
	once sync.Once

	// value is the resolved result; valid only after done is closed.
	value T
}

// newFuture returns an unresolved [*Future].
func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// resolve writes the result cell and reports whether this call performed
// the write. Later calls leave the cell untouched and return false.
func (f *Future[T]) resolve(value T) (first bool) {
	f.once.Do(func() {
		f.value = value
		close(f.done)
		first = true
	})
	return
}

// Wait blocks until the future resolves and returns its value.
func (f *Future[T]) Wait() T {
	<-f.done
	return f.value
}

// Done returns a channel that is closed when the future resolves.
//
// Use this with select to compose a future with other channels. After Done
// is closed, [Future.Wait] and [Future.Value] return immediately.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Value returns the resolved value without blocking. The second return
// value reports whether the future has resolved yet.
func (f *Future[T]) Value() (T, bool) {
	select {
	case <-f.done:
		return f.value, true
	default:
		var zero T
		return zero, false
	}
}
