// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

// completionBridge couples one operation context with the execution of the
// underlying socket primitive and guarantees the result cell is written
// exactly once on every exit path.
//
// There are three exit paths:
//
//   - synchronous completion: the outcome is already decided before any wait
//     exists (no connection for Send/Receive, bind failure for Accept). The
//     facade calls [completionBridge.resolveNow] and neither a goroutine nor
//     a timer is ever created.
//
//   - normal completion: the primitive finishes on the bridge goroutine,
//     which writes the cell and then disarms the guard. The guard is disarmed
//     strictly after resolution so that a concurrently-firing guard observes
//     either an armed timer or a resolved cell, never neither.
//
//   - timeout: the guard fires first and writes the cell with a snapshot of
//     the socket's observable state. The bridge goroutine keeps running; when
//     the primitive eventually finishes, its write is a no-op.
//
// Low-level errors reported by the primitive are absorbed: perform returns
// the neutral value to resolve with alongside the error, and the error only
// reaches the done hook for logging. Callers cannot distinguish refused from
// reset from timed out through the future, which preserves the contract this
// interface was built around.
type completionBridge[T any] struct {
	opctx *opContext[T]
}

// newCompletionBridge returns a bridge for the given operation context.
func newCompletionBridge[T any](opctx *opContext[T]) *completionBridge[T] {
	return &completionBridge[T]{opctx: opctx}
}

// resolveNow completes the call synchronously with the given value.
//
// Use this when a precondition already decides the outcome and there is no
// pending primitive to wait for.
func (b *completionBridge[T]) resolveNow(value T) {
	b.opctx.future.resolve(value)
}

// armGuard starts this call's timeout guard.
//
// When the deadline expires before the primitive completes, the result cell
// is written with snapshot(), the socket's observable state at that moment
// rather than an error constant, and fired runs with the written value. When the
// call carries [NoTimeout] this is a no-op and the bridge goroutine is the
// sole resolver.
//
// armGuard must be called before [completionBridge.start].
func (b *completionBridge[T]) armGuard(snapshot func() T, fired func(value T)) {
	opctx := b.opctx
	opctx.guard.arm(opctx.timeout, func() {
		value := snapshot()
		if opctx.future.resolve(value) {
			fired(value)
		}
	})
}

// start launches perform on its own goroutine and resolves the result cell
// with its outcome, then disarms the guard and invokes done.
//
// perform blocks until the underlying primitive finishes and returns the
// value to resolve with plus the absorbed low-level error, if any. done
// receives the outcome, the absorbed error, and whether this completion's
// write released the caller (false when the guard fired first).
func (b *completionBridge[T]) start(perform func() (T, error), done func(value T, err error, won bool)) {
	opctx := b.opctx
	go func() {
		value, err := perform()
		won := opctx.future.resolve(value)
		opctx.guard.disarm()
		done(value, err, won)
	}()
}
