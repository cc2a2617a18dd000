// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

// SLogger abstracts the [*slog.Logger] behavior.
//
// Using an abstraction here allows unit testing and alternative implementations.
//
// This package emits paired lifecycle events per operation (connectStart and
// connectDone, sendStart and sendDone, and so on) plus a timeoutFired event
// when a guard releases a caller. All events carry the operation's callID so
// that the start, the resolution, and a possible late completion of the same
// call can be correlated. Lifecycle events use Info; per-I/O detail uses Debug.
//
// The [*slog.Logger] type satisfies this interface.
type SLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// DefaultSLogger returns the default [SLogger] to use.
//
// The default discards all output: the library never writes to stdout or
// stderr unless explicitly configured with a real [*slog.Logger].
func DefaultSLogger() SLogger {
	return discardSLogger{}
}

// discardSLogger is a no-op [SLogger] that discards all log messages.
type discardSLogger struct{}

var _ SLogger = discardSLogger{}

// Debug implements [SLogger].
func (discardSLogger) Debug(msg string, args ...any) {
	// nothing
}

// Info implements [SLogger].
func (discardSLogger) Info(msg string, args ...any) {
	// nothing
}
