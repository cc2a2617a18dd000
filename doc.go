// SPDX-License-Identifier: GPL-3.0-or-later

// Package awaitnet turns socket operations into awaitable futures with
// per-call timeout control.
//
// # Core Abstraction
//
// The package is built around the [*Socket] facade. Each of its five
// primitive operations (Connect, Accept, Disconnect, Send, Receive) issues
// exactly one asynchronous attempt and returns a [*Future] typed to that
// operation's result:
//
//	future := sock.Connect(ctx, endpoint, awaitnet.TimeoutAfter(time.Second))
//	connected := future.Wait()
//
// Behind each future sits a single-assignment result cell with two possible
// producers: the completion bridge, which runs the underlying primitive on
// its own goroutine, and the timeout guard, an independently-armed deadline.
// Whichever fires first resolves the future; the other's write is a no-op.
// Each call owns its context, cell, and timer outright, so there is no
// shared mutable completion state to coordinate.
//
// # Timeout Philosophy
//
// A per-call [Timeout] bounds the caller's wait, nothing more. When it
// expires, the future resolves with the socket's observable state at that
// moment (Connect and Disconnect report [Socket.Connected], Send and Receive
// report zero bytes, Accept reports no peer) and the underlying operation
// keeps running unobserved. A connect that times out may therefore still
// establish the connection later. This mirrors the semantics of the
// completion-based socket APIs this package bridges; callers who need the
// handle torn down on timeout should follow up with [Socket.Close].
//
// [NoTimeout], the zero value, means the caller waits until the operation
// actually completes. There is no hidden magic duration for "forever".
//
// # Error Philosophy
//
// The five primitive operations never surface low-level errors. Refused,
// unreachable, reset, and timed out all collapse into the operation's
// neutral negative result: false, zero bytes, or a nil peer. This is a
// deliberate contract and a known limitation: callers
// needing diagnosis must look outside this API, starting with the structured
// logs, where the absorbed error and its classification are recorded.
//
// The only escalated failures live in the convenience adapters, which can
// fail before an operation even starts: [Socket.ConnectHost] returns
// [ErrNoAddresses] when resolution yields nothing to dial, and
// [Socket.AcceptAddr] returns the address parse error.
//
// # Connection Lifecycle
//
// A [*Socket] exclusively owns its underlying handle. Accept wraps each
// inbound connection in a brand-new facade with no state shared with the
// listener. [Socket.Close] is idempotent and releases the connection and
// any listener; subsequent calls return [net.ErrClosed].
//
// A facade supports one pending operation at a time. The package provides
// no internal queueing: overlapping operations on the same facade are a
// caller error.
//
// # Observability
//
// All operations support structured logging via [SLogger] (compatible with
// [log/slog]). By default, logging is disabled; set a custom [*slog.Logger]
// to enable it. Every operation emits a *Start/*Done event pair carrying a
// per-call UUIDv7 callID (see [NewCallID]); a guard that releases a caller
// additionally emits timeoutFired. Absorbed errors appear in *Done events
// together with their [ErrClassifier] label.
//
// # Design Boundaries
//
// This package bridges single operations; it is not a connection pool, not
// a protocol implementation, and provides no backpressure, retries, or
// multiplexing. Higher layers own those concerns.
package awaitnet
