// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import "net/netip"

// opKind identifies which socket primitive an operation context drives.
type opKind int

const (
	opConnect = opKind(iota)
	opAccept
	opDisconnect
	opSend
	opReceive
)

// String returns the operation name used in structured log events.
func (k opKind) String() string {
	switch k {
	case opConnect:
		return "connect"
	case opAccept:
		return "accept"
	case opDisconnect:
		return "disconnect"
	case opSend:
		return "send"
	case opReceive:
		return "receive"
	default:
		return "unknown"
	}
}

// opContext carries the per-call state of one in-flight socket operation.
//
// A context is built fresh by the [Socket] facade for each call and never
// reused: retrying means a new call with a new context. It owns the result
// cell that the completion bridge and the timeout guard race to write, plus
// whatever the underlying primitive needs (buffer, target endpoint).
//
// The buffer, when present, is the caller's slice passed through without
// copying. Send transmits from it; Receive fills it in place.
type opContext[T any] struct {
	// kind says which primitive this context drives.
	kind opKind

	// callID correlates all log events emitted for this call.
	callID string

	// timeout bounds the caller's wait. Zero value means no deadline.
	timeout Timeout

	// buffer is the caller-owned payload slice (Send/Receive only).
	buffer []byte

	// endpoint is the target address (Connect/Accept only).
	endpoint netip.AddrPort

	// future is the single-assignment result cell.
	future *Future[T]

	// guard is this call's timeout guard, created idle.
	guard *timeoutGuard
}

// newOpContext builds the per-call state for a fresh operation.
func newOpContext[T any](kind opKind, timeout Timeout) *opContext[T] {
	return &opContext[T]{
		kind:    kind,
		callID:  NewCallID(),
		timeout: timeout,
		future:  newFuture[T](),
		guard:   newTimeoutGuard(),
	}
}
