// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/awaitnet/awaitnet/listenq"
	"github.com/bassosimone/safeconn"
)

// ListenerFactory abstracts creating a bound, listening socket.
//
// By making [*Socket] depend on an abstract implementation we allow for
// unit testing and for platform-specific backlog handling.
type ListenerFactory interface {
	Listen(ctx context.Context, network, address string, backlog int) (net.Listener, error)
}

// ListenerFactoryFunc adapts a function to the [ListenerFactory] interface.
type ListenerFactoryFunc func(ctx context.Context, network, address string, backlog int) (net.Listener, error)

var _ ListenerFactory = ListenerFactoryFunc(nil)

// Listen implements [ListenerFactory].
func (f ListenerFactoryFunc) Listen(ctx context.Context, network, address string, backlog int) (net.Listener, error) {
	return f(ctx, network, address, backlog)
}

// DefaultListenerFactory creates listeners through [listenq.Listen], which
// passes the backlog to listen(2) where the platform allows it.
var DefaultListenerFactory ListenerFactory = ListenerFactoryFunc(listenq.Listen)

// Accept waits for an inbound connection and returns a future that resolves
// to a new [*Socket] owning the accepted handle, or nil when no connection
// arrived (bind failure, accept failure, or timeout).
//
// The first Accept on a facade lazily binds and listens on endpoint with the
// given backlog. Later calls reuse the same listener: they never rebind and
// never reset the backlog, and their endpoint and backlog arguments are
// ignored. When binding fails, the future resolves nil synchronously; no
// goroutine or timer is created, and a later Accept may retry the bind.
//
// The accepted facade shares no mutable state with the listening facade.
func (s *Socket) Accept(ctx context.Context, endpoint netip.AddrPort, backlog int, timeout Timeout) *Future[*Socket] {
	opctx := newOpContext[*Socket](opAccept, timeout)
	opctx.endpoint = endpoint
	t0 := s.TimeNow()
	s.logAcceptStart(opctx, backlog, t0)

	bridge := newCompletionBridge(opctx)
	listener, err := s.ensureListener(ctx, endpoint, backlog)
	if err != nil {
		bridge.resolveNow(nil)
		s.logAcceptDone(opctx, t0, nil, err, true)
		return opctx.future
	}

	bridge.armGuard(
		func() *Socket { return nil },
		func(value *Socket) {
			s.logTimeoutFired(opAccept, opctx.callID, timeout, t0, value)
		},
	)
	bridge.start(
		func() (*Socket, error) {
			conn, err := listener.Accept()
			if err != nil {
				return nil, err
			}
			return s.newPeerSocket(conn), nil
		},
		func(peer *Socket, err error, won bool) {
			s.logAcceptDone(opctx, t0, peer, err, won)
		},
	)
	return opctx.future
}

// AcceptAddr is [Socket.Accept] for a textual IP address. Unlike operation
// failures, an unparsable address is escalated as an error: there is no
// endpoint to even start an accept on.
func (s *Socket) AcceptAddr(ctx context.Context, ip string, port uint16, backlog int, timeout Timeout) (*Future[*Socket], error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return nil, err
	}
	return s.Accept(ctx, netip.AddrPortFrom(addr, port), backlog, timeout), nil
}

// ensureListener binds and listens on the first call and returns the cached
// listener afterwards, so repeated Accept calls never rebind.
func (s *Socket) ensureListener(ctx context.Context, endpoint netip.AddrPort, backlog int) (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener, nil
	}
	listener, err := s.ListenerFactory.Listen(ctx, s.Network, endpoint.String(), backlog)
	if err != nil {
		return nil, err
	}
	s.listener = listener
	return listener, nil
}

func (s *Socket) logAcceptStart(opctx *opContext[*Socket], backlog int, t0 time.Time) {
	duration, _ := opctx.timeout.Duration()
	s.Logger.Info(
		"acceptStart",
		slog.Int("backlog", backlog),
		slog.String("callID", opctx.callID),
		slog.String("localAddr", opctx.endpoint.String()),
		slog.String("protocol", s.Network),
		slog.Duration("timeout", duration),
		slog.Time("t", t0),
	)
}

func (s *Socket) logAcceptDone(opctx *opContext[*Socket], t0 time.Time, peer *Socket, err error, won bool) {
	remoteAddr := ""
	if peer != nil {
		remoteAddr = safeconn.RemoteAddr(peer.currentConn())
	}
	s.Logger.Info(
		"acceptDone",
		slog.String("callID", opctx.callID),
		slog.Any("err", err),
		slog.String("errClass", s.ErrClassifier.Classify(err)),
		slog.String("localAddr", opctx.endpoint.String()),
		slog.String("protocol", s.Network),
		slog.String("remoteAddr", remoteAddr),
		slog.Bool("resolved", won),
		slog.Time("t0", t0),
		slog.Time("t", s.TimeNow()),
	)
}
