// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/bassosimone/safeconn"
)

// Dialer abstracts the [*net.Dialer] behavior.
//
// By making [*Socket] depend on an abstract implementation we
// allow for unit testing and for using alternative dialers.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Connect dials the endpoint and returns a future that resolves to the
// facade's connection state after resolution. No implicit bind occurs.
//
// The ctx argument flows unmodified to the dialer; it is not the per-call
// timeout. The timeout argument bounds only the caller's wait: on expiry
// the future resolves with [Socket.Connected] as observed at that moment,
// and the dial keeps running. A dial that completes after the timeout still
// installs the connection, with no one observing the resolution, unless
// [Socket.Close] ran in the meantime, in which case the late connection is
// released instead of installed.
//
// Dial failures are absorbed: the future resolves false whether the peer
// refused, the network was unreachable, or the deadline fired first.
func (s *Socket) Connect(ctx context.Context, endpoint netip.AddrPort, timeout Timeout) *Future[bool] {
	opctx := newOpContext[bool](opConnect, timeout)
	opctx.endpoint = endpoint
	t0 := s.TimeNow()
	s.logConnectStart(opctx, t0)

	bridge := newCompletionBridge(opctx)
	bridge.armGuard(s.Connected, func(value bool) {
		s.logTimeoutFired(opConnect, opctx.callID, timeout, t0, value)
	})
	bridge.start(
		func() (bool, error) {
			conn, err := s.Dialer.DialContext(ctx, s.Network, endpoint.String())
			if err != nil {
				return s.Connected(), err
			}
			s.adoptConn(conn)
			return s.Connected(), nil
		},
		func(value bool, err error, won bool) {
			s.logConnectDone(opctx, t0, value, err, won)
		},
	)
	return opctx.future
}

// ConnectAddr is [Socket.Connect] for a separate address and port.
func (s *Socket) ConnectAddr(ctx context.Context, addr netip.Addr, port uint16, timeout Timeout) *Future[bool] {
	return s.Connect(ctx, netip.AddrPortFrom(addr, port), timeout)
}

func (s *Socket) logConnectStart(opctx *opContext[bool], t0 time.Time) {
	duration, _ := opctx.timeout.Duration()
	s.Logger.Info(
		"connectStart",
		slog.String("callID", opctx.callID),
		slog.String("protocol", s.Network),
		slog.String("remoteAddr", opctx.endpoint.String()),
		slog.Duration("timeout", duration),
		slog.Time("t", t0),
	)
}

func (s *Socket) logConnectDone(opctx *opContext[bool], t0 time.Time, value bool, err error, won bool) {
	s.Logger.Info(
		"connectDone",
		slog.String("callID", opctx.callID),
		slog.Any("err", err),
		slog.String("errClass", s.ErrClassifier.Classify(err)),
		slog.String("localAddr", safeconn.LocalAddr(s.currentConn())),
		slog.String("protocol", s.Network),
		slog.String("remoteAddr", opctx.endpoint.String()),
		slog.Bool("resolved", won),
		slog.Bool("value", value),
		slog.Time("t0", t0),
		slog.Time("t", s.TimeNow()),
	)
}
