// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"log/slog"
	"time"

	"github.com/bassosimone/safeconn"
)

// Disconnect closes the current connection and returns a future that
// resolves to true iff the facade is not connected after resolution.
//
// When the facade is already disconnected, the future resolves true
// synchronously. When a finite timeout fires before the close finishes, the
// future resolves with the negated [Socket.Connected] observed at that
// moment (typically false, since the connection is still up) rather than
// a fixed constant. Close errors are absorbed; the handle is dropped
// regardless.
func (s *Socket) Disconnect(timeout Timeout) *Future[bool] {
	opctx := newOpContext[bool](opDisconnect, timeout)
	t0 := s.TimeNow()
	conn := s.currentConn()
	s.logDisconnectStart(opctx, t0)

	bridge := newCompletionBridge(opctx)
	if conn == nil {
		bridge.resolveNow(true)
		s.logDisconnectDone(opctx, t0, true, nil, true)
		return opctx.future
	}

	bridge.armGuard(
		func() bool { return !s.Connected() },
		func(value bool) {
			s.logTimeoutFired(opDisconnect, opctx.callID, timeout, t0, value)
		},
	)
	bridge.start(
		func() (bool, error) {
			err := conn.Close()
			s.dropConn(conn)
			return !s.Connected(), err
		},
		func(value bool, err error, won bool) {
			s.logDisconnectDone(opctx, t0, value, err, won)
		},
	)
	return opctx.future
}

func (s *Socket) logDisconnectStart(opctx *opContext[bool], t0 time.Time) {
	duration, _ := opctx.timeout.Duration()
	s.Logger.Info(
		"disconnectStart",
		slog.String("callID", opctx.callID),
		slog.String("localAddr", safeconn.LocalAddr(s.currentConn())),
		slog.String("protocol", s.Network),
		slog.String("remoteAddr", safeconn.RemoteAddr(s.currentConn())),
		slog.Duration("timeout", duration),
		slog.Time("t", t0),
	)
}

func (s *Socket) logDisconnectDone(opctx *opContext[bool], t0 time.Time, value bool, err error, won bool) {
	s.Logger.Info(
		"disconnectDone",
		slog.String("callID", opctx.callID),
		slog.Any("err", err),
		slog.String("errClass", s.ErrClassifier.Classify(err)),
		slog.String("protocol", s.Network),
		slog.Bool("resolved", won),
		slog.Bool("value", value),
		slog.Time("t0", t0),
		slog.Time("t", s.TimeNow()),
	)
}
