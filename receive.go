// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"log/slog"
	"time"

	"github.com/bassosimone/safeconn"
)

// Receive reads into buf and returns a future that resolves to the number
// of bytes received, 0 on failure or timeout.
//
// The buf slice is the caller's buffer filled in place without copying; the
// caller must not touch it until the future resolves. When the facade is
// not connected, the future resolves 0 synchronously. Read errors are
// absorbed: bytes delivered before the failure are still reported, so a
// read returning data together with EOF resolves to the delivered count.
func (s *Socket) Receive(buf []byte, timeout Timeout) *Future[int] {
	opctx := newOpContext[int](opReceive, timeout)
	opctx.buffer = buf
	t0 := s.TimeNow()
	conn := s.currentConn()
	s.logReceiveStart(opctx, t0)

	bridge := newCompletionBridge(opctx)
	if conn == nil {
		bridge.resolveNow(0)
		s.logReceiveDone(opctx, t0, 0, errNotConnected, true)
		return opctx.future
	}

	bridge.armGuard(
		func() int { return 0 },
		func(value int) {
			s.logTimeoutFired(opReceive, opctx.callID, timeout, t0, value)
		},
	)
	bridge.start(
		func() (int, error) {
			count, err := conn.Read(opctx.buffer)
			return count, err
		},
		func(count int, err error, won bool) {
			s.logReceiveDone(opctx, t0, count, err, won)
		},
	)
	return opctx.future
}

func (s *Socket) logReceiveStart(opctx *opContext[int], t0 time.Time) {
	duration, _ := opctx.timeout.Duration()
	s.Logger.Info(
		"receiveStart",
		slog.String("callID", opctx.callID),
		slog.Int("bufferSize", len(opctx.buffer)),
		slog.String("localAddr", safeconn.LocalAddr(s.currentConn())),
		slog.String("protocol", s.Network),
		slog.String("remoteAddr", safeconn.RemoteAddr(s.currentConn())),
		slog.Duration("timeout", duration),
		slog.Time("t", t0),
	)
}

func (s *Socket) logReceiveDone(opctx *opContext[int], t0 time.Time, count int, err error, won bool) {
	s.Logger.Info(
		"receiveDone",
		slog.String("callID", opctx.callID),
		slog.Int("count", count),
		slog.Any("err", err),
		slog.String("errClass", s.ErrClassifier.Classify(err)),
		slog.String("protocol", s.Network),
		slog.Bool("resolved", won),
		slog.Time("t0", t0),
		slog.Time("t", s.TimeNow()),
	)
}
